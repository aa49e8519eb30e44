package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"kaban/internal/database"
	apperrors "kaban/internal/errors"
	"kaban/internal/logger"
	"kaban/internal/models"
	"kaban/internal/money"
	"kaban/internal/pagination"
	"kaban/internal/uuid"
)

// obligationService reserves allotment funds and tracks what happens to them.
type obligationService struct {
	runner *database.TxRunner
}

// NewObligationService creates a new ObligationServicer.
func NewObligationService(runner *database.TxRunner) ObligationServicer {
	return &obligationService{runner: runner}
}

// Reserve creates a pending obligation against an allotment and decrements
// its balance in the same transaction. Concurrent reservations against one
// allotment are serialized: the row is locked, and the balance decrement is
// conditional on the balance still covering the amount, so no interleaving
// can drive the balance negative.
func (s *obligationService) Reserve(ctx context.Context, tenantID, allotmentID string, req ReserveRequest, actor string) (*models.Obligation, error) {
	req.Payee = strings.TrimSpace(req.Payee)
	req.Purpose = strings.TrimSpace(req.Purpose)
	req.ReferenceCode = strings.TrimSpace(req.ReferenceCode)
	if req.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "amount must be greater than zero")
	}
	if req.Payee == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "payee is required")
	}

	var obligationID string
	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		var allotment models.Allotment
		if err := findOne(forUpdate(tx), &allotment, tenantID, allotmentID, apperrors.ErrAllotmentNotFound); err != nil {
			return err
		}
		if err := ensureFiscalYearOpen(tx, tenantID, allotment.FiscalYear); err != nil {
			return err
		}
		if req.Amount > allotment.CurrentBalance {
			return insufficientFunds(req.Amount, allotment.CurrentBalance)
		}

		ts := now()
		res := tx.Model(&models.Allotment{}).
			Where("id = ? AND current_balance >= ?", allotment.ID, req.Amount).
			Updates(map[string]any{
				"current_balance": gorm.Expr("current_balance - ?", req.Amount),
				"last_updated":    ts,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return database.ErrConflict
		}

		ob := &models.Obligation{
			TenantID:      tenantID,
			AllotmentID:   allotment.ID,
			ReferenceCode: req.ReferenceCode,
			Payee:         req.Payee,
			Purpose:       req.Purpose,
			Amount:        req.Amount,
			Status:        models.ObligationStatusPending,
			CreatedBy:     actor,
		}
		ob.ID = uuid.New()
		if ob.ReferenceCode == "" {
			ob.ReferenceCode = fmt.Sprintf("OBR-%d-%s", allotment.FiscalYear, uuid.Short(ob.ID))
		}
		if err := tx.Create(ob).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := appendTransaction(tx, ob, models.TransactionObligationCreated, req.Amount, actor, req.Purpose, ts); err != nil {
			return err
		}

		obligationID = ob.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("funds reserved",
		"tenant_id", tenantID,
		"allotment_id", allotmentID,
		"obligation_id", obligationID,
		"amount", req.Amount,
		"actor", actor,
	)
	return s.GetObligation(ctx, tenantID, obligationID)
}

func insufficientFunds(requested, available int64) error {
	return apperrors.WithDetails(apperrors.ErrInsufficientFunds,
		fmt.Sprintf("Insufficient funds: requested %s, available %s", money.Format(requested), money.Format(available)),
		map[string]any{"requested": requested, "available": available},
	)
}

// obligationTransition describes one edge of the obligation state machine.
type obligationTransition struct {
	from    models.ObligationStatus
	to      models.ObligationStatus
	logType models.TransactionLogType
	// stamp returns the actor and timestamp columns set by the transition.
	stamp func(actor string, at time.Time) map[string]any
	// release returns the obligation amount to the allotment balance.
	release bool
}

var (
	certifyTransition = obligationTransition{
		from:    models.ObligationStatusPending,
		to:      models.ObligationStatusCertified,
		logType: models.TransactionObligationCertified,
		stamp: func(actor string, at time.Time) map[string]any {
			return map[string]any{"certified_by": actor, "certified_at": at}
		},
	}
	cancelTransition = obligationTransition{
		from:    models.ObligationStatusPending,
		to:      models.ObligationStatusCancelled,
		logType: models.TransactionObligationCancelled,
		stamp: func(actor string, at time.Time) map[string]any {
			return map[string]any{"cancelled_by": actor, "cancelled_at": at}
		},
		release: true,
	}
)

func disburseTransition(method DisbursementMethod) (obligationTransition, error) {
	var logType models.TransactionLogType
	switch method {
	case DisbursementCheck:
		logType = models.TransactionCheckReleased
	case DisbursementCash:
		logType = models.TransactionCashReleased
	default:
		return obligationTransition{}, apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("unknown disbursement method %q", method))
	}
	return obligationTransition{
		from:    models.ObligationStatusCertified,
		to:      models.ObligationStatusDisbursed,
		logType: logType,
		stamp: func(actor string, at time.Time) map[string]any {
			return map[string]any{"disbursed_by": actor, "disbursed_at": at}
		},
	}, nil
}

// Certify marks a pending obligation as certified for funds availability.
func (s *obligationService) Certify(ctx context.Context, tenantID, obligationID, actor, note string) (*models.Obligation, error) {
	return s.transition(ctx, tenantID, obligationID, certifyTransition, actor, note)
}

// Disburse records the release of a certified obligation by check or cash.
func (s *obligationService) Disburse(ctx context.Context, tenantID, obligationID string, method DisbursementMethod, actor, note string) (*models.Obligation, error) {
	t, err := disburseTransition(method)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, obligationID, t, actor, note)
}

// Cancel voids a pending obligation and returns its amount to the allotment.
func (s *obligationService) Cancel(ctx context.Context, tenantID, obligationID, actor, note string) (*models.Obligation, error) {
	return s.transition(ctx, tenantID, obligationID, cancelTransition, actor, note)
}

func (s *obligationService) transition(ctx context.Context, tenantID, obligationID string, t obligationTransition, actor, note string) (*models.Obligation, error) {
	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		var ob models.Obligation
		if err := findOne(forUpdate(tx), &ob, tenantID, obligationID, apperrors.ErrObligationNotFound); err != nil {
			return err
		}
		if ob.Status != t.from {
			return apperrors.WithDetails(apperrors.ErrInvalidStateTransition,
				fmt.Sprintf("Obligation %s is %s and cannot become %s", ob.ReferenceCode, ob.Status, t.to),
				map[string]any{"status": ob.Status, "requested": t.to},
			)
		}

		var allotment models.Allotment
		if err := findOne(forUpdate(tx), &allotment, tenantID, ob.AllotmentID, apperrors.ErrAllotmentNotFound); err != nil {
			return err
		}
		if err := ensureFiscalYearOpen(tx, tenantID, allotment.FiscalYear); err != nil {
			return err
		}

		ts := now()
		updates := t.stamp(actor, ts)
		updates["status"] = t.to
		res := tx.Model(&models.Obligation{}).
			Where("id = ? AND status = ?", ob.ID, t.from).
			Updates(updates)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return database.ErrConflict
		}

		if t.release {
			res := tx.Model(&models.Allotment{}).
				Where("id = ? AND current_balance + ? <= total_amount", allotment.ID, ob.Amount).
				Updates(map[string]any{
					"current_balance": gorm.Expr("current_balance + ?", ob.Amount),
					"last_updated":    ts,
				})
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
			}
			if res.RowsAffected == 0 {
				return apperrors.WithMessage(apperrors.ErrInternalServer,
					fmt.Sprintf("releasing obligation %s would exceed the allotment total", ob.ReferenceCode))
			}
		}

		return appendTransaction(tx, &ob, t.logType, ob.Amount, actor, strings.TrimSpace(note), ts)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("obligation status changed",
		"tenant_id", tenantID,
		"obligation_id", obligationID,
		"status", t.to,
		"event", t.logType,
		"actor", actor,
	)
	return s.GetObligation(ctx, tenantID, obligationID)
}

// GetObligation returns an obligation with its transaction log, oldest first.
func (s *obligationService) GetObligation(ctx context.Context, tenantID, obligationID string) (*models.Obligation, error) {
	db := s.runner.DB().WithContext(ctx)

	var ob models.Obligation
	err := findOne(
		db.Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp, id") }),
		&ob, tenantID, obligationID, apperrors.ErrObligationNotFound,
	)
	if err != nil {
		return nil, err
	}
	return &ob, nil
}

// ListObligations returns a page of obligations recorded against an allotment.
func (s *obligationService) ListObligations(ctx context.Context, tenantID, allotmentID string, page pagination.PageRequest) (*pagination.PageResponse[models.Obligation], error) {
	db := s.runner.DB().WithContext(ctx)

	var allotment models.Allotment
	if err := findOne(db, &allotment, tenantID, allotmentID, apperrors.ErrAllotmentNotFound); err != nil {
		return nil, err
	}

	base := db.Model(&models.Obligation{}).Where("tenant_id = ? AND allotment_id = ?", tenantID, allotmentID)
	result, err := pagination.Query[models.Obligation](base, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
