package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"kaban/internal/compliance"
	"kaban/internal/database"
	apperrors "kaban/internal/errors"
	"kaban/internal/logger"
	"kaban/internal/models"
	"kaban/internal/pagination"
)

// ledgerService turns approved proposals into appropriations and allotments.
type ledgerService struct {
	runner *database.TxRunner
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(runner *database.TxRunner) LedgerServicer {
	return &ledgerService{runner: runner}
}

// ApproveProposal approves a proposal and materializes its ledger in one
// transaction: one appropriation per income line and one allotment per
// expense line, each allotment starting with a full balance. Either every
// record is written or none is. A second approval of the same proposal
// fails with ErrAlreadyApproved and creates nothing.
func (s *ledgerService) ApproveProposal(ctx context.Context, tenantID, proposalID, actor string) (*ApprovalResult, error) {
	var result *ApprovalResult
	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		result = nil

		p, err := lockProposal(tx, tenantID, proposalID)
		if err != nil {
			return err
		}
		if p.Status == models.ProposalStatusApproved {
			return apperrors.ErrAlreadyApproved
		}
		if err := ensureFiscalYearOpen(tx, tenantID, p.FiscalYear); err != nil {
			return err
		}

		if err := p.RecomputeTotals(); err != nil {
			return totalsOutOfRange(err)
		}
		check := compliance.Validate(p)
		if !check.IsValid {
			return apperrors.WithDetails(apperrors.ErrValidation, check.Summary(), map[string]any{
				"errors":   check.Errors,
				"warnings": check.Warnings,
			})
		}

		ts := now()
		res := tx.Model(&models.BudgetProposal{}).
			Where("id = ? AND tenant_id = ? AND status <> ?", p.ID, tenantID, models.ProposalStatusApproved).
			Updates(map[string]any{
				"status":        models.ProposalStatusApproved,
				"approved_by":   actor,
				"approved_at":   ts,
				"total_income":  p.TotalIncome,
				"total_expense": p.TotalExpense,
				"version":       p.Version + 1,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrAlreadyApproved
		}
		if err := appendProposalLog(tx, p.ID, actor, models.ProposalActionApproved, ts); err != nil {
			return err
		}

		appropriations, err := createAppropriations(tx, p)
		if err != nil {
			return err
		}
		allotments, err := createAllotments(tx, p, appropriations, ts)
		if err != nil {
			return err
		}

		p.Status = models.ProposalStatusApproved
		p.ApprovedBy = actor
		p.ApprovedAt = &ts
		p.Version++
		result = &ApprovalResult{
			Proposal:       p,
			Appropriations: appropriations,
			Allotments:     allotments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("proposal approved, ledger activated",
		"tenant_id", tenantID,
		"proposal_id", proposalID,
		"fiscal_year", result.Proposal.FiscalYear,
		"appropriations", len(result.Appropriations),
		"allotments", len(result.Allotments),
		"actor", actor,
	)
	return result, nil
}

func createAppropriations(tx *gorm.DB, p *models.BudgetProposal) ([]models.Appropriation, error) {
	out := make([]models.Appropriation, 0, len(p.IncomeSources))
	for _, src := range p.IncomeSources {
		a := models.Appropriation{
			TenantID:    p.TenantID,
			FiscalYear:  p.FiscalYear,
			ProposalID:  p.ID,
			SourceCode:  src.Code,
			SourceName:  src.Name,
			TotalAmount: src.Amount,
			Status:      models.AppropriationStatusApproved,
		}
		if err := tx.Create(&a).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// createAllotments links each allotment to the appropriation whose source
// code matches the line's funding code, falling back to the first
// appropriation of the proposal.
func createAllotments(tx *gorm.DB, p *models.BudgetProposal, appropriations []models.Appropriation, ts time.Time) ([]models.Allotment, error) {
	byCode := make(map[string]string, len(appropriations))
	for _, a := range appropriations {
		if a.SourceCode != "" {
			if _, seen := byCode[a.SourceCode]; !seen {
				byCode[a.SourceCode] = a.ID
			}
		}
	}

	out := make([]models.Allotment, 0, len(p.ExpenseAllocations))
	for _, line := range p.ExpenseAllocations {
		var appropriationID *string
		if id, ok := byCode[line.FundingCode]; ok && line.FundingCode != "" {
			appropriationID = &id
		} else if len(appropriations) > 0 {
			first := appropriations[0].ID
			appropriationID = &first
		}

		a := models.Allotment{
			TenantID:        p.TenantID,
			AppropriationID: appropriationID,
			ProposalID:      p.ID,
			FiscalYear:      p.FiscalYear,
			ExpenseClass:    line.Class,
			Description:     line.Name,
			AccountCode:     line.AccountCode,
			TotalAmount:     line.Amount,
			CurrentBalance:  line.Amount,
			LastUpdated:     ts,
		}
		if err := tx.Create(&a).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// ListAppropriations returns a page of appropriations, optionally for one year.
func (s *ledgerService) ListAppropriations(ctx context.Context, tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Appropriation], error) {
	base := s.runner.DB().WithContext(ctx).Model(&models.Appropriation{}).Where("tenant_id = ?", tenantID)
	if fiscalYear != nil {
		base = base.Where("fiscal_year = ?", *fiscalYear)
	}

	result, err := pagination.Query[models.Appropriation](base, page, "fiscal_year DESC, created_at, id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// ListAllotments returns a page of allotments, optionally for one year.
func (s *ledgerService) ListAllotments(ctx context.Context, tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Allotment], error) {
	base := s.runner.DB().WithContext(ctx).Model(&models.Allotment{}).Where("tenant_id = ?", tenantID)
	if fiscalYear != nil {
		base = base.Where("fiscal_year = ?", *fiscalYear)
	}

	result, err := pagination.Query[models.Allotment](base, page, "fiscal_year DESC, created_at, id")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetAllotment returns a single allotment with its current balance.
func (s *ledgerService) GetAllotment(ctx context.Context, tenantID, allotmentID string) (*models.Allotment, error) {
	var a models.Allotment
	if err := findOne(s.runner.DB().WithContext(ctx), &a, tenantID, allotmentID, apperrors.ErrAllotmentNotFound); err != nil {
		return nil, err
	}
	return &a, nil
}

// VerifyAllotment recomputes the reserved amount of an allotment from its
// creation log entries and compares it with the running balance.
func (s *ledgerService) VerifyAllotment(ctx context.Context, tenantID, allotmentID string) (*AllotmentCheck, error) {
	db := s.runner.DB().WithContext(ctx)

	var a models.Allotment
	if err := findOne(db, &a, tenantID, allotmentID, apperrors.ErrAllotmentNotFound); err != nil {
		return nil, err
	}

	var reserved int64
	err := db.Model(&models.TransactionLog{}).
		Select("COALESCE(SUM(transaction_logs.amount), 0)").
		Joins("JOIN obligations ON obligations.id = transaction_logs.obligation_id").
		Where("transaction_logs.allotment_id = ? AND transaction_logs.type = ? AND obligations.status <> ?",
			a.ID, models.TransactionObligationCreated, models.ObligationStatusCancelled).
		Scan(&reserved).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	check := &AllotmentCheck{
		AllotmentID:    a.ID,
		TotalAmount:    a.TotalAmount,
		CurrentBalance: a.CurrentBalance,
		Reserved:       reserved,
		WithinBounds:   a.CurrentBalance >= 0 && a.CurrentBalance <= a.TotalAmount,
	}
	check.Consistent = check.WithinBounds && reserved == a.Obligated()
	if !check.Consistent {
		logger.Get().Errorw("allotment balance disagrees with its obligations",
			"tenant_id", tenantID,
			"allotment_id", a.ID,
			"total_amount", a.TotalAmount,
			"current_balance", a.CurrentBalance,
			"reserved", reserved,
		)
	}
	return check, nil
}
