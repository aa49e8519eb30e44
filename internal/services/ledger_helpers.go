package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "kaban/internal/errors"
	"kaban/internal/models"
	"kaban/internal/uuid"
)

// now returns the timestamp stamped on ledger records.
func now() time.Time {
	return time.Now().UTC()
}

// forUpdate locks the selected rows until the transaction ends. SQLite has
// no row locks and serializes writers instead; its dialect drops the clause.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// findOne loads a single tenant-scoped row, mapping a miss to notFound.
func findOne(db *gorm.DB, dest any, tenantID, id string, notFound *apperrors.AppError) error {
	if err := db.Where("id = ? AND tenant_id = ?", id, tenantID).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// loadProposalLines fills the line items and action log of p.
func loadProposalLines(db *gorm.DB, p *models.BudgetProposal) error {
	if err := db.Where("proposal_id = ?", p.ID).Order("position").Find(&p.IncomeSources).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := db.Where("proposal_id = ?", p.ID).Order("position").Find(&p.ExpenseAllocations).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := db.Where("proposal_id = ?", p.ID).Order("timestamp, id").Find(&p.Logs).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// lockProposal loads a proposal with its lines, holding a row lock on it.
func lockProposal(tx *gorm.DB, tenantID, proposalID string) (*models.BudgetProposal, error) {
	var p models.BudgetProposal
	if err := findOne(forUpdate(tx), &p, tenantID, proposalID, apperrors.ErrProposalNotFound); err != nil {
		return nil, err
	}
	if err := loadProposalLines(tx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// appendProposalLog adds one entry to a proposal's append-only action log.
func appendProposalLog(tx *gorm.DB, proposalID, actor, action string, at time.Time) error {
	entry := &models.ProposalLog{
		ID:         uuid.New(),
		ProposalID: proposalID,
		Actor:      actor,
		Action:     action,
		Timestamp:  at,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// appendTransaction adds one immutable TransactionLog entry under an obligation.
func appendTransaction(tx *gorm.DB, ob *models.Obligation, logType models.TransactionLogType, amount int64, actor, note string, at time.Time) error {
	entry := &models.TransactionLog{
		ID:           uuid.New(),
		TenantID:     ob.TenantID,
		ObligationID: ob.ID,
		AllotmentID:  ob.AllotmentID,
		Type:         logType,
		Amount:       amount,
		Actor:        actor,
		Timestamp:    at,
		Note:         note,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ensureFiscalYearOpen rejects ledger activity in a closed fiscal year. Years
// that were never registered are treated as open.
func ensureFiscalYearOpen(tx *gorm.DB, tenantID string, year int) error {
	var fy models.FiscalYear
	err := tx.Where("tenant_id = ? AND year = ?", tenantID, year).First(&fy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if fy.IsClosed() {
		return apperrors.WithMessage(apperrors.ErrFiscalYearClosed, fmt.Sprintf("Fiscal year %d is closed", year))
	}
	return nil
}
