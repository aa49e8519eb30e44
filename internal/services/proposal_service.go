package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"kaban/internal/compliance"
	"kaban/internal/database"
	apperrors "kaban/internal/errors"
	"kaban/internal/logger"
	"kaban/internal/models"
	"kaban/internal/money"
	"kaban/internal/pagination"
)

// proposalService handles draft budget persistence and review.
type proposalService struct {
	runner *database.TxRunner
}

// NewProposalService creates a new ProposalServicer.
func NewProposalService(runner *database.TxRunner) ProposalServicer {
	return &proposalService{runner: runner}
}

// SaveProposal creates or updates a proposal, recomputing its totals from the
// lines and appending one log entry. It does not validate compliance.
func (s *proposalService) SaveProposal(ctx context.Context, tenantID, actor string, input SaveProposalInput) (*models.BudgetProposal, error) {
	if err := validateSaveInput(input); err != nil {
		return nil, err
	}
	target := input.Status
	if target == "" {
		target = models.ProposalStatusDraft
	}

	var proposalID string
	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		var err error
		if input.ID == "" {
			proposalID, err = s.create(tx, tenantID, actor, target, input)
		} else {
			proposalID, err = s.update(tx, tenantID, actor, target, input)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("proposal saved",
		"tenant_id", tenantID,
		"proposal_id", proposalID,
		"status", target,
		"actor", actor,
	)
	return s.GetProposal(ctx, tenantID, proposalID)
}

func (s *proposalService) create(tx *gorm.DB, tenantID, actor string, target models.ProposalStatus, input SaveProposalInput) (string, error) {
	p := &models.BudgetProposal{
		TenantID:           tenantID,
		FiscalYear:         input.FiscalYear,
		Type:               input.Type,
		Status:             target,
		Version:            1,
		IncomeSources:      buildIncome(input.IncomeSources),
		ExpenseAllocations: buildExpenses(input.ExpenseAllocations),
	}
	if input.Title != nil {
		p.Title = strings.TrimSpace(*input.Title)
	}
	if p.Type == "" {
		p.Type = models.ProposalTypeAnnual
	}
	if err := p.RecomputeTotals(); err != nil {
		return "", totalsOutOfRange(err)
	}

	if err := tx.Omit("IncomeSources", "ExpenseAllocations", "Logs").Create(p).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := insertLines(tx, p.ID, p.IncomeSources, p.ExpenseAllocations); err != nil {
		return "", err
	}
	if err := appendProposalLog(tx, p.ID, actor, saveAction(target), now()); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *proposalService) update(tx *gorm.DB, tenantID, actor string, target models.ProposalStatus, input SaveProposalInput) (string, error) {
	current, err := lockProposal(tx, tenantID, input.ID)
	if err != nil {
		return "", err
	}
	if current.Status == models.ProposalStatusApproved {
		return "", apperrors.ErrProposalNotEditable
	}
	if input.Version != current.Version {
		return "", staleProposal(input.Version, current.Version)
	}

	income := current.IncomeSources
	if input.IncomeSources != nil {
		income = buildIncome(input.IncomeSources)
	}
	expenses := current.ExpenseAllocations
	if input.ExpenseAllocations != nil {
		expenses = buildExpenses(input.ExpenseAllocations)
	}
	next := models.BudgetProposal{IncomeSources: income, ExpenseAllocations: expenses}
	if err := next.RecomputeTotals(); err != nil {
		return "", totalsOutOfRange(err)
	}

	updates := map[string]any{
		"status":        target,
		"total_income":  next.TotalIncome,
		"total_expense": next.TotalExpense,
		"version":       current.Version + 1,
	}
	if input.FiscalYear != 0 {
		updates["fiscal_year"] = input.FiscalYear
	}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Type != "" {
		updates["type"] = input.Type
	}
	if current.Status == models.ProposalStatusRejected {
		updates["rejected_by"] = ""
		updates["rejected_at"] = nil
		updates["rejection_reason"] = ""
	}

	res := tx.Model(&models.BudgetProposal{}).
		Where("id = ? AND tenant_id = ? AND version = ? AND status <> ?", current.ID, tenantID, current.Version, models.ProposalStatusApproved).
		Updates(updates)
	if res.Error != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", staleProposal(input.Version, current.Version)
	}

	if input.IncomeSources != nil {
		if err := tx.Where("proposal_id = ?", current.ID).Delete(&models.IncomeSource{}).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := insertLines(tx, current.ID, income, nil); err != nil {
			return "", err
		}
	}
	if input.ExpenseAllocations != nil {
		if err := tx.Where("proposal_id = ?", current.ID).Delete(&models.ExpenseAllocation{}).Error; err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := insertLines(tx, current.ID, nil, expenses); err != nil {
			return "", err
		}
	}

	if err := appendProposalLog(tx, current.ID, actor, saveAction(target), now()); err != nil {
		return "", err
	}
	return current.ID, nil
}

// GetProposal returns a proposal with its lines and action log.
func (s *proposalService) GetProposal(ctx context.Context, tenantID, proposalID string) (*models.BudgetProposal, error) {
	db := s.runner.DB().WithContext(ctx)

	var p models.BudgetProposal
	if err := findOne(db, &p, tenantID, proposalID, apperrors.ErrProposalNotFound); err != nil {
		return nil, err
	}
	if err := loadProposalLines(db, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProposals returns a page of proposal headers, newest first. Lines are
// not loaded.
func (s *proposalService) ListProposals(ctx context.Context, tenantID string, page pagination.PageRequest, filter ProposalFilter) (*pagination.PageResponse[models.BudgetProposal], error) {
	base := s.runner.DB().WithContext(ctx).Model(&models.BudgetProposal{}).Where("tenant_id = ?", tenantID)
	if filter.FiscalYear != nil {
		base = base.Where("fiscal_year = ?", *filter.FiscalYear)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	result, err := pagination.Query[models.BudgetProposal](base, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// ValidateProposal runs the compliance rules against the stored proposal.
func (s *proposalService) ValidateProposal(ctx context.Context, tenantID, proposalID string) (*compliance.Result, error) {
	p, err := s.GetProposal(ctx, tenantID, proposalID)
	if err != nil {
		return nil, err
	}
	result := compliance.Validate(p)
	return &result, nil
}

// RejectProposal sends a proposal back to its author with a reason.
func (s *proposalService) RejectProposal(ctx context.Context, tenantID, proposalID, actor, reason string) (*models.BudgetProposal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "a rejection reason is required")
	}

	err := s.runner.Run(ctx, func(tx *gorm.DB) error {
		current, err := lockProposal(tx, tenantID, proposalID)
		if err != nil {
			return err
		}
		switch current.Status {
		case models.ProposalStatusApproved:
			return apperrors.ErrAlreadyApproved
		case models.ProposalStatusRejected:
			return apperrors.WithMessage(apperrors.ErrValidation, "proposal is already rejected")
		}

		ts := now()
		res := tx.Model(&models.BudgetProposal{}).
			Where("id = ? AND version = ?", current.ID, current.Version).
			Updates(map[string]any{
				"status":           models.ProposalStatusRejected,
				"rejected_by":      actor,
				"rejected_at":      ts,
				"rejection_reason": reason,
				"version":          current.Version + 1,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return database.ErrConflict
		}
		return appendProposalLog(tx, current.ID, actor, models.ProposalActionRejected, ts)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("proposal rejected",
		"tenant_id", tenantID,
		"proposal_id", proposalID,
		"actor", actor,
	)
	return s.GetProposal(ctx, tenantID, proposalID)
}

func saveAction(status models.ProposalStatus) string {
	if status == models.ProposalStatusPendingApproval {
		return models.ProposalActionSubmitted
	}
	return models.ProposalActionSavedDraft
}

func staleProposal(given, stored int64) error {
	return apperrors.WithDetails(apperrors.ErrStaleProposal,
		fmt.Sprintf("Proposal is at version %d, the update was based on version %d", stored, given),
		map[string]any{"expected_version": stored, "given_version": given},
	)
}

func totalsOutOfRange(err error) error {
	return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrValidation, "proposal totals are out of range"), err)
}

func validateSaveInput(input SaveProposalInput) error {
	if input.ID == "" && input.FiscalYear <= 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "fiscal_year is required for a new proposal")
	}
	if input.ID != "" && input.Version <= 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "version is required when updating a proposal")
	}
	if input.FiscalYear < 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "fiscal_year must be positive")
	}
	switch input.Type {
	case "", models.ProposalTypeAnnual, models.ProposalTypeSupplemental:
	default:
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("unknown proposal type %q", input.Type))
	}
	switch input.Status {
	case "", models.ProposalStatusDraft, models.ProposalStatusPendingApproval:
	default:
		return apperrors.WithMessage(apperrors.ErrValidation, "a proposal can only be saved as draft or pending_approval")
	}

	var income, expense int64
	var err error
	for i, line := range input.IncomeSources {
		if strings.TrimSpace(line.Name) == "" {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("income_sources[%d]: name is required", i))
		}
		if err = checkLineAmount("income_sources", i, line.Amount); err != nil {
			return err
		}
		if income, err = money.Add(income, line.Amount); err != nil {
			return totalsOutOfRange(err)
		}
	}
	for i, line := range input.ExpenseAllocations {
		if strings.TrimSpace(line.Name) == "" {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("expense_allocations[%d]: name is required", i))
		}
		if err = checkLineAmount("expense_allocations", i, line.Amount); err != nil {
			return err
		}
		if expense, err = money.Add(expense, line.Amount); err != nil {
			return totalsOutOfRange(err)
		}
		if !line.Class.Valid() {
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("expense_allocations[%d]: unknown expense class %q", i, line.Class))
		}
		switch line.StatutoryTag {
		case models.StatutoryTagNone, models.StatutoryTagDevelopmentFund, models.StatutoryTagLDRRMF, models.StatutoryTagSKFund:
		default:
			return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("expense_allocations[%d]: unknown statutory tag %q", i, line.StatutoryTag))
		}
	}
	return nil
}

func checkLineAmount(field string, i int, amount int64) error {
	if amount < 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s[%d]: amount must not be negative", field, i))
	}
	if amount > money.MaxAmount {
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s[%d]: amount must not exceed %s", field, i, money.Format(money.MaxAmount)))
	}
	return nil
}

func buildIncome(in []IncomeSourceInput) []models.IncomeSource {
	out := make([]models.IncomeSource, 0, len(in))
	for _, line := range in {
		out = append(out, models.IncomeSource{
			Code:   strings.TrimSpace(line.Code),
			Name:   strings.TrimSpace(line.Name),
			Amount: line.Amount,
		})
	}
	return out
}

func buildExpenses(in []ExpenseAllocationInput) []models.ExpenseAllocation {
	out := make([]models.ExpenseAllocation, 0, len(in))
	for _, line := range in {
		out = append(out, models.ExpenseAllocation{
			Class:        line.Class,
			Name:         strings.TrimSpace(line.Name),
			AccountCode:  strings.TrimSpace(line.AccountCode),
			Amount:       line.Amount,
			StatutoryTag: line.StatutoryTag,
			FundingCode:  strings.TrimSpace(line.FundingCode),
		})
	}
	return out
}

// insertLines stores fresh copies of the given lines under proposalID,
// keeping their order in Position.
func insertLines(tx *gorm.DB, proposalID string, income []models.IncomeSource, expenses []models.ExpenseAllocation) error {
	for i := range income {
		line := income[i]
		line.ID = ""
		line.ProposalID = proposalID
		line.Position = i
		if err := tx.Create(&line).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	for i := range expenses {
		line := expenses[i]
		line.ID = ""
		line.ProposalID = proposalID
		line.Position = i
		if err := tx.Create(&line).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}
