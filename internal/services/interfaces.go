package services

import (
	"context"
	"io"
	"time"

	"kaban/internal/compliance"
	"kaban/internal/models"
	"kaban/internal/pagination"
)

// IncomeSourceInput is one income line supplied by the budget officer.
type IncomeSourceInput struct {
	Code   string
	Name   string
	Amount int64
}

// ExpenseAllocationInput is one expense line supplied by the budget officer.
type ExpenseAllocationInput struct {
	Class        models.ExpenseClass
	Name         string
	AccountCode  string
	Amount       int64
	StatutoryTag models.StatutoryTag
	FundingCode  string
}

// SaveProposalInput carries a proposal save. An empty ID creates a new
// proposal; otherwise Version must match the stored version. Zero-valued
// fields and nil line slices leave the stored values untouched; a non-nil
// slice, even an empty one, replaces the stored lines. There are no total
// fields: totals are always recomputed from the lines.
type SaveProposalInput struct {
	ID                 string
	Version            int64
	FiscalYear         int
	Title              *string
	Type               models.ProposalType
	Status             models.ProposalStatus
	IncomeSources      []IncomeSourceInput
	ExpenseAllocations []ExpenseAllocationInput
}

// ProposalFilter holds optional filter parameters for listing proposals.
type ProposalFilter struct {
	FiscalYear *int
	Status     *models.ProposalStatus
}

// ProposalServicer owns the draft-budget lifecycle.
type ProposalServicer interface {
	SaveProposal(ctx context.Context, tenantID, actor string, input SaveProposalInput) (*models.BudgetProposal, error)
	GetProposal(ctx context.Context, tenantID, proposalID string) (*models.BudgetProposal, error)
	ListProposals(ctx context.Context, tenantID string, page pagination.PageRequest, filter ProposalFilter) (*pagination.PageResponse[models.BudgetProposal], error)
	ValidateProposal(ctx context.Context, tenantID, proposalID string) (*compliance.Result, error)
	RejectProposal(ctx context.Context, tenantID, proposalID, actor, reason string) (*models.BudgetProposal, error)
}

// ApprovalResult lists the legal records materialized by an approval.
type ApprovalResult struct {
	Proposal       *models.BudgetProposal `json:"proposal"`
	Appropriations []models.Appropriation  `json:"appropriations"`
	Allotments     []models.Allotment      `json:"allotments"`
}

// AllotmentCheck reports whether an allotment's running balance agrees with
// the obligations recorded against it.
type AllotmentCheck struct {
	AllotmentID    string `json:"allotment_id"`
	TotalAmount    int64  `json:"total_amount"`
	CurrentBalance int64  `json:"current_balance"`
	Reserved       int64  `json:"reserved"`
	WithinBounds   bool   `json:"within_bounds"`
	Consistent     bool   `json:"consistent"`
}

// LedgerServicer activates approved budgets and reads the resulting ledger.
type LedgerServicer interface {
	ApproveProposal(ctx context.Context, tenantID, proposalID, actor string) (*ApprovalResult, error)
	ListAppropriations(ctx context.Context, tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Appropriation], error)
	ListAllotments(ctx context.Context, tenantID string, fiscalYear *int, page pagination.PageRequest) (*pagination.PageResponse[models.Allotment], error)
	GetAllotment(ctx context.Context, tenantID, allotmentID string) (*models.Allotment, error)
	VerifyAllotment(ctx context.Context, tenantID, allotmentID string) (*AllotmentCheck, error)
}

// ReserveRequest describes a fund reservation against an allotment.
type ReserveRequest struct {
	Payee         string
	Purpose       string
	Amount        int64
	ReferenceCode string
}

// DisbursementMethod is how an obligation's funds were released.
type DisbursementMethod string

const (
	DisbursementCheck DisbursementMethod = "check"
	DisbursementCash  DisbursementMethod = "cash"
)

// ObligationServicer reserves funds and moves obligations through their lifecycle.
type ObligationServicer interface {
	Reserve(ctx context.Context, tenantID, allotmentID string, req ReserveRequest, actor string) (*models.Obligation, error)
	Certify(ctx context.Context, tenantID, obligationID, actor, note string) (*models.Obligation, error)
	Disburse(ctx context.Context, tenantID, obligationID string, method DisbursementMethod, actor, note string) (*models.Obligation, error)
	Cancel(ctx context.Context, tenantID, obligationID, actor, note string) (*models.Obligation, error)
	GetObligation(ctx context.Context, tenantID, obligationID string) (*models.Obligation, error)
	ListObligations(ctx context.Context, tenantID, allotmentID string, page pagination.PageRequest) (*pagination.PageResponse[models.Obligation], error)
}

// FiscalYearServicer manages the fiscal year calendar.
type FiscalYearServicer interface {
	CreateFiscalYear(ctx context.Context, tenantID string, year int, startDate, endDate time.Time) (*models.FiscalYear, error)
	GetFiscalYear(ctx context.Context, tenantID string, year int) (*models.FiscalYear, error)
	ListFiscalYears(ctx context.Context, tenantID string) ([]models.FiscalYear, error)
	ActivateFiscalYear(ctx context.Context, tenantID string, year int) (*models.FiscalYear, error)
	CloseFiscalYear(ctx context.Context, tenantID string, year int, actor string) (*models.FiscalYear, error)
}

// ReportServicer renders ledger registries.
type ReportServicer interface {
	ExportRegistry(ctx context.Context, tenantID string, fiscalYear int, w io.Writer) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(tenantID, actor, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
