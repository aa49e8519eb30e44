package models

import (
	"time"

	"kaban/internal/money"
)

// ProposalType distinguishes the annual budget from supplemental budgets.
type ProposalType string

const (
	ProposalTypeAnnual       ProposalType = "annual"
	ProposalTypeSupplemental ProposalType = "supplemental"
)

// ProposalStatus is the draft-budget lifecycle state.
type ProposalStatus string

const (
	ProposalStatusDraft           ProposalStatus = "draft"
	ProposalStatusPendingApproval ProposalStatus = "pending_approval"
	ProposalStatusApproved        ProposalStatus = "approved"
	ProposalStatusRejected        ProposalStatus = "rejected"
)

// ExpenseClass is the statutory expense classification of an allocation.
type ExpenseClass string

const (
	ExpenseClassPersonalServices ExpenseClass = "PS"
	ExpenseClassMOOE             ExpenseClass = "MOOE"
	ExpenseClassCapitalOutlay    ExpenseClass = "CO"
	ExpenseClassNonOffice        ExpenseClass = "NON_OFFICE"
)

// Label returns the long name of the expense class.
func (c ExpenseClass) Label() string {
	switch c {
	case ExpenseClassPersonalServices:
		return "Personal Services"
	case ExpenseClassMOOE:
		return "Maintenance and Other Operating Expenses"
	case ExpenseClassCapitalOutlay:
		return "Capital Outlay"
	case ExpenseClassNonOffice:
		return "Non-Office"
	}
	return string(c)
}

// Valid reports whether c is a known expense class.
func (c ExpenseClass) Valid() bool {
	switch c {
	case ExpenseClassPersonalServices, ExpenseClassMOOE, ExpenseClassCapitalOutlay, ExpenseClassNonOffice:
		return true
	}
	return false
}

// StatutoryTag explicitly classifies an expense line for the statutory
// allocation rules. An empty tag falls back to matching on the line name.
type StatutoryTag string

const (
	StatutoryTagNone            StatutoryTag = ""
	StatutoryTagDevelopmentFund StatutoryTag = "development_fund"
	StatutoryTagLDRRMF          StatutoryTag = "ldrrmf"
	StatutoryTagSKFund          StatutoryTag = "sk_fund"
)

// Proposal log actions.
const (
	ProposalActionSavedDraft = "Saved Draft"
	ProposalActionSubmitted  = "Submitted for Approval"
	ProposalActionApproved   = "Approved"
	ProposalActionRejected   = "Rejected"
)

// BudgetProposal is the working document a budget officer edits until it is
// approved. TotalIncome and TotalExpense are always recomputed from the lines.
type BudgetProposal struct {
	Base
	TenantID        string         `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	FiscalYear      int            `gorm:"not null;index" json:"fiscal_year"`
	Title           string         `gorm:"type:varchar(200)" json:"title"`
	Type            ProposalType   `gorm:"type:varchar(16);not null" json:"type"`
	Status          ProposalStatus `gorm:"type:varchar(24);not null;index" json:"status"`
	TotalIncome     int64          `gorm:"type:bigint;not null;default:0" json:"total_income"`
	TotalExpense    int64          `gorm:"type:bigint;not null;default:0" json:"total_expense"`
	Version         int64          `gorm:"not null;default:1" json:"version"`
	ApprovedBy      string         `gorm:"type:varchar(128)" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	RejectedBy      string         `gorm:"type:varchar(128)" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time     `json:"rejected_at,omitempty"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Relationships
	IncomeSources      []IncomeSource      `gorm:"foreignKey:ProposalID" json:"income_sources"`
	ExpenseAllocations []ExpenseAllocation `gorm:"foreignKey:ProposalID" json:"expense_allocations"`
	Logs               []ProposalLog       `gorm:"foreignKey:ProposalID" json:"logs"`
}

// RecomputeTotals sets TotalIncome and TotalExpense from the line items. It
// returns money.ErrOverflow, leaving the totals untouched, when a sum does not
// fit in int64.
func (p *BudgetProposal) RecomputeTotals() error {
	var income, expense int64
	var err error
	for i := range p.IncomeSources {
		if income, err = money.Add(income, p.IncomeSources[i].Amount); err != nil {
			return err
		}
	}
	for i := range p.ExpenseAllocations {
		if expense, err = money.Add(expense, p.ExpenseAllocations[i].Amount); err != nil {
			return err
		}
	}
	p.TotalIncome = income
	p.TotalExpense = expense
	return nil
}

// IncomeSource is one income line of a proposal.
type IncomeSource struct {
	Base
	ProposalID string `gorm:"type:uuid;not null;index" json:"proposal_id"`
	Position   int    `gorm:"not null" json:"-"`
	Code       string `gorm:"type:varchar(32)" json:"code"`
	Name       string `gorm:"type:varchar(200);not null" json:"name"`
	Amount     int64  `gorm:"type:bigint;not null" json:"amount"`
}

// ExpenseAllocation is one expense line of a proposal. FundingCode optionally
// names the income line code whose appropriation funds this allocation.
type ExpenseAllocation struct {
	Base
	ProposalID   string       `gorm:"type:uuid;not null;index" json:"proposal_id"`
	Position     int          `gorm:"not null" json:"-"`
	Class        ExpenseClass `gorm:"type:varchar(16);not null" json:"class"`
	Name         string       `gorm:"type:varchar(200);not null" json:"name"`
	AccountCode  string       `gorm:"type:varchar(32)" json:"account_code"`
	Amount       int64        `gorm:"type:bigint;not null" json:"amount"`
	StatutoryTag StatutoryTag `gorm:"type:varchar(24)" json:"statutory_tag,omitempty"`
	FundingCode  string       `gorm:"type:varchar(32)" json:"funding_code,omitempty"`
}

// ProposalLog is an append-only action entry on a proposal.
type ProposalLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID string    `gorm:"type:uuid;not null;index" json:"proposal_id"`
	Actor      string    `gorm:"type:varchar(128);not null" json:"actor"`
	Action     string    `gorm:"type:varchar(64);not null" json:"action"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
}
