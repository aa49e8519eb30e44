package models

import "time"

// Allotment is a spendable bucket sliced from an appropriation. CurrentBalance
// is a denormalized running balance; 0 <= CurrentBalance <= TotalAmount.
type Allotment struct {
	Base
	TenantID        string       `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	AppropriationID *string      `gorm:"type:uuid;index" json:"appropriation_id,omitempty"`
	ProposalID      string       `gorm:"type:uuid;not null;index" json:"proposal_id"`
	FiscalYear      int          `gorm:"not null;index" json:"fiscal_year"`
	ExpenseClass    ExpenseClass `gorm:"type:varchar(16);not null" json:"expense_class"`
	Description     string       `gorm:"type:varchar(200);not null" json:"description"`
	AccountCode     string       `gorm:"type:varchar(32)" json:"account_code"`
	TotalAmount     int64        `gorm:"type:bigint;not null" json:"total_amount"`
	CurrentBalance  int64        `gorm:"type:bigint;not null;check:chk_allotments_balance,current_balance >= 0 AND current_balance <= total_amount" json:"current_balance"`
	LastUpdated     time.Time    `gorm:"not null" json:"last_updated"`
}

// Obligated returns the amount currently reserved against the allotment.
func (a *Allotment) Obligated() int64 {
	return a.TotalAmount - a.CurrentBalance
}
