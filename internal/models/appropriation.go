package models

// AppropriationStatus represents the legal state of an appropriation.
type AppropriationStatus string

const (
	AppropriationStatusProposed AppropriationStatus = "proposed"
	AppropriationStatusApproved AppropriationStatus = "approved"
)

// Appropriation is a legally authorized source of income for a fiscal year.
// One row is created per income line of an approved proposal; rows for the
// same source are never merged.
type Appropriation struct {
	Base
	TenantID    string              `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	FiscalYear  int                 `gorm:"not null;index" json:"fiscal_year"`
	ProposalID  string              `gorm:"type:uuid;not null;index" json:"proposal_id"`
	SourceCode  string              `gorm:"type:varchar(32)" json:"source_code"`
	SourceName  string              `gorm:"type:varchar(200);not null" json:"source_name"`
	TotalAmount int64               `gorm:"type:bigint;not null" json:"total_amount"`
	Status      AppropriationStatus `gorm:"type:varchar(16);not null" json:"status"`
}
