package models

import "time"

// FiscalYearStatus represents where a fiscal year is in its lifecycle.
type FiscalYearStatus string

const (
	FiscalYearPreparing FiscalYearStatus = "preparing"
	FiscalYearActive    FiscalYearStatus = "active"
	FiscalYearClosed    FiscalYearStatus = "closed"
)

// FiscalYear is created once per year per tenant. A closed year is immutable.
type FiscalYear struct {
	Base
	TenantID  string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_fiscal_years_tenant_year" json:"tenant_id"`
	Year      int              `gorm:"not null;uniqueIndex:idx_fiscal_years_tenant_year" json:"year"`
	Status    FiscalYearStatus `gorm:"type:varchar(16);not null;default:'preparing'" json:"status"`
	StartDate time.Time        `gorm:"not null" json:"start_date"`
	EndDate   time.Time        `gorm:"not null" json:"end_date"`
	ClosedBy  string           `gorm:"type:varchar(128)" json:"closed_by,omitempty"`
	ClosedAt  *time.Time       `json:"closed_at,omitempty"`
}

// IsClosed reports whether the year no longer accepts ledger activity.
func (f *FiscalYear) IsClosed() bool {
	return f.Status == FiscalYearClosed
}
