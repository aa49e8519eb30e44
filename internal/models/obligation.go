package models

import "time"

// ObligationStatus represents the lifecycle of a fund reservation.
type ObligationStatus string

const (
	ObligationStatusPending   ObligationStatus = "pending"
	ObligationStatusCertified ObligationStatus = "certified"
	ObligationStatusDisbursed ObligationStatus = "disbursed"
	ObligationStatusCancelled ObligationStatus = "cancelled"
)

// Obligation reserves an amount of an allotment for a payee and purpose.
// The amount stays reserved until the obligation is cancelled.
type Obligation struct {
	Base
	TenantID      string           `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	AllotmentID   string           `gorm:"type:uuid;not null;index" json:"allotment_id"`
	ReferenceCode string           `gorm:"type:varchar(64);not null;index" json:"reference_code"`
	Payee         string           `gorm:"type:varchar(200);not null" json:"payee"`
	Purpose       string           `gorm:"type:text" json:"purpose"`
	Amount        int64            `gorm:"type:bigint;not null" json:"amount"`
	Status        ObligationStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedBy     string           `gorm:"type:varchar(128);not null" json:"created_by"`
	CertifiedBy   string           `gorm:"type:varchar(128)" json:"certified_by,omitempty"`
	CertifiedAt   *time.Time       `json:"certified_at,omitempty"`
	DisbursedBy   string           `gorm:"type:varchar(128)" json:"disbursed_by,omitempty"`
	DisbursedAt   *time.Time       `json:"disbursed_at,omitempty"`
	CancelledBy   string           `gorm:"type:varchar(128)" json:"cancelled_by,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`

	// Relationships
	Transactions []TransactionLog `gorm:"foreignKey:ObligationID" json:"transactions,omitempty"`
}

// TransactionLogType names the fund movement event recorded in a TransactionLog.
type TransactionLogType string

const (
	TransactionObligationCreated   TransactionLogType = "ObligationCreated"
	TransactionObligationCertified TransactionLogType = "ObligationCertified"
	TransactionCheckReleased       TransactionLogType = "CheckReleased"
	TransactionCashReleased        TransactionLogType = "CashReleased"
	TransactionObligationCancelled TransactionLogType = "ObligationCancelled"
)

// TransactionLog is an immutable audit entry, child of an Obligation.
// Rows are only ever inserted.
type TransactionLog struct {
	ID           string             `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID     string             `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	ObligationID string             `gorm:"type:uuid;not null;index" json:"obligation_id"`
	AllotmentID  string             `gorm:"type:uuid;not null;index" json:"allotment_id"`
	Type         TransactionLogType `gorm:"type:varchar(32);not null" json:"type"`
	Amount       int64              `gorm:"type:bigint;not null" json:"amount"`
	Actor        string             `gorm:"type:varchar(128);not null" json:"actor"`
	Timestamp    time.Time          `gorm:"not null" json:"timestamp"`
	Note         string             `gorm:"type:text" json:"note"`
}
