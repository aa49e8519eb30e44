package models

// AuditLog records API actions against the ledger for later review.
type AuditLog struct {
	Base
	TenantID     string `gorm:"type:varchar(64);not null;index" json:"tenant_id"`
	Actor        string `gorm:"type:varchar(128);not null;index" json:"actor"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:varchar(64)" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
