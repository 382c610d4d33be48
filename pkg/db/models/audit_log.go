package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records a structured trail entry. Rows are append-only and written
// best-effort after the owning business transaction commits.
type AuditLog struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID     uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null;index"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	Action       string          `gorm:"column:action;not null"`
	ResourceType string          `gorm:"column:resource_type;not null"`
	ResourceID   uuid.UUID       `gorm:"column:resource_id;type:uuid;not null"`
	Changes      json.RawMessage `gorm:"column:changes;type:jsonb"`
	IPAddress    *string         `gorm:"column:ip_address"`
	UserAgent    *string         `gorm:"column:user_agent"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
