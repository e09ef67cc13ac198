package entities

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditEventCreate   AuditEventType = "create"
	AuditEventUpdate   AuditEventType = "update"
	AuditEventDelete   AuditEventType = "delete"
	AuditEventPayment  AuditEventType = "payment"
	AuditEventGenerate AuditEventType = "generate"
	AuditEventReorder  AuditEventType = "reorder"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EventType     AuditEventType `gorm:"index;size:20" json:"event_type"`
	Action        string         `gorm:"size:100" json:"action"`      // e.g., "student_create", "fee_payment"
	Description   string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType    string         `gorm:"index:idx_audit_entity;size:50" json:"entity_type"`
	EntityID      *uint          `gorm:"index:idx_audit_entity" json:"entity_id,omitempty"`
	CorrelationID string         `gorm:"index;size:36" json:"correlation_id,omitempty"`
	Metadata      datatypes.JSON `json:"metadata,omitempty"`
	Status        AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg      string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
