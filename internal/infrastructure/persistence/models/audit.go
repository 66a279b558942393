package models

import (
	"time"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLogModel is the persistence model for audit.Entry
type AuditLogModel struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	ActorName string     `gorm:"type:varchar(200);not null"`
	Action    string     `gorm:"type:varchar(50);not null"`
	Details   string     `gorm:"type:text;not null"`
	Metadata  datatypes.JSONMap
	Timestamp time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the model to a domain Entry
func (m *AuditLogModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:        m.ID,
		UserID:    m.UserID,
		ActorName: m.ActorName,
		Action:    audit.Action(m.Action),
		Details:   m.Details,
		Metadata:  map[string]any(m.Metadata),
		Timestamp: m.Timestamp,
	}
}

// AuditLogModelFromDomain creates a model from a domain Entry
func AuditLogModelFromDomain(e *audit.Entry) *AuditLogModel {
	m := &AuditLogModel{
		ID:        e.ID,
		UserID:    e.UserID,
		ActorName: e.ActorName,
		Action:    string(e.Action),
		Details:   e.Details,
		Timestamp: e.Timestamp,
	}
	if len(e.Metadata) > 0 {
		m.Metadata = datatypes.JSONMap(e.Metadata)
	}
	return m
}
