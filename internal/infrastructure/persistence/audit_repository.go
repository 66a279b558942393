package persistence

import (
	"context"
	"time"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM. It only inserts and reads.
type GormAuditRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db, now: time.Now}
}

// Append stores a new entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}
	model := models.AuditLogModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	entry.ID = model.ID
	return nil
}

// Recent returns up to limit entries, newest first
func (r *GormAuditRepository) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		return []audit.Entry{}, nil
	}
	var rows []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]audit.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}
	return entries, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
