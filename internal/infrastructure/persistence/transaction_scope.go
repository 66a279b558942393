package persistence

import (
	"context"

	appfiling "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"gorm.io/gorm"
)

// GormTransactionScope implements appfiling.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction, rolling back when it returns an error
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfiling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) RegionRepo() filing.RegionRepository {
	return NewGormRegionRepository(r.tx)
}

func (r *gormTransactionalRepositories) EnvelopeRepo() filing.EnvelopeRepository {
	return NewGormEnvelopeRepository(r.tx)
}

func (r *gormTransactionalRepositories) DocumentTypeRepo() filing.DocumentTypeRepository {
	return NewGormDocumentTypeRepository(r.tx)
}

func (r *gormTransactionalRepositories) AuditRepo() audit.Repository {
	return NewGormAuditRepository(r.tx)
}

var (
	_ appfiling.TransactionScope          = (*GormTransactionScope)(nil)
	_ appfiling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
