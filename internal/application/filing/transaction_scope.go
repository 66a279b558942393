package filing

import (
	"context"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
)

// TransactionScope provides transactional access to the filing repositories.
// Every repository handed to fn shares one database transaction, which commits when
// fn returns nil and rolls back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all filing repositories within a transaction.
// The audit repository is included so an audit entry commits or rolls back with the write it describes.
type TransactionalRepositories interface {
	// RegionRepo returns the region repository scoped to the current transaction
	RegionRepo() filing.RegionRepository
	// EnvelopeRepo returns the envelope repository scoped to the current transaction
	EnvelopeRepo() filing.EnvelopeRepository
	// DocumentTypeRepo returns the document type repository scoped to the current transaction
	DocumentTypeRepo() filing.DocumentTypeRepository
	// AuditRepo returns the audit repository scoped to the current transaction
	AuditRepo() audit.Repository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests or when transaction support is not required.
type NoOpTransactionScope struct {
	regions   filing.RegionRepository
	envelopes filing.EnvelopeRepository
	docTypes  filing.DocumentTypeRepository
	audits    audit.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	regions filing.RegionRepository,
	envelopes filing.EnvelopeRepository,
	docTypes filing.DocumentTypeRepository,
	audits audit.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		regions:   regions,
		envelopes: envelopes,
		docTypes:  docTypes,
		audits:    audits,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RegionRepo returns the region repository
func (s *NoOpTransactionScope) RegionRepo() filing.RegionRepository { return s.regions }

// EnvelopeRepo returns the envelope repository
func (s *NoOpTransactionScope) EnvelopeRepo() filing.EnvelopeRepository { return s.envelopes }

// DocumentTypeRepo returns the document type repository
func (s *NoOpTransactionScope) DocumentTypeRepo() filing.DocumentTypeRepository { return s.docTypes }

// AuditRepo returns the audit repository
func (s *NoOpTransactionScope) AuditRepo() audit.Repository { return s.audits }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
