package filing

import (
	"context"

	"github.com/docfiling/backend/internal/domain/audit"
)

// Audit listing bounds
const (
	DefaultAuditLimit = 10
	MaxAuditLimit     = 200
)

// AuditService reads the audit trail
type AuditService struct {
	audits audit.Repository
}

// NewAuditService creates a new AuditService
func NewAuditService(audits audit.Repository) *AuditService {
	return &AuditService{audits: audits}
}

// Recent returns the newest entries first. A non-positive limit uses the default
// and larger limits are capped.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]AuditEntryResponse, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditLimit
	case limit > MaxAuditLimit:
		limit = MaxAuditLimit
	}
	entries, err := s.audits.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToAuditEntryResponses(entries), nil
}
