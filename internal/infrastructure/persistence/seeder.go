package persistence

import (
	"context"
	"fmt"

	"github.com/docfiling/backend/internal/domain/filing"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder inserts the default regions and document types.
// Every insert is ON CONFLICT DO NOTHING against the unique name, so concurrent
// callers never fail and never duplicate a row.
type Seeder struct {
	regions  *GormRegionRepository
	docTypes *GormDocumentTypeRepository
	logger   *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		regions:  NewGormRegionRepository(db),
		docTypes: NewGormDocumentTypeRepository(db),
		logger:   logger,
	}
}

// EnsureDefaults inserts the default regions and document types into tables that are
// still empty. Regions or types removed later stay removed.
func (s *Seeder) EnsureDefaults(ctx context.Context) (filing.SeedResult, error) {
	var result filing.SeedResult

	count, err := s.regions.Count(ctx)
	if err != nil {
		return result, fmt.Errorf("count regions: %w", err)
	}
	if count == 0 {
		inserted, err := s.regions.EnsureNames(ctx, filing.DefaultRegionNames)
		if err != nil {
			return result, fmt.Errorf("seed regions: %w", err)
		}
		result.Regions = inserted
	}

	count, err = s.docTypes.Count(ctx)
	if err != nil {
		return result, fmt.Errorf("count document types: %w", err)
	}
	if count == 0 {
		inserted, err := s.docTypes.EnsureNames(ctx, filing.DefaultDocumentTypeNames)
		if err != nil {
			return result, fmt.Errorf("seed document types: %w", err)
		}
		result.DocumentTypes = inserted
	}

	if result.Regions > 0 || result.DocumentTypes > 0 {
		s.logger.Info("Seeded filing defaults",
			zap.Int64("regions", result.Regions),
			zap.Int64("document_types", result.DocumentTypes),
		)
	}
	return result, nil
}
