package filing

import (
	"context"
	"strings"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardConfig controls the listing bootstrap and the activity panel
type DashboardConfig struct {
	// SeedOnRead runs the idempotent defaults seed before every listing
	SeedOnRead bool
	// RecentActivityLimit is the number of audit entries shown; 0 hides the panel
	RecentActivityLimit int
}

// DashboardService assembles the folder listing and its lookup lists
type DashboardService struct {
	regions   filing.RegionRepository
	envelopes filing.EnvelopeRepository
	docTypes  filing.DocumentTypeRepository
	audits    audit.Repository
	seeder    Seeder
	config    DashboardConfig
	logger    *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	regions filing.RegionRepository,
	envelopes filing.EnvelopeRepository,
	docTypes filing.DocumentTypeRepository,
	audits audit.Repository,
	seeder Seeder,
	config DashboardConfig,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		regions:   regions,
		envelopes: envelopes,
		docTypes:  docTypes,
		audits:    audits,
		seeder:    seeder,
		config:    config,
		logger:    logger,
	}
}

// Load returns the filtered listing together with regions, document types,
// door numbers and recent activity
func (s *DashboardService) Load(ctx context.Context, q DashboardQuery) (*DashboardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "load",
		telemetry.WithAttribute(telemetry.SpanAttrSearchQuery, strings.TrimSpace(q.Q)))
	defer span.End()
	if q.RegionID != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrRegionID, *q.RegionID)
	}

	if s.config.SeedOnRead && s.seeder != nil {
		if _, err := s.seeder.EnsureDefaults(ctx); err != nil {
			return nil, err
		}
	}

	resp := &DashboardResponse{
		SelectedRegionID: q.RegionID,
		Query:            strings.TrimSpace(q.Q),
		RecentActivity:   []AuditEntryResponse{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.envelopes.List(gctx, filing.ListFilter{RegionID: q.RegionID, Query: resp.Query})
		if err != nil {
			return err
		}
		resp.Envelopes = ToFolderListItems(rows)
		return nil
	})
	g.Go(func() error {
		regions, err := s.regions.FindAll(gctx)
		if err != nil {
			return err
		}
		filing.SortRegionsNaturally(regions)
		resp.Regions = ToRegionResponses(regions)
		return nil
	})
	g.Go(func() error {
		types, err := s.docTypes.FindAll(gctx)
		if err != nil {
			return err
		}
		resp.DocTypes = ToDocumentTypeResponses(types)
		return nil
	})
	g.Go(func() error {
		doors, err := s.envelopes.DistinctDoorNumbers(gctx)
		if err != nil {
			return err
		}
		if doors == nil {
			doors = []string{}
		}
		resp.UniqueDoors = doors
		return nil
	})
	if s.config.RecentActivityLimit > 0 {
		g.Go(func() error {
			entries, err := s.audits.Recent(gctx, s.config.RecentActivityLimit)
			if err != nil {
				return err
			}
			resp.RecentActivity = ToAuditEntryResponses(entries)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load dashboard", zap.Error(err))
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(resp.Envelopes))
	return resp, nil
}
