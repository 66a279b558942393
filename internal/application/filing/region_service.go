package filing

import (
	"context"
	"fmt"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"go.uber.org/zap"
)

// RegionService manages the administrative regions folders are filed under
type RegionService struct {
	regions  filing.RegionRepository
	txScope  TransactionScope
	recorder *Recorder
	storage  FileStorage
	logger   *zap.Logger
}

// NewRegionService creates a new RegionService
func NewRegionService(
	regions filing.RegionRepository,
	txScope TransactionScope,
	recorder *Recorder,
	storage FileStorage,
	logger *zap.Logger,
) *RegionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegionService{
		regions:  regions,
		txScope:  txScope,
		recorder: recorder,
		storage:  storage,
		logger:   logger,
	}
}

// List returns every region in natural order
func (s *RegionService) List(ctx context.Context) ([]RegionResponse, error) {
	regions, err := s.regions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	filing.SortRegionsNaturally(regions)
	return ToRegionResponses(regions), nil
}

// Create returns the region with the given name, creating it when absent
func (s *RegionService) Create(ctx context.Context, actor audit.Actor, name string) (*RegionResult, error) {
	region, err := filing.NewRegion(name)
	if err != nil {
		return nil, err
	}

	var (
		result *RegionResult
		entry  *audit.Entry
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stored, created, err := repos.RegionRepo().GetOrCreate(ctx, region.Name)
		if err != nil {
			return err
		}
		result = &RegionResult{RegionResponse: ToRegionResponse(stored), Created: created}
		if !created {
			return nil
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionAddedRegion,
			Details: fmt.Sprintf("Added region '%s'", stored.Name),
			Subject: Subject{Kind: SubjectRegion, IDs: []uint{stored.ID}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	return result, nil
}

// Rename renames a region. An empty name leaves it unchanged.
func (s *RegionService) Rename(ctx context.Context, actor audit.Actor, id uint, name string) (*RegionResponse, error) {
	var (
		result *RegionResponse
		entry  *audit.Entry
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		region, err := repos.RegionRepo().FindByID(ctx, id)
		if err != nil {
			return regionLookupError(err)
		}
		oldName := region.Name

		changed, err := region.Rename(name)
		if err != nil {
			return err
		}
		resp := ToRegionResponse(region)
		result = &resp
		if !changed {
			return nil
		}

		if err := repos.RegionRepo().Update(ctx, region); err != nil {
			return regionLookupError(err)
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionEditedRegion,
			Details: fmt.Sprintf("Renamed region '%s' to '%s'", oldName, region.Name),
			Subject: Subject{Kind: SubjectRegion, IDs: []uint{id}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Publish(ctx, entry)
	return result, nil
}

// Delete removes a region with all of its folders and their line items
func (s *RegionService) Delete(ctx context.Context, actor audit.Actor, id uint) error {
	var (
		entry       *audit.Entry
		orphanFiles []string
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		region, err := repos.RegionRepo().FindByID(ctx, id)
		if err != nil {
			return regionLookupError(err)
		}

		folders, err := repos.EnvelopeRepo().FindByRegion(ctx, id)
		if err != nil {
			return err
		}
		for i := range folders {
			orphanFiles = append(orphanFiles, folders[i].StoredFiles()...)
		}

		if err := repos.RegionRepo().Delete(ctx, id); err != nil {
			return regionLookupError(err)
		}
		entry, err = s.recorder.Record(ctx, repos, Mutation{
			Actor:   actor,
			Action:  audit.ActionDeletedRegion,
			Details: fmt.Sprintf("Deleted region '%s' and %d folders", region.Name, len(folders)),
			Subject: Subject{Kind: SubjectRegion, IDs: []uint{id}},
		})
		return err
	})
	if err != nil {
		return err
	}

	s.recorder.Publish(ctx, entry)
	removeStoredFiles(ctx, s.storage, s.logger, orphanFiles)
	return nil
}
