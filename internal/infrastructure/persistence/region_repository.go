package persistence

import (
	"context"
	"errors"

	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/docfiling/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRegionRepository implements filing.RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// FindByID finds a region by its ID
func (r *GormRegionRepository) FindByID(ctx context.Context, id uint) (*filing.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a region by its exact name
func (r *GormRegionRepository) FindByName(ctx context.Context, name string) (*filing.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every region ordered by ID; callers sort naturally
func (r *GormRegionRepository) FindAll(ctx context.Context) ([]filing.Region, error) {
	var rows []models.RegionModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	regions := make([]filing.Region, 0, len(rows))
	for i := range rows {
		regions = append(regions, *rows[i].ToDomain())
	}
	return regions, nil
}

// GetOrCreate inserts the name unless a region already holds it, then returns that region
func (r *GormRegionRepository) GetOrCreate(ctx context.Context, name string) (*filing.Region, bool, error) {
	model := models.RegionModel{Name: name}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 && model.ID != 0 {
		return model.ToDomain(), true, nil
	}

	region, err := r.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return region, false, nil
}

// Update saves a renamed region
func (r *GormRegionRepository) Update(ctx context.Context, region *filing.Region) error {
	result := r.db.WithContext(ctx).
		Model(&models.RegionModel{}).
		Where("id = ?", region.ID).
		Update("name", region.Name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "A region with this name already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a region, its envelopes and their line items.
// Run it inside a transaction scope so the statements commit together.
func (r *GormRegionRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	envelopeIDs := db.Model(&models.EnvelopeModel{}).Select("id").Where("region_id = ?", id)

	if err := db.Where("envelope_id IN (?)", envelopeIDs).Delete(&models.DocumentModel{}).Error; err != nil {
		return err
	}
	if err := db.Where("envelope_id IN (?)", envelopeIDs).Delete(&models.EnvelopeMetaModel{}).Error; err != nil {
		return err
	}
	if err := db.Where("region_id = ?", id).Delete(&models.EnvelopeModel{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.RegionModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// EnsureNames inserts the missing names; existing ones are left alone
func (r *GormRegionRepository) EnsureNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	rows := make([]models.RegionModel, 0, len(names))
	for _, n := range names {
		rows = append(rows, models.RegionModel{Name: n})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}

// Count counts all regions
func (r *GormRegionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RegionModel{}).Count(&count).Error
	return count, err
}

var _ filing.RegionRepository = (*GormRegionRepository)(nil)
