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

// GormDocumentTypeRepository implements filing.DocumentTypeRepository using GORM
type GormDocumentTypeRepository struct {
	db *gorm.DB
}

// NewGormDocumentTypeRepository creates a new GormDocumentTypeRepository
func NewGormDocumentTypeRepository(db *gorm.DB) *GormDocumentTypeRepository {
	return &GormDocumentTypeRepository{db: db}
}

// FindByID finds a document type by its ID
func (r *GormDocumentTypeRepository) FindByID(ctx context.Context, id uint) (*filing.DocumentType, error) {
	var model models.DocumentTypeModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every document type ordered by name
func (r *GormDocumentTypeRepository) FindAll(ctx context.Context) ([]filing.DocumentType, error) {
	var rows []models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	types := make([]filing.DocumentType, 0, len(rows))
	for i := range rows {
		types = append(types, *rows[i].ToDomain())
	}
	return types, nil
}

// InsertIfAbsent returns the type with the given name, inserting it when absent
func (r *GormDocumentTypeRepository) InsertIfAbsent(ctx context.Context, name string) (*filing.DocumentType, bool, error) {
	model := models.DocumentTypeModel{Name: name}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 && model.ID != 0 {
		return model.ToDomain(), true, nil
	}

	var existing models.DocumentTypeModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, shared.ErrNotFound
		}
		return nil, false, err
	}
	return existing.ToDomain(), false, nil
}

// Delete removes a document type
func (r *GormDocumentTypeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.DocumentTypeModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// EnsureNames inserts the missing names and ignores the rest
func (r *GormDocumentTypeRepository) EnsureNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	rows := make([]models.DocumentTypeModel, 0, len(names))
	for _, n := range names {
		rows = append(rows, models.DocumentTypeModel{Name: n})
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}

// Count counts all document types
func (r *GormDocumentTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DocumentTypeModel{}).Count(&count).Error
	return count, err
}

var _ filing.DocumentTypeRepository = (*GormDocumentTypeRepository)(nil)
