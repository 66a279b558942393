package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/docfiling/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards with '!' so user input only matches literally
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchClause ORs the title with EXISTS probes into documents and metadata rows, so a
// folder matching several children still appears once.
const searchClause = `(LOWER(e.title) LIKE LOWER(?) ESCAPE '!'
	OR EXISTS (SELECT 1 FROM documents sd WHERE sd.envelope_id = e.id
		AND LOWER(sd.content_context) LIKE LOWER(?) ESCAPE '!')
	OR EXISTS (SELECT 1 FROM envelope_metas sm WHERE sm.envelope_id = e.id AND (
		LOWER(sm.project_entity) LIKE LOWER(?) ESCAPE '!'
		OR LOWER(sm.procuring_entity) LIKE LOWER(?) ESCAPE '!'
		OR LOWER(sm.sales_name) LIKE LOWER(?) ESCAPE '!'
		OR LOWER(sm.door_number) LIKE LOWER(?) ESCAPE '!')))`

const listingOrder = `CASE WHEN MAX(d.date_notarized) IS NULL THEN 1 ELSE 0 END, MAX(d.date_notarized) DESC, e.id DESC`

// GormEnvelopeRepository implements filing.EnvelopeRepository using GORM
type GormEnvelopeRepository struct {
	db *gorm.DB
}

// NewGormEnvelopeRepository creates a new GormEnvelopeRepository
func NewGormEnvelopeRepository(db *gorm.DB) *GormEnvelopeRepository {
	return &GormEnvelopeRepository{db: db}
}

// FindByID loads a folder with its metadata rows and documents
func (r *GormEnvelopeRepository) FindByID(ctx context.Context, id uint) (*filing.Envelope, error) {
	var model models.EnvelopeModel
	err := r.db.WithContext(ctx).
		Preload("Metas", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRegion loads the folders of a region with their documents
func (r *GormEnvelopeRepository) FindByRegion(ctx context.Context, regionID uint) ([]filing.Envelope, error) {
	var rows []models.EnvelopeModel
	if err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("region_id = ?", regionID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]filing.Envelope, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Create inserts a folder and its line items; IDs are written back onto the entity
func (r *GormEnvelopeRepository) Create(ctx context.Context, envelope *filing.Envelope) error {
	model := models.EnvelopeModelFromDomain(envelope)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	created := model.ToDomain()
	*envelope = *created
	return nil
}

// UpdateHeader saves title and region only
func (r *GormEnvelopeRepository) UpdateHeader(ctx context.Context, envelope *filing.Envelope) error {
	result := r.db.WithContext(ctx).
		Model(&models.EnvelopeModel{}).
		Where("id = ?", envelope.ID).
		Updates(map[string]any{
			"title":     envelope.Title,
			"region_id": envelope.RegionID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReplaceMetas deletes every metadata row of the folder and inserts the given ones
func (r *GormEnvelopeRepository) ReplaceMetas(ctx context.Context, envelopeID uint, metas []filing.EnvelopeMeta) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("envelope_id = ?", envelopeID).Delete(&models.EnvelopeMetaModel{}).Error; err != nil {
		return err
	}
	if len(metas) == 0 {
		return nil
	}
	rows := models.EnvelopeMetaModelsFromDomain(envelopeID, metas)
	return db.Create(&rows).Error
}

// ReplaceDocuments deletes every document of the folder and inserts the given ones
func (r *GormEnvelopeRepository) ReplaceDocuments(ctx context.Context, envelopeID uint, documents []filing.Document) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("envelope_id = ?", envelopeID).Delete(&models.DocumentModel{}).Error; err != nil {
		return err
	}
	if len(documents) == 0 {
		return nil
	}
	rows := models.DocumentModelsFromDomain(envelopeID, documents)
	return db.Create(&rows).Error
}

// Delete removes a folder with its metadata rows and documents
func (r *GormEnvelopeRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("envelope_id = ?", id).Delete(&models.DocumentModel{}).Error; err != nil {
		return err
	}
	if err := db.Where("envelope_id = ?", id).Delete(&models.EnvelopeMetaModel{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.EnvelopeModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type listingRow struct {
	ID                  uint
	RegionID            uint
	Title               string
	CreatedAt           time.Time
	IsPrinted           bool
	RegionName          string
	TotalPages          int
	LatestDateNotarized *string
}

// List returns the dashboard listing. Page totals and the latest notarization date are
// aggregated in the same query; the search predicate never joins, so totals are not inflated.
func (r *GormEnvelopeRepository) List(ctx context.Context, filter filing.ListFilter) ([]filing.EnvelopeListing, error) {
	q := r.db.WithContext(ctx).
		Table("envelopes AS e").
		Select(`e.id, e.region_id, e.title, e.created_at, e.is_printed,
			rg.name AS region_name,
			COALESCE(SUM(d.num_pages), 0) AS total_pages,
			MAX(d.date_notarized) AS latest_date_notarized`).
		Joins("JOIN regions rg ON rg.id = e.region_id").
		Joins("LEFT JOIN documents d ON d.envelope_id = e.id")

	if filter.RegionID != nil {
		q = q.Where("e.region_id = ?", *filter.RegionID)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(searchClause, pattern, pattern, pattern, pattern, pattern, pattern)
	}

	var rows []listingRow
	if err := q.Group("e.id, e.region_id, e.title, e.created_at, e.is_printed, rg.id, rg.name").
		Order(listingOrder).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	listings := make([]filing.EnvelopeListing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, filing.EnvelopeListing{
			Envelope: filing.Envelope{
				ID:        row.ID,
				RegionID:  row.RegionID,
				Title:     row.Title,
				CreatedAt: row.CreatedAt,
				IsPrinted: row.IsPrinted,
			},
			RegionName:          row.RegionName,
			TotalPages:          row.TotalPages,
			LatestDateNotarized: row.LatestDateNotarized,
		})
	}
	return listings, nil
}

// DistinctDoorNumbers returns the non-null door numbers in ascending order.
// An empty string is a value and is returned.
func (r *GormEnvelopeRepository) DistinctDoorNumbers(ctx context.Context) ([]string, error) {
	var doors []string
	err := r.db.WithContext(ctx).
		Model(&models.EnvelopeMetaModel{}).
		Distinct("door_number").
		Where("door_number IS NOT NULL").
		Order("door_number ASC").
		Pluck("door_number", &doors).Error
	if err != nil {
		return nil, err
	}
	return doors, nil
}

// FindTitles returns the titles of the given folders keyed by ID
func (r *GormEnvelopeRepository) FindTitles(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	var rows []models.EnvelopeModel
	if err := r.db.WithContext(ctx).
		Select("id", "title").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		titles[row.ID] = row.Title
	}
	return titles, nil
}

// SetPrinted updates is_printed on every listed folder in one statement
func (r *GormEnvelopeRepository) SetPrinted(ctx context.Context, ids []uint, printed bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.EnvelopeModel{}).
		Where("id IN ?", ids).
		Update("is_printed", printed)
	return result.RowsAffected, result.Error
}

// ReplaceDoorNumber rewrites matching door numbers across all folders in one statement
func (r *GormEnvelopeRepository) ReplaceDoorNumber(ctx context.Context, selector filing.DoorSelector, newDoor string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.EnvelopeMetaModel{})
	if selector.Empty {
		q = q.Where("door_number IS NULL OR door_number = ?", "")
	} else {
		q = q.Where("door_number = ?", selector.Value)
	}
	result := q.Update("door_number", newDoor)
	return result.RowsAffected, result.Error
}

// FindDocument finds a document belonging to the given folder
func (r *GormEnvelopeRepository) FindDocument(ctx context.Context, envelopeID, documentID uint) (*filing.Document, error) {
	var model models.DocumentModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND envelope_id = ?", documentID, envelopeID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	doc := model.ToDomain()
	return &doc, nil
}

// SetDocumentFile records the storage key of a document's file
func (r *GormEnvelopeRepository) SetDocumentFile(ctx context.Context, documentID uint, storageKey string) error {
	result := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("id = ?", documentID).
		Update("file_upload", storageKey)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ filing.EnvelopeRepository = (*GormEnvelopeRepository)(nil)
