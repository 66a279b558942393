package persistence

import (
	"context"
	"testing"

	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory sqlite database with the full schema.
// A single connection keeps the in-memory database alive for the whole test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createRegion(t *testing.T, db *gorm.DB, name string) *filing.Region {
	t.Helper()
	region, _, err := NewGormRegionRepository(db).GetOrCreate(context.Background(), name)
	require.NoError(t, err)
	return region
}

func createEnvelope(t *testing.T, db *gorm.DB, regionID uint, title string, metas []filing.EnvelopeMeta, docs []filing.Document) *filing.Envelope {
	t.Helper()
	env := &filing.Envelope{RegionID: regionID, Title: title, Metas: metas, Documents: docs}
	require.NoError(t, NewGormEnvelopeRepository(db).Create(context.Background(), env))
	return env
}

func doc(text string, pages int, date string) filing.Document {
	d := filing.Document{ContentContext: text, NumPages: pages}
	if date != "" {
		d.DateNotarized = &date
	}
	return d
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
