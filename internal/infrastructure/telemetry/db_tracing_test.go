package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testRegion struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testRegion{}))
	return db
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestDBTracingConfigFrom(t *testing.T) {
	cfg := DBTracingConfigFrom(config.TelemetryConfig{Enabled: true, DBTraceEnabled: true, DBLogFullSQL: true})
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)

	cfg = DBTracingConfigFrom(config.TelemetryConfig{Enabled: false, DBTraceEnabled: true})
	assert.False(t, cfg.Enabled)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), nil).RegisterOtelGorm(db))
	assert.Nil(t, db.Callback().Query().Get("otel:before_select"))
}

func TestDBTracingPlugin_CreatesQuerySpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	db := setupTestDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	require.NoError(t, NewDBTracingPlugin(cfg, nil).RegisterOtelGorm(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "dashboard.load")
	var regions []testRegion
	require.NoError(t, db.WithContext(ctx).Find(&regions).Error)
	parent.End()

	var query sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.Name() == "gorm.Query" {
			query = s
		}
	}
	require.NotNil(t, query, "otelgorm should record a query span")
	assert.Equal(t, parent.SpanContext().TraceID(), query.SpanContext().TraceID())
}

func TestDBTracingPlugin_AnnotatesSlowQueries(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	db := setupTestDB(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, nil)
	require.NoError(t, registerAround(db, "test", markQueryStart(queryStartTimeKey), func(string) func(*gorm.DB) {
		return p.annotateSpan
	}))

	ctx, span := tp.Tracer("test").Start(context.Background(), "region.create")
	require.NoError(t, db.WithContext(ctx).Create(&testRegion{Name: "Region I"}).Error)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	attrs := spanAttrs(ended[0])
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "test_regions", attrs["db.sql.table"].AsString())
	assert.True(t, attrs["db.slow_query"].AsBool())
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"select 1":                         "SELECT",
		"  INSERT INTO regions VALUES (1)": "INSERT",
		"update envelope_metas set x = 1":  "UPDATE",
		"DELETE FROM documents":            "DELETE",
		"WITH latest AS (SELECT 1) SELECT": "SELECT",
		"VACUUM":                           "OTHER",
	}
	for query, want := range tests {
		assert.Equal(t, want, detectOperationType(query), query)
	}
}
