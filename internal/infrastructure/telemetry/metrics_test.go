package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/docfiling/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

// newTestMeter returns a meter backed by a manual reader
func newTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

// collect gathers every metric the reader has seen, keyed by name
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

// sumWhere adds up the int64 sum data points whose attributes include attrs
func sumWhere(t *testing.T, agg metricdata.Aggregation, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", agg)

	var total int64
	for _, dp := range sum.DataPoints {
		matched := true
		for _, kv := range attrs {
			v, ok := dp.Attributes.Value(kv.Key)
			if !ok || v != kv.Value {
				matched = false
				break
			}
		}
		if matched {
			total += dp.Value
		}
	}
	return total
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{ServiceName: "docfiling-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMetricsConfigFrom(t *testing.T) {
	base := config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		ServiceName:       "docfiling",
		MetricsEnabled:    true,
		MetricsInterval:   30 * time.Second,
	}

	cfg := telemetry.MetricsConfigFrom(base)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.ExportInterval)

	base.Enabled = false
	assert.False(t, telemetry.MetricsConfigFrom(base).Enabled, "metrics follow the telemetry master switch")
}

func TestCounterAndHistogram(t *testing.T) {
	ctx := context.Background()
	mp, reader := newTestMeter(t)
	meter := mp.Meter("test")

	counter, err := telemetry.NewCounter(meter, "test_total", "test counter", "{op}")
	require.NoError(t, err)
	counter.Inc(ctx, telemetry.AttrAction.String("a"))
	counter.Add(ctx, 4, telemetry.AttrAction.String("a"))
	counter.Inc(ctx, telemetry.AttrAction.String("b"))

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "test_duration_seconds",
		Unit:       "s",
		Boundaries: telemetry.DBDurationBuckets,
	})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 20*time.Millisecond)
	hist.Record(ctx, 2)

	data := collect(t, reader)
	assert.Equal(t, int64(5), sumWhere(t, data["test_total"], telemetry.AttrAction.String("a")))
	assert.Equal(t, int64(6), sumWhere(t, data["test_total"]))

	h, ok := data["test_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(2), h.DataPoints[0].Count)
	assert.Equal(t, telemetry.DBDurationBuckets, h.DataPoints[0].Bounds)
}
