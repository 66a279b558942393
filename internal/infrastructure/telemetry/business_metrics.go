package telemetry

import (
	"context"

	"github.com/docfiling/backend/internal/domain/audit"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// FilingMetrics counts committed filing mutations.
// It is registered as an audit notifier, so every audited write is counted exactly
// once and only after its transaction commits.
type FilingMetrics struct {
	mutations   *Counter
	uploads     *Counter
	rowsUpdated *Counter
	logger      *zap.Logger
}

// NewFilingMetrics creates the filing instruments on meter.
func NewFilingMetrics(meter metric.Meter, logger *zap.Logger) (*FilingMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mutations, err := NewCounter(meter, "filing_mutations_total", "Committed mutations by audit action", "{mutation}")
	if err != nil {
		return nil, err
	}
	uploads, err := NewCounter(meter, "filing_file_uploads_total", "Document files attached to folders", "{file}")
	if err != nil {
		return nil, err
	}
	rowsUpdated, err := NewCounter(meter, "filing_bulk_rows_updated_total", "Rows changed by bulk operations", "{row}")
	if err != nil {
		return nil, err
	}

	return &FilingMetrics{
		mutations:   mutations,
		uploads:     uploads,
		rowsUpdated: rowsUpdated,
		logger:      logger,
	}, nil
}

// Notify records entry
func (m *FilingMetrics) Notify(ctx context.Context, entry audit.Entry) {
	action := AttrAction.String(string(entry.Action))
	m.mutations.Inc(ctx, action, AttrActorSystem.Bool(entry.UserID == nil))

	switch entry.Action {
	case audit.ActionUploadedFile:
		m.uploads.Inc(ctx)
	case audit.ActionUpdatedPrintStatus:
		if n, ok := metadataCount(entry.Metadata, "updated"); ok {
			printed, _ := entry.Metadata["is_printed"].(bool)
			m.rowsUpdated.Add(ctx, n, action, AttrPrinted.Bool(printed))
		}
	case audit.ActionBulkUpdatedDoor:
		if n, ok := metadataCount(entry.Metadata, "updated"); ok {
			m.rowsUpdated.Add(ctx, n, action)
		}
	}
}

func metadataCount(md map[string]any, key string) (int64, bool) {
	switch v := md[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
