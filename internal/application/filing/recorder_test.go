package filing

import (
	"context"
	"testing"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Record(t *testing.T) {
	d := newTestDeps()
	d.expectAudit(audit.ActionUpdatedPrintStatus, "Marked 2 folders as Printed")

	entry, err := d.recorder.Record(context.Background(), d.scope, Mutation{
		Actor:   testActor,
		Action:  audit.ActionUpdatedPrintStatus,
		Details: "Marked 2 folders as Printed",
		Subject: Subject{Kind: SubjectFolder, IDs: []uint{1, 2}},
		Extra:   map[string]any{"is_printed": true},
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), entry.ID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, testActor.UserID, *entry.UserID)
	assert.Equal(t, map[string]any{
		"subject":    "folder",
		"ids":        []uint{1, 2},
		"is_printed": true,
	}, entry.Metadata)
	assert.Empty(t, d.notifier.entries, "recording must not publish")
}

func TestRecorder_RecordSystemActor(t *testing.T) {
	d := newTestDeps()
	d.expectAudit(audit.ActionAddedRegion, "Added region 'NCR'")

	entry, err := d.recorder.Record(context.Background(), d.scope, Mutation{
		Actor:   audit.SystemActor,
		Action:  audit.ActionAddedRegion,
		Details: "Added region 'NCR'",
	})

	require.NoError(t, err)
	assert.Nil(t, entry.UserID)
	assert.Equal(t, "system", entry.ActorName)
	assert.Empty(t, entry.Metadata)
}

func TestRecorder_Publish(t *testing.T) {
	first := &captureNotifier{}
	var seen []string
	r := NewRecorder(nil, first)
	r.AddNotifier(NotifierFunc(func(_ context.Context, e audit.Entry) {
		seen = append(seen, e.Details)
	}))

	r.Publish(context.Background(), nil, &audit.Entry{ID: 1, Details: "a"}, nil, &audit.Entry{ID: 2, Details: "b"})

	require.Len(t, first.entries, 2)
	assert.Equal(t, uint(2), first.entries[1].ID)
	assert.Equal(t, []string{"a", "b"}, seen)
}
