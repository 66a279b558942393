package filing

import (
	"context"
	"testing"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRegionService(d *testDeps) *RegionService {
	return NewRegionService(d.regions, d.scope, d.recorder, d.storage, nil)
}

func TestRegionService_List(t *testing.T) {
	d := newTestDeps()
	svc := newTestRegionService(d)

	d.regions.On("FindAll", mock.Anything).Return([]filing.Region{
		{ID: 1, Name: "Region XII"}, {ID: 2, Name: "Region 10"}, {ID: 3, Name: "Region 9"},
	}, nil)

	regions, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []RegionResponse{
		{ID: 3, Name: "Region 9"}, {ID: 2, Name: "Region 10"}, {ID: 1, Name: "Region XII"},
	}, regions)
}

func TestRegionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("new region is audited", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestRegionService(d)

		d.regions.On("GetOrCreate", mock.Anything, "Region XIV").Return(&filing.Region{ID: 18, Name: "Region XIV"}, true, nil)
		d.expectAudit(audit.ActionAddedRegion, "Added region 'Region XIV'")

		result, err := svc.Create(ctx, testActor, " Region XIV ")

		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, uint(18), result.ID)
		d.assertExpectations(t)
	})

	t.Run("existing region is returned as is", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestRegionService(d)

		d.regions.On("GetOrCreate", mock.Anything, "NCR").Return(&filing.Region{ID: 1, Name: "NCR"}, false, nil)

		result, err := svc.Create(ctx, testActor, "NCR")

		require.NoError(t, err)
		assert.False(t, result.Created)
		d.audits.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("blank name", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestRegionService(d)

		_, err := svc.Create(ctx, testActor, "")

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestRegionService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and audits", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestRegionService(d)

		d.regions.On("FindByID", mock.Anything, uint(5)).Return(&filing.Region{ID: 5, Name: "Region 4A"}, nil)
		d.regions.On("Update", mock.Anything, &filing.Region{ID: 5, Name: "Region IV-A"}).Return(nil)
		d.expectAudit(audit.ActionEditedRegion, "Renamed region 'Region 4A' to 'Region IV-A'")

		resp, err := svc.Rename(ctx, testActor, 5, "Region IV-A")

		require.NoError(t, err)
		assert.Equal(t, "Region IV-A", resp.Name)
		d.assertExpectations(t)
	})

	t.Run("empty name leaves the region untouched", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestRegionService(d)

		d.regions.On("FindByID", mock.Anything, uint(5)).Return(&filing.Region{ID: 5, Name: "Region 4A"}, nil)

		resp, err := svc.Rename(ctx, testActor, 5, "")

		require.NoError(t, err)
		assert.Equal(t, "Region 4A", resp.Name)
		d.regions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		assert.Empty(t, d.notifier.entries)
	})

	t.Run("unknown region", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestRegionService(d)

		d.regions.On("FindByID", mock.Anything, uint(50)).Return(nil, shared.ErrNotFound)

		_, err := svc.Rename(ctx, testActor, 50, "X")

		assert.EqualError(t, err, "Region not found")
	})
}

func TestRegionService_Delete(t *testing.T) {
	d := newTestDeps()
	svc := newTestRegionService(d)

	d.regions.On("FindByID", mock.Anything, uint(5)).Return(&filing.Region{ID: 5, Name: "Region V"}, nil)
	d.envelopes.On("FindByRegion", mock.Anything, uint(5)).Return([]filing.Envelope{
		{ID: 1, Documents: []filing.Document{{FileUpload: "docs/1/1/a.pdf"}}},
		{ID: 2},
	}, nil)
	d.regions.On("Delete", mock.Anything, uint(5)).Return(nil)
	d.expectAudit(audit.ActionDeletedRegion, "Deleted region 'Region V' and 2 folders")
	d.storage.On("DeleteObject", mock.Anything, "docs/1/1/a.pdf").Return(nil)

	require.NoError(t, svc.Delete(context.Background(), testActor, 5))
	assert.Len(t, d.notifier.entries, 1)
	d.assertExpectations(t)
}
