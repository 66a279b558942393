package filing

import (
	"context"
	"errors"
	"testing"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(d *testDeps, seeder Seeder, cfg DashboardConfig) *DashboardService {
	return NewDashboardService(d.regions, d.envelopes, d.docTypes, d.audits, seeder, cfg, nil)
}

func TestDashboardService_Load(t *testing.T) {
	ctx := context.Background()
	date := "2024-03-01"

	t.Run("assembles the listing with naturally sorted regions", func(t *testing.T) {
		d := newTestDeps()
		seeder := new(MockSeeder)
		svc := newTestDashboard(d, seeder, DashboardConfig{SeedOnRead: true, RecentActivityLimit: 5})

		regionID := uint(2)
		seeder.On("EnsureDefaults", mock.Anything).Return(filing.SeedResult{}, nil).Once()
		d.envelopes.On("List", mock.Anything, filing.ListFilter{RegionID: &regionID, Query: "deed"}).Return([]filing.EnvelopeListing{
			{Envelope: filing.Envelope{ID: 9, RegionID: 2, Title: "B"}, RegionName: "Region 2", TotalPages: 7, LatestDateNotarized: &date},
			{Envelope: filing.Envelope{ID: 4, RegionID: 2, Title: "A"}, RegionName: "Region 2"},
		}, nil)
		d.regions.On("FindAll", mock.Anything).Return([]filing.Region{
			{ID: 3, Name: "Region 10"}, {ID: 2, Name: "Region 2"}, {ID: 1, Name: "region 1"},
		}, nil)
		d.docTypes.On("FindAll", mock.Anything).Return([]filing.DocumentType{{ID: 1, Name: "AFFIDAVIT OF LOSS"}}, nil)
		d.envelopes.On("DistinctDoorNumbers", mock.Anything).Return([]string{"12-A", "7"}, nil)
		d.audits.On("Recent", mock.Anything, 5).Return([]audit.Entry{{ID: 3, ActorName: "system", Action: audit.ActionAddedRegion}}, nil)

		resp, err := svc.Load(ctx, DashboardQuery{RegionID: &regionID, Q: "  deed "})

		require.NoError(t, err)
		assert.Equal(t, "deed", resp.Query)
		assert.Equal(t, &regionID, resp.SelectedRegionID)
		require.Len(t, resp.Envelopes, 2)
		assert.Equal(t, uint(9), resp.Envelopes[0].ID)
		assert.Equal(t, 7, resp.Envelopes[0].TotalPages)
		assert.Equal(t, &date, resp.Envelopes[0].LatestDateNotarized)
		assert.Nil(t, resp.Envelopes[1].LatestDateNotarized)

		names := make([]string, len(resp.Regions))
		for i, r := range resp.Regions {
			names[i] = r.Name
		}
		assert.Equal(t, []string{"region 1", "Region 2", "Region 10"}, names)
		assert.Equal(t, []string{"12-A", "7"}, resp.UniqueDoors)
		assert.Len(t, resp.DocTypes, 1)
		require.Len(t, resp.RecentActivity, 1)
		assert.Equal(t, "system", resp.RecentActivity[0].Actor)

		seeder.AssertExpectations(t)
		d.assertExpectations(t)
	})

	t.Run("empty store yields empty lists and skips activity", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestDashboard(d, nil, DashboardConfig{})

		d.envelopes.On("List", mock.Anything, filing.ListFilter{}).Return([]filing.EnvelopeListing{}, nil)
		d.regions.On("FindAll", mock.Anything).Return([]filing.Region{}, nil)
		d.docTypes.On("FindAll", mock.Anything).Return([]filing.DocumentType{}, nil)
		d.envelopes.On("DistinctDoorNumbers", mock.Anything).Return(nil, nil)

		resp, err := svc.Load(ctx, DashboardQuery{})

		require.NoError(t, err)
		assert.Empty(t, resp.Envelopes)
		assert.NotNil(t, resp.UniqueDoors)
		assert.NotNil(t, resp.RecentActivity)
		assert.Nil(t, resp.SelectedRegionID)
		d.audits.AssertNotCalled(t, "Recent", mock.Anything, mock.Anything)
	})

	t.Run("seed failure aborts the load", func(t *testing.T) {
		d := newTestDeps()
		seeder := new(MockSeeder)
		svc := newTestDashboard(d, seeder, DashboardConfig{SeedOnRead: true})
		boom := errors.New("db down")

		seeder.On("EnsureDefaults", mock.Anything).Return(filing.SeedResult{}, boom)

		_, err := svc.Load(ctx, DashboardQuery{})

		assert.ErrorIs(t, err, boom)
		d.envelopes.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("query failure is returned", func(t *testing.T) {
		d := newTestDeps()
		svc := newTestDashboard(d, nil, DashboardConfig{})
		boom := errors.New("listing failed")

		d.envelopes.On("List", mock.Anything, mock.Anything).Return(nil, boom)
		d.regions.On("FindAll", mock.Anything).Return([]filing.Region{}, nil).Maybe()
		d.docTypes.On("FindAll", mock.Anything).Return([]filing.DocumentType{}, nil).Maybe()
		d.envelopes.On("DistinctDoorNumbers", mock.Anything).Return([]string{}, nil).Maybe()

		_, err := svc.Load(ctx, DashboardQuery{Q: "x"})

		assert.ErrorIs(t, err, boom)
	})
}
