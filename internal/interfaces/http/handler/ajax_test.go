package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAjaxHandler_RejectsNonPost(t *testing.T) {
	env := newFilingEnv(t)
	for _, path := range []string{
		"/api/v1/ajax/document-types/add",
		"/api/v1/ajax/document-types/delete",
		"/api/v1/ajax/print-status",
		"/api/v1/ajax/bulk-door",
	} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			resp, _ := decodeAjax(t, env.doJSON(method, path, nil))
			assert.False(t, resp.Success, method+" "+path)
			assert.Equal(t, "Method not allowed", resp.Error)
		}
	}
}

func TestAjaxHandler_DocumentTypes(t *testing.T) {
	env := newFilingEnv(t)

	resp, data := decodeAjax(t, env.doForm(http.MethodPost, "/api/v1/ajax/document-types/add", url.Values{"name": {"deed of sale"}}))
	require.True(t, resp.Success, resp.Error)
	var added filingapp.DocumentTypeResult
	require.NoError(t, json.Unmarshal(data, &added))
	assert.Equal(t, "DEED OF SALE", added.Name)
	assert.True(t, added.Created)

	resp, data = decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/document-types/add", map[string]string{"name": "Deed of Sale"}))
	require.True(t, resp.Success)
	var again filingapp.DocumentTypeResult
	require.NoError(t, json.Unmarshal(data, &again))
	assert.False(t, again.Created)
	assert.Equal(t, added.ID, again.ID)

	resp, _ = decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/document-types/add", map[string]string{"name": " "}))
	assert.False(t, resp.Success)

	resp, _ = decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/document-types/delete", map[string]uint{"id": added.ID}))
	assert.True(t, resp.Success, resp.Error)

	resp, _ = decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/document-types/delete", map[string]uint{"id": added.ID}))
	assert.False(t, resp.Success)
	assert.Equal(t, "Document type not found", resp.Error)

	resp, _ = decodeAjax(t, env.doForm(http.MethodPost, "/api/v1/ajax/document-types/delete", url.Values{}))
	assert.False(t, resp.Success)
	assert.Equal(t, "Missing document type id", resp.Error)
}

func TestAjaxHandler_UpdatePrintStatus(t *testing.T) {
	env := newFilingEnv(t)
	regionID := env.createRegion(t, "Region 1")
	a := env.createFolder(t, dto.FolderRequest{RegionID: regionID, Title: "A"})
	b := env.createFolder(t, dto.FolderRequest{RegionID: regionID, Title: "B"})

	t.Run("single folder by form", func(t *testing.T) {
		resp, data := decodeAjax(t, env.doForm(http.MethodPost, "/api/v1/ajax/print-status", url.Values{
			"ids[]":  {strconv.FormatUint(uint64(a.ID), 10)},
			"status": {"true"},
		}))
		require.True(t, resp.Success, resp.Error)
		var result filingapp.PrintStatusResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, int64(1), result.Updated)
		assert.Equal(t, "Marked 'A' as Printed", result.Message)
	})

	t.Run("several folders by JSON", func(t *testing.T) {
		resp, data := decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/print-status", map[string]any{
			"ids":    []uint{a.ID, b.ID},
			"status": false,
		}))
		require.True(t, resp.Success, resp.Error)
		var result filingapp.PrintStatusResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, int64(2), result.Updated)
		assert.Equal(t, "Marked 2 folders as Not Printed", result.Message)
	})

	t.Run("no ids", func(t *testing.T) {
		resp, _ := decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/print-status", map[string]any{"status": true}))
		assert.False(t, resp.Success)
	})

	t.Run("non-numeric ids", func(t *testing.T) {
		resp, _ := decodeAjax(t, env.doForm(http.MethodPost, "/api/v1/ajax/print-status", url.Values{"ids[]": {"x"}}))
		assert.False(t, resp.Success)
	})

	t.Run("unknown single id", func(t *testing.T) {
		resp, _ := decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/print-status", map[string]any{"ids": []uint{9999}, "status": true}))
		assert.False(t, resp.Success)
		assert.Equal(t, "Folder not found", resp.Error)
	})
}

func TestAjaxHandler_BulkUpdateDoor(t *testing.T) {
	env := newFilingEnv(t)
	regionID := env.createRegion(t, "Region 1")
	env.createFolder(t, dto.FolderRequest{RegionID: regionID, Title: "A", Metas: []dto.MetaLineRequest{
		{DoorNumber: "12-A"}, {SalesName: "Ana"},
	}})
	env.createFolder(t, dto.FolderRequest{RegionID: regionID, Title: "B", Metas: []dto.MetaLineRequest{
		{DoorNumber: "12-A"}, {DoorNumber: "7"},
	}})

	resp, data := decodeAjax(t, env.doJSON(http.MethodPost, "/api/v1/ajax/bulk-door", BulkDoorRequest{OldDoor: "12-A", NewDoor: "12-B"}))
	require.True(t, resp.Success, resp.Error)
	var result filingapp.DoorUpdateResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, int64(2), result.Updated)

	resp, data = decodeAjax(t, env.doForm(http.MethodPost, "/api/v1/ajax/bulk-door", url.Values{
		"old_door": {filing.EmptyDoorSentinel},
		"new_door": {"1"},
	}))
	require.True(t, resp.Success, resp.Error)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, int64(1), result.Updated)

	var doors []string
	require.NoError(t, env.db.Table("envelope_metas").Order("door_number").Pluck("door_number", &doors).Error)
	assert.Equal(t, []string{"1", "12-B", "12-B", "7"}, doors)
}
