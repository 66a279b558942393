package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	filingapp "github.com/docfiling/backend/internal/application/filing"
	"github.com/docfiling/backend/internal/infrastructure/auth"
	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/docfiling/backend/internal/infrastructure/storage"
	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// filingEnv wires the filing handlers over an in-memory sqlite database
type filingEnv struct {
	engine  *gin.Engine
	db      *gorm.DB
	storage *storage.StubObjectStorage
	userID  uuid.UUID
}

func openTestDatabase(t *testing.T) *persistence.Database {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.AutoMigrate(context.Background()))
	return database
}

func newFilingEnv(t *testing.T) *filingEnv {
	t.Helper()
	database := openTestDatabase(t)
	db := database.DB
	log := zap.NewNop()

	regions := persistence.NewGormRegionRepository(db)
	envelopes := persistence.NewGormEnvelopeRepository(db)
	docTypes := persistence.NewGormDocumentTypeRepository(db)
	audits := persistence.NewGormAuditRepository(db)
	txScope := persistence.NewGormTransactionScope(db)
	recorder := filingapp.NewRecorder(log)
	stub := storage.NewStubObjectStorage()

	regionSvc := filingapp.NewRegionService(regions, txScope, recorder, stub, log)
	folderSvc := filingapp.NewFolderService(envelopes, txScope, recorder, stub, log)
	bulkSvc := filingapp.NewBulkService(txScope, recorder, log)
	dashboardSvc := filingapp.NewDashboardService(regions, envelopes, docTypes, audits,
		persistence.NewSeeder(db, log),
		filingapp.DashboardConfig{SeedOnRead: true, RecentActivityLimit: 10}, log)
	auditSvc := filingapp.NewAuditService(audits)

	env := &filingEnv{db: db, storage: stub, userID: uuid.New()}

	engine := gin.New()
	engine.Use(middleware.RequestID(), env.authenticate)
	api := engine.Group("/api/v1")

	dashboard := NewDashboardHandler(dashboardSvc)
	api.GET("/dashboard", dashboard.Get)

	region := NewRegionHandler(regionSvc)
	api.GET("/regions", region.List)
	api.POST("/regions", region.Create)
	api.PUT("/regions/:id", region.Rename)
	api.DELETE("/regions/:id", region.Delete)

	folder := NewFolderHandler(folderSvc)
	api.POST("/folders", folder.Create)
	api.GET("/folders/:id", folder.Get)
	api.PUT("/folders/:id", folder.Update)
	api.DELETE("/folders/:id", folder.Delete)
	api.PUT("/folders/:id/documents/:docId/file", folder.UploadDocumentFile)
	api.GET("/folders/:id/documents/:docId/file", folder.DocumentFileURL)

	ajax := NewAjaxHandler(bulkSvc)
	api.Any("/ajax/document-types/add", ajax.AddDocumentType)
	api.Any("/ajax/document-types/delete", ajax.DeleteDocumentType)
	api.Any("/ajax/print-status", ajax.UpdatePrintStatus)
	api.Any("/ajax/bulk-door", ajax.BulkUpdateDoor)

	api.GET("/audit-logs", NewAuditHandler(auditSvc).Recent)

	env.engine = engine
	return env
}

// authenticate stands in for the JWT middleware. Requests carrying
// X-Anonymous stay unauthenticated.
func (e *filingEnv) authenticate(c *gin.Context) {
	if c.GetHeader("X-Anonymous") != "" {
		return
	}
	c.Set(middleware.JWTClaimsKey, &auth.Claims{
		UserID:      e.userID.String(),
		Username:    "mclerk",
		DisplayName: "Maria Clerk",
		TokenType:   auth.TokenTypeAccess,
	})
	c.Set(middleware.JWTUserIDKey, e.userID.String())
}

func (e *filingEnv) do(req *http.Request) *httptest.ResponseRecorder {
	return serve(e.engine, req)
}

func (e *filingEnv) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	return serve(e.engine, jsonRequest(method, path, body))
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *filingEnv) doForm(method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// createRegion creates a region through the API and returns its id
func (e *filingEnv) createRegion(t *testing.T, name string) uint {
	t.Helper()
	rec := e.doJSON(http.MethodPost, "/api/v1/regions", map[string]string{"name": name})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, rec.Code, rec.Body.String())
	var region filingapp.RegionResult
	decodeData(t, rec, &region)
	return region.ID
}

// createFolder files a folder through the JSON API
func (e *filingEnv) createFolder(t *testing.T, body dto.FolderRequest) filingapp.FolderResponse {
	t.Helper()
	rec := e.doJSON(http.MethodPost, "/api/v1/folders", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var folder filingapp.FolderResponse
	decodeData(t, rec, &folder)
	return folder
}

// decodeData unwraps the data field of a success envelope into out
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) *dto.Meta {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    *dto.Meta       `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.True(t, resp.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
	return resp.Meta
}

// decodeError returns the error of a failure envelope
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

// decodeAjax decodes an AJAX body
func decodeAjax(t *testing.T, rec *httptest.ResponseRecorder) (AjaxResponse, json.RawMessage) {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		AjaxResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.AjaxResponse, resp.Data
}
