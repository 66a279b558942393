package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docfiling/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func text(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.Prefix())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.Prefix())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	folders := NewDomainGroup("folders", "/folders").
		GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "folder "+c.Param("id")) })
	r.Register(folders).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/folders/12")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "folder 12", w.Body.String())
}

func TestRouterMiddlewareSkipsRootRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).
		Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}).
		Root(http.MethodGet, "/health", text("healthy"))
	r.Register(NewDomainGroup("dashboard", "/dashboard").GET("", text("listing")))
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/dashboard").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("regions", "/regions")
		assert.Equal(t, "regions", g.Name())
		assert.Equal(t, "/regions", g.Prefix())
	})

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("regions", "/regions").
			GET("", text("list")).
			POST("", text("create")).
			PUT("/:id", text("rename")).
			PATCH("/:id", text("patch")).
			DELETE("/:id", text("delete"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method, path, body string
		}{
			{http.MethodGet, "/api/v1/regions", "list"},
			{http.MethodPost, "/api/v1/regions", "create"},
			{http.MethodPut, "/api/v1/regions/3", "rename"},
			{http.MethodPatch, "/api/v1/regions/3", "patch"},
			{http.MethodDelete, "/api/v1/regions/3", "delete"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, tt.method)
			assert.Equal(t, tt.body, w.Body.String())
		}
	})

	t.Run("any answers every method", func(t *testing.T) {
		engine := gin.New()
		NewDomainGroup("ajax", "/ajax").
			Any("/bulk-door", func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }).
			RegisterRoutes(engine.Group("/api/v1"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := serve(engine, method, "/api/v1/ajax/bulk-door")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, method, w.Body.String())
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("auth", "/auth").Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.POST("/login", text("ok"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPost, "/api/v1/auth/login")
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("folders", "/folders")
		g.Group("documents", "/:id/documents").
			GET("/:docId/file", func(c *gin.Context) {
				c.String(http.StatusOK, c.Param("id")+"/"+c.Param("docId"))
			})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/folders/4/documents/9/file")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "4/9", w.Body.String())
	})
}

func TestFilingRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Register(FilingRoutes(Handlers{
		Auth:      handler.NewAuthHandler(nil),
		System:    handler.NewSystemHandler(nil, "test", "test"),
		Dashboard: handler.NewDashboardHandler(nil),
		Region:    handler.NewRegionHandler(nil),
		Folder:    handler.NewFolderHandler(nil),
		Ajax:      handler.NewAjaxHandler(nil),
		Audit:     handler.NewAuditHandler(nil),
		Activity:  handler.NewActivityHandler(nil, nil),
	})...)
	r.Setup()

	registered := make(map[RouteInfo]bool)
	for _, route := range r.Routes() {
		registered[route] = true
	}

	expected := []RouteInfo{
		{http.MethodPost, "/api/v1/auth/signup"},
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodPost, "/api/v1/auth/refresh"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/system/info"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/regions"},
		{http.MethodPost, "/api/v1/regions"},
		{http.MethodPut, "/api/v1/regions/:id"},
		{http.MethodDelete, "/api/v1/regions/:id"},
		{http.MethodPost, "/api/v1/folders"},
		{http.MethodGet, "/api/v1/folders/:id"},
		{http.MethodPut, "/api/v1/folders/:id"},
		{http.MethodDelete, "/api/v1/folders/:id"},
		{http.MethodPut, "/api/v1/folders/:id/documents/:docId/file"},
		{http.MethodGet, "/api/v1/folders/:id/documents/:docId/file"},
		{http.MethodGet, "/api/v1/audit-logs"},
		{http.MethodGet, "/api/v1/ws/activity"},
	}
	for _, route := range expected {
		assert.True(t, registered[route], "%s %s", route.Method, route.Path)
	}

	for _, path := range []string{
		"/api/v1/ajax/document-types/add",
		"/api/v1/ajax/document-types/delete",
		"/api/v1/ajax/print-status",
		"/api/v1/ajax/bulk-door",
	} {
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			assert.True(t, registered[RouteInfo{method, path}], "%s %s", method, path)
		}
	}
}

func TestFilingRoutes_WithoutActivityFeed(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Register(FilingRoutes(Handlers{
		Auth:      handler.NewAuthHandler(nil),
		System:    handler.NewSystemHandler(nil, "test", "test"),
		Dashboard: handler.NewDashboardHandler(nil),
		Region:    handler.NewRegionHandler(nil),
		Folder:    handler.NewFolderHandler(nil),
		Ajax:      handler.NewAjaxHandler(nil),
		Audit:     handler.NewAuditHandler(nil),
	})...)
	r.Setup()

	routes := r.Routes()
	require.NotEmpty(t, routes)
	for _, route := range routes {
		assert.NotEqual(t, "/api/v1/ws/activity", route.Path)
	}
}
