package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	store, err := NewRateLimitStore(nil)
	require.NoError(t, err)
	limit, err := RateLimit(store, "2-M", "api", zaptest.NewLogger(t))
	require.NoError(t, err)

	router := gin.New()
	router.Use(limit)
	router.GET("/test", ok)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, do().Code)

	blocked := do()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, decodeError(t, blocked).Code)
}

func TestRateLimit_ScopesAreIndependent(t *testing.T) {
	store, err := NewRateLimitStore(nil)
	require.NoError(t, err)
	authLimit, err := RateLimit(store, "1-M", "auth", nil)
	require.NoError(t, err)
	apiLimit, err := RateLimit(store, "1-M", "api", nil)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/auth", authLimit, ok)
	router.GET("/api", apiLimit, ok)

	for _, path := range []string{"/auth", "/api"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRateLimit_InvalidFormat(t *testing.T) {
	store, err := NewRateLimitStore(nil)
	require.NoError(t, err)

	_, err = RateLimit(store, "lots", "api", nil)
	assert.Error(t, err)
}
