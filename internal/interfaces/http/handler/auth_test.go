package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docfiling/backend/internal/application/identity"
	"github.com/docfiling/backend/internal/infrastructure/auth"
	"github.com/docfiling/backend/internal/infrastructure/config"
	"github.com/docfiling/backend/internal/infrastructure/persistence"
	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/docfiling/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authEnv struct {
	engine *gin.Engine
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	database := openTestDatabase(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "docfiling-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := identity.NewAuthService(persistence.NewGormUserRepository(database.DB), jwtService, blacklist, nil)
	h := NewAuthHandler(svc)

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	group := engine.Group("/api/v1/auth")
	group.POST("/signup", h.Signup)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.RefreshToken)
	group.POST("/logout", h.Logout)
	group.GET("/me", h.GetCurrentUser)

	return &authEnv{engine: engine}
}

func (e *authEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	req := jsonRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(e.engine, req)
}

func (e *authEnv) signup(t *testing.T) LoginResponse {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{
		Username:    "MClerk",
		Password:    "correct-horse-9",
		DisplayName: "Maria Clerk",
		Department:  "Records",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp LoginResponse
	decodeData(t, rec, &resp)
	return resp
}

func TestAuthHandler_SignupAndMe(t *testing.T) {
	env := newAuthEnv(t)
	signed := env.signup(t)

	assert.Equal(t, "mclerk", signed.User.Username)
	assert.Equal(t, "Bearer", signed.Token.TokenType)
	assert.NotEmpty(t, signed.Token.AccessToken)

	rec := env.do(http.MethodGet, "/api/v1/auth/me", signed.Token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me AuthUserResponse
	decodeData(t, rec, &me)
	assert.Equal(t, signed.User.ID, me.ID)
	assert.Equal(t, "Maria Clerk", me.DisplayName)
	assert.Equal(t, "Records", me.Department)
}

func TestAuthHandler_SignupRejects(t *testing.T) {
	env := newAuthEnv(t)
	env.signup(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{Username: "mclerk", Password: "another-pass-2"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeAlreadyExists, decodeError(t, rec).Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/signup", "", SignupRequest{Username: "shorty", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	info := decodeError(t, rec)
	assert.Equal(t, dto.ErrCodeValidation, info.Code)
	require.NotEmpty(t, info.Details)
	assert.Equal(t, "password", info.Details[0].Field)
}

func TestAuthHandler_Login(t *testing.T) {
	env := newAuthEnv(t)
	env.signup(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "mclerk", Password: "correct-horse-9"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	decodeData(t, rec, &resp)
	assert.NotEmpty(t, resp.Token.RefreshToken)

	rec = env.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "mclerk", Password: "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeError(t, rec).Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "nobody", Password: "whatever1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := newAuthEnv(t)
	signed := env.signup(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/refresh", "", RefreshTokenRequest{RefreshToken: signed.Token.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp RefreshTokenResponse
	decodeData(t, rec, &resp)
	assert.NotEqual(t, signed.Token.AccessToken, resp.Token.AccessToken)

	rec = env.do(http.MethodPost, "/api/v1/auth/refresh", "", RefreshTokenRequest{RefreshToken: signed.Token.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_LogoutRevokesToken(t *testing.T) {
	env := newAuthEnv(t)
	signed := env.signup(t)
	token := signed.Token.AccessToken

	rec := env.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, rec).Code)
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := newAuthEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, rec).Code)
}
