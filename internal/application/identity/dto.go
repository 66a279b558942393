package identity

import (
	"time"

	"github.com/docfiling/backend/internal/domain/identity"
	"github.com/docfiling/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// SignupInput contains the input for registering a user
type SignupInput struct {
	Username    string
	Password    string
	DisplayName string
	Department  string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// TokenResult is an issued token pair
type TokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LoginResult contains the result of a successful login or signup
type LoginResult struct {
	TokenResult
	User UserInfo
}

// UserInfo contains the public profile of a user
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Department  string
	CreatedAt   time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration // remaining lifetime of the token
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.GetDisplayNameOrUsername(),
		Department:  u.Department,
		CreatedAt:   u.CreatedAt,
	}
}

func toTokenResult(p *auth.TokenPair) *TokenResult {
	return &TokenResult{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}
