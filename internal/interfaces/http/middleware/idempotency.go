package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader names the client token of one form submission
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// SubmissionStore holds claimed submission keys until they expire
type SubmissionStore interface {
	// Claim returns false when key is already held
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release drops key
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a POST whose Idempotency-Key was already used by the same
// user on the same route within ttl. Requests without the header pass through.
// A failed request releases its key so the client can resubmit; a store error
// lets the request through.
func Idempotency(store SubmissionStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || token == "" {
			c.Next()
			return
		}
		if len(token) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		key := GetJWTUserID(c) + ":" + c.FullPath() + ":" + token
		claimed, err := store.Claim(c.Request.Context(), key, ttl)
		if err != nil {
			log.Warn("Submission store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeConflict, "This form was already submitted", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(c.Request.Context(), key); err != nil {
				log.Warn("Failed to release submission key", zap.Error(err))
			}
		}
	}
}
