package middleware

import (
	"fmt"
	"net/http"

	"github.com/docfiling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "filing:ratelimit"

// NewRateLimitStore returns a redis-backed store when client is non-nil so that
// limits are shared across instances, and an in-process store otherwise
func NewRateLimitStore(client redis.UniversalClient) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitKeyPrefix}), nil
	}
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitKeyPrefix})
	if err != nil {
		return nil, fmt.Errorf("create redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimit limits requests per client IP. formatted uses the limiter notation,
// e.g. "100-M" for one hundred requests a minute. scope separates the counters of
// independently limited route groups sharing one store.
func RateLimit(store limiter.Store, formatted, scope string, log *zap.Logger) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit %q: %w", formatted, err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return ginlimiter.NewMiddleware(limiter.New(store, rate),
		ginlimiter.WithKeyGetter(func(c *gin.Context) string {
			return scope + ":" + c.ClientIP()
		}),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
		}),
		ginlimiter.WithErrorHandler(func(c *gin.Context, err error) {
			log.Error("Rate limiter store failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal,
				"An unexpected error occurred",
				GetRequestID(c),
			))
		}),
	), nil
}
