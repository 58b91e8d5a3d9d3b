package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ticketops/cardvault/internal/httputil"
)

// operatorHeader carries the identity of the calling back-office operator.
// Requests without it are rejected; there is no anonymous access to card data.
const operatorHeader = "X-Operator-Id"

// RequestLogger logs HTTP requests with timing and request id.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}

// OperatorMiddleware requires the operator header and stores its value as
// the account id for downstream handlers. Ephemeral keys are bound to this
// id: a key issued to one operator cannot be claimed by another.
func OperatorMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.GetHeader(operatorHeader)
		if operatorID == "" {
			logger.Warn("request without operator id",
				slog.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.ErrorResponse{
				Error:   "unauthorized",
				Message: "missing " + operatorHeader + " header",
			})
			return
		}

		c.Set(httputil.AccountIDKey, operatorID)
		c.Next()
	}
}

// RateLimitMiddleware applies a per-operator token bucket. Limiters are kept
// for the life of the process; the operator population is small and bounded.
func RateLimitMiddleware(requestsPerSec float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(operatorID string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		limiter, ok := limiters[operatorID]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(requestsPerSec), burst)
			limiters[operatorID] = limiter
		}
		return limiter
	}

	return func(c *gin.Context) {
		operatorID := httputil.AccountID(c)

		if !limiterFor(operatorID).Allow() {
			logger.Warn("rate limit exceeded",
				slog.String("operator_id", operatorID),
				slog.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limited",
				Message: "too many requests",
			})
			return
		}

		c.Next()
	}
}
