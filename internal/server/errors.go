package server

import (
	"errors"
	"net/http"

	obscontext "github.com/appfit/quotad/internal/observability/context"
	"github.com/appfit/quotad/internal/observability/logger"
	"github.com/appfit/quotad/internal/quota/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not_found")
	ErrTooMany      = errors.New("too_many_requests")
)

// AbortWithError maps service errors onto stable JSON error responses.
// Callers never see stack traces or driver errors.
func AbortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
			"code": "unauthorized", "message": "authentication required",
		}})
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code": "not_found", "message": "resource not found",
		}})
	case errors.Is(err, ErrTooMany):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
			"code": "too_many_requests", "message": "slow down and retry shortly",
		}})
	case errors.Is(err, domain.ErrInvalidIdentity):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
			"code": "invalid_identity", "message": "a valid identity is required",
		}})
	case errors.Is(err, domain.ErrLimitReached):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": gin.H{
			"code": "daily_limit_reached", "message": "no messages remaining today",
		}})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{
			"code": "quota_store_unavailable", "message": "quota enforcement is temporarily unavailable",
		}})
	default:
		logger.FromContext(c.Request.Context()).Error("unhandled request error",
			zap.Error(err),
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": gin.H{
			"code": "internal_error", "message": "internal error",
		}})
	}
}
