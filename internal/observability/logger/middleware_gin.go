package logger

import (
	"time"

	obscontext "github.com/appfit/quotad/internal/observability/context"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// MiddlewareConfig tunes the request logging middleware.
type MiddlewareConfig struct {
	// Logger defaults to the global logger.
	Logger *zap.Logger
	// GenID issues request ids. A node is created when unset.
	GenID *snowflake.Node
	// SkipPaths are logged at debug instead of info (health probes).
	SkipPaths []string
}

// GinMiddleware assigns a request id and emits one structured entry per
// request with masked headers.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	genID := cfg.GenID
	if genID == nil {
		node, err := snowflake.NewNode(0)
		if err == nil {
			genID = node
		}
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" && genID != nil {
			requestID = genID.Generate().String()
		}
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Set("request_id", requestID)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		entry := log
		if entry == nil {
			entry = FromContext(c.Request.Context())
		}
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= 500 {
			fields = append(fields, zap.Any("request", SafeFieldsFromRequest(c.Request)))
		}

		if _, quiet := skip[c.Request.URL.Path]; quiet {
			entry.Debug("http request", fields...)
			return
		}
		entry.Info("http request", fields...)
	}
}
