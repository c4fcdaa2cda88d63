// Package server exposes the quota facade over HTTP for the chat
// submission pipeline and the quota display widget.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/appfit/quotad/internal/config"
	"github.com/appfit/quotad/internal/observability/logger"
	"github.com/appfit/quotad/internal/observability/metrics"
	"github.com/appfit/quotad/internal/observability/tracing"
	quotadomain "github.com/appfit/quotad/internal/quota/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	QuotaSvc quotadomain.Service
}

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	quotaSvc quotadomain.Service
	burst    *burstLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:      p.Config,
		log:      p.Log.Named("server"),
		quotaSvc: p.QuotaSvc,
		burst:    newBurstLimiter(p.Config.Burst.Limit, p.Config.Burst.Window),
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware("quotad"))
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Logger:    log,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(metrics.HTTPWithConfig(metrics.Config{
		ServiceName: "quotad",
		Environment: cfg.Environment,
	})))
	return engine
}

// RegisterAPIRoutes mounts the quota API.
func (s *Server) RegisterAPIRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := engine.Group("/v1", s.IdentityRequired(), s.BurstLimit())
	v1.GET("/quota", s.GetQuota)
	v1.POST("/quota/consume", s.ConsumeQuota)
}

// BurstLimit rejects request floods per identity before they hit the
// counter store.
func (s *Server) BurstLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !s.burst.Allow(identity) {
			kind, _ := IdentityKindFromContext(c.Request.Context())
			s.log.Warn("burst limit exceeded",
				zap.String("identity", logger.MaskIdentity(identity)),
				zap.String("kind", kind))
			AbortWithError(c, ErrTooMany)
			return
		}
		c.Next()
	}
}

// @Summary      Health
// @Description  Liveness probe
// @Tags         internal
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server, engine *gin.Engine) {
		s.RegisterAPIRoutes(engine)
	}),
	fx.Invoke(RunHTTP),
)
