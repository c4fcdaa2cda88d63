package tracing

import (
	"github.com/appfit/quotad/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params collects tracing module dependencies.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Logger    *zap.Logger
}

// Module installs the global tracer provider at startup. Invoked, not
// provided: nothing consumes the provider directly, spans reach it
// through the otel globals.
var Module = fx.Module("tracing",
	fx.Invoke(func(p Params) error {
		_, err := NewProvider(p.Lifecycle, Config{
			Enabled:        p.Config.Tracing.Enabled,
			ServiceName:    "quotad",
			ServiceVersion: "dev",
			Environment:    p.Config.Environment,
			Endpoint:       p.Config.Tracing.Endpoint,
			Protocol:       p.Config.Tracing.Protocol,
			SamplingRatio:  p.Config.Tracing.SamplingRatio,
		}, p.Logger.Named("tracing"))
		return err
	}),
)
