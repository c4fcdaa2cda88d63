package retention

import (
	"context"

	"github.com/appfit/quotad/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("quota.retention",
	fx.Provide(func(cfg config.Config) Config {
		return Config{
			KeepDays:     cfg.Retention.KeepDays,
			BatchSize:    cfg.Retention.BatchSize,
			PollInterval: cfg.Retention.PollInterval,
		}
	}),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker, cfg config.Config) {
	if !cfg.Retention.Enabled {
		return
	}
	// The loop outlives the start phase, so it cannot run on the
	// OnStart context; that one is cancelled as soon as startup
	// completes.
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
