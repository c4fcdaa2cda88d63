// Package retention prunes counter rows whose day has long passed.
// Superseded rows are never read as current state, so this is purely a
// storage-hygiene loop.
package retention

import (
	"context"
	"errors"
	"time"

	"github.com/appfit/quotad/internal/dayclock"
	"github.com/appfit/quotad/internal/observability/metrics"
	"github.com/appfit/quotad/internal/quota/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Store  domain.CounterStore
	Clock  dayclock.Clock
	Log    *zap.Logger
	Config Config `optional:"true"`
}

type Worker struct {
	store domain.PrunableStore
	clock dayclock.Clock
	log   *zap.Logger
	cfg   Config
}

func NewWorker(p Params) *Worker {
	cfg := p.Config.withDefaults()
	// Only relational-style stores keep historical rows around.
	prunable, _ := p.Store.(domain.PrunableStore)
	return &Worker{
		store: prunable,
		clock: p.Clock,
		log:   p.Log.Named("quota.retention"),
		cfg:   cfg,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.log.Warn("retention run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) RunOnce(ctx context.Context) error {
	if w.store == nil || w.clock == nil {
		return errors.New("retention_worker_unavailable")
	}

	cutoff := w.clock.Now().AddDate(0, 0, -w.cfg.KeepDays).Format(dayclock.DayKeyLayout)
	for {
		deleted, err := w.store.DeleteBefore(ctx, cutoff, w.cfg.BatchSize)
		if err != nil {
			metrics.Quota().ObserveStoreError("prune")
			return err
		}
		metrics.Quota().ObservePruned(deleted)
		if deleted > 0 {
			w.log.Info("pruned stale counters",
				zap.String("cutoff", cutoff),
				zap.Int64("deleted", deleted))
		}
		if deleted < int64(w.cfg.BatchSize) {
			return nil
		}
	}
}
