package quota

import (
	"fmt"

	"github.com/appfit/quotad/internal/config"
	"github.com/appfit/quotad/internal/events"
	"github.com/appfit/quotad/internal/quota/domain"
	"github.com/appfit/quotad/internal/quota/service"
	"github.com/appfit/quotad/internal/quota/store"
	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type storeParams struct {
	fx.In

	Config config.Config
	DB     *gorm.DB      `optional:"true"`
	Redis  *redis.Client `optional:"true"`
}

func provideStore(p storeParams) (domain.CounterStore, error) {
	switch p.Config.Quota.Backend {
	case config.BackendPostgres:
		if p.DB == nil {
			return nil, fmt.Errorf("postgres backend selected but no database configured")
		}
		return store.NewGormStore(p.DB), nil
	case config.BackendRedis:
		if p.Redis == nil {
			return nil, fmt.Errorf("redis backend selected but no redis configured")
		}
		return store.NewRedisStore(p.Redis), nil
	default:
		// Device-style deployments can persist counters to a local
		// file so restarts keep the current day's counts.
		if path := p.Config.Quota.ClientStatePath; path != "" {
			return store.NewFileStore(path), nil
		}
		return store.NewMemoryStore(), nil
	}
}

type outboxParams struct {
	fx.In

	Config config.Config
	DB     *gorm.DB `optional:"true"`
	GenID  *snowflake.Node
}

func provideOutbox(p outboxParams) *events.Outbox {
	// The audit trail needs the relational store; without it decisions
	// are enforced but not recorded.
	if p.Config.Quota.Backend != config.BackendPostgres || p.DB == nil {
		return nil
	}
	return events.NewOutbox(p.DB, p.GenID)
}

var Module = fx.Module("quota.service",
	fx.Provide(provideStore),
	fx.Provide(provideOutbox),
	fx.Provide(
		fx.Annotate(func(cfg config.Config) int { return cfg.Quota.DailyLimit },
			fx.ResultTags(`name:"daily_limit"`)),
		fx.Annotate(func(cfg config.Config) bool { return cfg.Quota.FailClosed },
			fx.ResultTags(`name:"fail_closed"`)),
	),
	fx.Provide(service.NewService),
)
