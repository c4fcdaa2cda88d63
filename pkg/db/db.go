// Package db provides the database and redis connections for the
// service. Both are optional: deployments without a DSN or redis addr
// run on the in-memory or file-backed counter store.
package db

import (
	"github.com/appfit/quotad/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to Postgres when a DSN is configured. Returns nil with
// no error otherwise; consumers nil-check.
func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		return nil, nil
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	conn, err := gorm.Open(postgres.Open(cfg.Database.DSN), gormCfg)
	if err != nil {
		return nil, err
	}
	log.Info("database connected")
	return conn, nil
}

// OpenRedis connects to redis when an address is configured. Returns
// nil otherwise.
func OpenRedis(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Provide(OpenRedis),
)
