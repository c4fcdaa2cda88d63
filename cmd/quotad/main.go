package main

import (
	"github.com/appfit/quotad/internal/config"
	"github.com/appfit/quotad/internal/dayclock"
	"github.com/appfit/quotad/internal/migration"
	"github.com/appfit/quotad/internal/observability/logger"
	"github.com/appfit/quotad/internal/observability/tracing"
	"github.com/appfit/quotad/internal/quota"
	"github.com/appfit/quotad/internal/quota/retention"
	"github.com/appfit/quotad/internal/server"
	"github.com/appfit/quotad/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		tracing.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		dayclock.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			if conn == nil {
				return nil
			}
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),

		quota.Module,
		retention.Module,
		server.Module,
	)
	app.Run()
}
