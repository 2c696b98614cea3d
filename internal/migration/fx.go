package migration

import (
	"github.com/smallbiznis/carbonledger/internal/config"
	"github.com/smallbiznis/carbonledger/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres deployments (sqlite for local runs) fall back
			// to schema sync since the SQL migrations target postgres.
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.SeedReferenceData {
			return seed.EnsureReferenceData(conn)
		}
		return nil
	}),
)
