package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/config"
	"github.com/kilimo-labs/sacco/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql development databases are migrated by gorm.
			if err := seed.AutoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureLedgerAccounts(conn, node)
	}),
)
