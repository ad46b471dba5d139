package migration

import (
	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	"github.com/smallbiznis/uemoa-invoicer/internal/seed"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if err := Migrate(conn, cfg.DBType); err != nil {
			return err
		}

		if !cfg.DevFallbackEnabled() {
			return nil
		}
		org, err := seed.EnsureDefaultOrg(conn, cfg.Tenancy.DefaultOrgCode)
		if err != nil {
			return err
		}
		log.Named("migrations").Warn("development fallback organization ready",
			zap.String("org_code", org.OrgCode),
			zap.String("org_id", org.ID.String()),
		)
		return nil
	}),
)

// Migrate picks the migration strategy for the configured dialect.
func Migrate(conn *gorm.DB, dbType string) error {
	if dbType != db.TypePostgres {
		return AutoMigrate(conn)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
