package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"laundry-service-backend/config"
	"laundry-service-backend/internal/logger"
	"laundry-service-backend/internal/model"
)

// Init opens the configured database, applies pool settings and runs
// migrations.
func Init(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(log, cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("running database migrations", zap.String("driver", cfg.Driver))
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.AuditGuard {
		if db.Dialector.Name() != "postgres" {
			log.Warn("audit_guard is only supported on postgres; skipping", zap.String("driver", cfg.Driver))
		} else if err := applyAuditGuardDDL(db); err != nil {
			return nil, err
		}
	}

	log.Info("database initialization complete")
	return db, nil
}

// GormConfig is shared by Init and the test helpers. TranslateError makes
// unique violations surface as gorm.ErrDuplicatedKey.
func GormConfig(log *zap.Logger, level string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(log, level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// applyAuditGuardDDL makes laundry_logs append-only at the database level.
func applyAuditGuardDDL(db *gorm.DB) error {
	ddls := []string{
		`CREATE OR REPLACE FUNCTION laundry_logs_append_only() RETURNS trigger AS $$
BEGIN
	RAISE EXCEPTION 'laundry_logs is append-only';
END;
$$ LANGUAGE plpgsql;`,

		"DROP TRIGGER IF EXISTS laundry_logs_no_update ON laundry_logs;",
		"CREATE TRIGGER laundry_logs_no_update BEFORE UPDATE OR DELETE ON laundry_logs " +
			"FOR EACH ROW EXECUTE FUNCTION laundry_logs_append_only();",

		"CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders (customer_id, created_at DESC);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
