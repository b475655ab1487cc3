package db

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"laundry-service-backend/config"
	"laundry-service-backend/internal/model"
)

func sqliteConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}
}

func TestInit_SQLite(t *testing.T) {
	gormDB, err := Init(sqliteConfig(), zap.NewNop())
	require.NoError(t, err)

	for _, m := range model.All() {
		assert.True(t, gormDB.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.True(t, gormDB.Migrator().HasIndex(&model.Feedback{}, "idx_feedback_customer_order"))
	assert.True(t, gormDB.Migrator().HasColumn(&model.Order{}, "version"))
}

func TestInit_AuditGuardSkippedOnSQLite(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := sqliteConfig()
	cfg.AuditGuard = true

	_, err := Init(cfg, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len())
}

func TestInit_UnsupportedDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "mysql"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}
