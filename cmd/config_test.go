package cmd_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispatch/cmd"
	"dispatch/internal/core/application/coordinator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := cmd.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.TCPAddr)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5, cfg.MaxOrdersPerCourier)
	assert.InDelta(t, 50.0, cfg.DefaultCourierCapacity, 1e-9)
	assert.Equal(t, 300*time.Second, cfg.StaleAfter)
	assert.Equal(t, 10*time.Second, cfg.SweepInterval)
	assert.Equal(t, coordinator.RetentionKeep, cfg.Retention)
	assert.Equal(t, "input_data.json", cfg.SeedPath)
	assert.False(t, cfg.SeedCouriers)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.DSN())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("TCP_ADDR", "127.0.0.1:9000")
	t.Setenv("STALE_AFTER", "120")
	t.Setenv("SWEEP_INTERVAL", "2s")
	t.Setenv("COURIER_RETENTION", "mark-offline")
	t.Setenv("SEED_COURIERS", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "dispatch")

	cfg, err := cmd.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.TCPAddr)
	assert.Equal(t, 120*time.Second, cfg.StaleAfter)
	assert.Equal(t, 2*time.Second, cfg.SweepInterval)
	assert.Equal(t, coordinator.RetentionMarkOffline, cfg.Retention)
	assert.True(t, cfg.SeedCouriers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=dispatch sslmode=disable", cfg.DSN())
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=9090\nMAX_ORDERS_PER_COURIER=3\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("HTTP_PORT")
		_ = os.Unsetenv("MAX_ORDERS_PER_COURIER")
	})

	cfg, err := cmd.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 3, cfg.MaxOrdersPerCourier)
}

func TestLoadConfig_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "absent.env"))

	require.NoError(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("MAX_ORDERS_PER_COURIER", "many")
	t.Setenv("STALE_AFTER", "soon")
	t.Setenv("COURIER_RETENTION", "forget")

	_, err := cmd.LoadConfig("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ORDERS_PER_COURIER")
	assert.Contains(t, err.Error(), "STALE_AFTER")
	assert.Contains(t, err.Error(), "COURIER_RETENTION")
}
