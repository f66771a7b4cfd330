package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, float64(30), cfg.Solver.TimeoutSeconds)
	assert.Equal(t, 4, cfg.Solver.Workers)
	assert.Equal(t, "logs", cfg.Logging.Dir)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SHIFTGRID_ENVIRONMENT", "production")
	t.Setenv("SHIFTGRID_SOLVER_TIMEOUT_SECONDS", "2.5")
	t.Setenv("SHIFTGRID_SOLVER_WORKERS", "8")
	t.Setenv("SHIFTGRID_LOG_DIR", "/tmp/shiftgrid-logs")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 2.5, cfg.Solver.TimeoutSeconds)
	assert.Equal(t, 8, cfg.Solver.Workers)
	assert.Equal(t, "/tmp/shiftgrid-logs", cfg.Logging.Dir)
}

func TestLoad_InvalidValueFails(t *testing.T) {
	t.Setenv("SHIFTGRID_SOLVER_WORKERS", "many")

	_, err := Load()
	assert.Error(t, err)
}
