package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Build.AllowRebuild)
	assert.Equal(t, 1e-9, cfg.Build.SlopeTolerance)
	assert.Equal(t, "volta", cfg.Metrics.Namespace)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BUILD_ALLOW_REBUILD", "true")
	t.Setenv("BUILD_SLOPE_TOLERANCE", "1e-6")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Build.AllowRebuild)
	assert.Equal(t, 1e-6, cfg.Build.SlopeTolerance)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}
