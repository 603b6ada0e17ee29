package cli

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, err := SetupLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.Equal(t, "app", logger.Component())

	_, err = SetupLogger("loud")
	assert.Error(t, err)
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("FINTRACK_CONFIG", "")
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "memory")
	for _, key := range []string{"PAGE_SIZE", "TREND_WINDOW", "LOG_LEVEL", "AMQP_URL", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)

	t.Setenv("PAGE_SIZE", "500")
	_, err = LoadAndValidateConfig()
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestShutdownContextFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := ShutdownContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
