package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/clickstream-processor/internal/config"
)

func TestParseLevel(t *testing.T) {
	levels := map[slog.Level][]string{
		slog.LevelDebug: {"debug", "DEBUG"},
		slog.LevelWarn:  {"warn", "Warning", "warning"},
		slog.LevelError: {"error"},
		slog.LevelInfo:  {"info", "INFO", "", "verbose", "trace"},
	}

	for want, inputs := range levels {
		for _, input := range inputs {
			t.Run("level "+input, func(t *testing.T) {
				assert.Equal(t, want, parseLevel(input))
			})
		}
	}
}

func TestNewLogger_HonorsConfiguredLevel(t *testing.T) {
	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "text"})

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.True(t, logger.Enabled(ctx, slog.LevelError))
}

func TestNewLogger_DefaultsToInfo(t *testing.T) {
	logger := NewLogger(&config.Config{LogLevel: "", LogFormat: "json"})

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
}
