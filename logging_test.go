package tide

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardLoggerDiscardsOutput(t *testing.T) {
	logger := discardLogger()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}

func TestDefaultLoggerPrefersProvided(t *testing.T) {
	custom := slog.Default()
	assert.Same(t, custom, defaultLogger(custom))
	assert.NotNil(t, defaultLogger(nil))
}
