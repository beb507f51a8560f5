package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"exiflyzer/internal/config"
	"exiflyzer/internal/logging"
)

func TestInit_Formats(t *testing.T) {
	require.NoError(t, logging.Init(config.LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, logging.L())
	require.NoError(t, logging.Init(config.LogConfig{Level: "not-a-level", Format: "json"}))
	assert.NotNil(t, logging.S())
}

func TestWithRequestID_TagsEntries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logging.Set(zap.New(core))
	t.Cleanup(func() { logging.Set(zap.NewNop()) })

	ctx := logging.WithRequestID(context.Background(), "req-42")
	logging.WithContext(ctx).Info("extracted")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "extracted", entries[0].Message)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestWithContext_FallsBackToGlobal(t *testing.T) {
	logging.Set(zap.NewNop())
	assert.Equal(t, logging.L(), logging.WithContext(context.Background()))
}
