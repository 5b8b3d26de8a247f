package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "prepsom", "production", "debug")
	ctx := IntoContext(context.Background(), logger)

	got := FromContext(ctx)
	got.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "app=prepsom")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "prepsom", "production", "warn")
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(nil)
	logger.Info().Msg("dropped")
	bgLogger := FromContext(context.Background())
	bgLogger.Info().Msg("dropped")
}
