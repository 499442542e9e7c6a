package logctx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromContextNilContext(t *testing.T) {
	// FromContext(nil) falls back to the default logger, no panic
	logger := FromContext(nil)

	var buf bytes.Buffer
	testLogger := logger.Output(&buf)
	testLogger.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("expected logger to produce output")
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	logger := FromContext(context.Background())

	var buf bytes.Buffer
	testLogger := logger.Output(&buf)
	testLogger.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("expected logger to produce output")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	customLogger := zerolog.New(&buf).With().Str("custom", "field").Logger()

	ctx := WithLogger(context.Background(), customLogger)
	logger := FromContext(ctx)
	logger.Info().Msg("test")

	if !strings.Contains(buf.String(), `"custom":"field"`) {
		t.Errorf("expected custom field in output, got: %s", buf.String())
	}
}

func TestWithLoggerNilContext(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithLogger(nil, zerolog.New(&buf))
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}

	logger := FromContext(ctx)
	logger.Info().Msg("test")
	if buf.Len() == 0 {
		t.Error("expected logger to produce output")
	}
}

func TestWithStr(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	ctx = WithStr(ctx, "source", "sellers.json")
	logger := FromContext(ctx)
	logger.Info().Msg("test")

	if !strings.Contains(buf.String(), `"source":"sellers.json"`) {
		t.Errorf("expected source field in output, got: %s", buf.String())
	}
}
