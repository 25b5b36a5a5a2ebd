package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/config"
)

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	log.Info().Str("file", "nov.csv").Msg("import complete")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "nov.csv", entry["file"])
	require.Equal(t, "import complete", entry["message"])
	require.Contains(t, entry, "time")
}

func TestNewLevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	log.Info().Msg("hidden")
	require.Zero(t, buf.Len())
	log.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	ctx := WithContext(context.Background(), log)
	l := FromContext(ctx)
	l.Info().Msg("from ctx")
	require.Contains(t, buf.String(), "from ctx")

	// missing logger falls back to a no-op logger
	l = FromContext(context.Background())
	l.Info().Msg("dropped")
}
