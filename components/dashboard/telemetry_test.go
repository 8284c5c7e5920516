package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerTelemetryLevels(t *testing.T) {
	var buf bytes.Buffer
	telemetry := NewLoggerTelemetry(zerolog.New(&buf).Level(zerolog.DebugLevel))

	telemetry.Record(context.Background(), "dashboard.widget.add", map[string]any{"area": AreaPipeline})
	telemetry.Record(context.Background(), "dashboard.provider.error", map[string]any{"error": "boom"})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "debug", first["level"])
	assert.Equal(t, "dashboard", first["component"])
	assert.Equal(t, "dashboard.widget.add", first["event"])
	assert.Equal(t, AreaPipeline, first["area"])
	assert.Equal(t, "warn", second["level"])
	assert.Equal(t, "boom", second["error"])
}

func TestTelemetryFuncAndNormalize(t *testing.T) {
	var got string
	fn := TelemetryFunc(func(_ context.Context, event string, _ map[string]any) { got = event })
	normalizeTelemetry(fn).Record(context.Background(), "dashboard.seed", nil)
	assert.Equal(t, "dashboard.seed", got)

	assert.NotPanics(t, func() {
		normalizeTelemetry(nil).Record(context.Background(), "dashboard.seed", nil)
	})
}
