package dashboard

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function into Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record calls f.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	f(ctx, event, payload)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LoggerTelemetry writes telemetry events as structured zerolog entries.
type LoggerTelemetry struct {
	logger zerolog.Logger
}

// NewLoggerTelemetry wraps a zerolog logger.
func NewLoggerTelemetry(logger zerolog.Logger) *LoggerTelemetry {
	return &LoggerTelemetry{logger: logger.With().Str("component", "dashboard").Logger()}
}

// Record logs the event. Provider and activity errors are logged at warn level.
func (t *LoggerTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	entry := t.logger.Debug()
	if _, failed := payload["error"]; failed {
		entry = t.logger.Warn()
	}
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		entry = entry.Interface(key, payload[key])
	}
	entry.Str("event", event).Msg("dashboard telemetry")
}
