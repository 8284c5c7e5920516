package commands

import (
	"context"

	dashboard "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// Telemetry allows commands to emit structured events. It is the dashboard
// Telemetry so a single sink (for example LoggerTelemetry) serves both layers.
type Telemetry = dashboard.Telemetry

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
