package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// SaveLayoutPreferencesInput is a viewer's customization of the overview rows:
// the widget order per area and the widgets they chose to hide.
type SaveLayoutPreferencesInput struct {
	Viewer        dashboard.ViewerContext `json:"viewer"`
	AreaOrder     map[string][]string     `json:"area_order"`
	HiddenWidgets []string                `json:"hidden_widget_ids"`
}

// Overrides converts the input into the stored form. Blank ids are dropped.
func (in SaveLayoutPreferencesInput) Overrides() (dashboard.LayoutOverrides, error) {
	overrides := dashboard.LayoutOverrides{
		Locale:        in.Viewer.Locale,
		AreaOrder:     make(map[string][]string, len(in.AreaOrder)),
		HiddenWidgets: make(map[string]bool, len(in.HiddenWidgets)),
	}
	for area, ids := range in.AreaOrder {
		if area == "" {
			return dashboard.LayoutOverrides{}, fmt.Errorf("%w: area order without area code", ErrMissingArea)
		}
		order := make([]string, 0, len(ids))
		for _, id := range ids {
			if id != "" {
				order = append(order, id)
			}
		}
		overrides.AreaOrder[area] = order
	}
	for _, id := range in.HiddenWidgets {
		if id != "" {
			overrides.HiddenWidgets[id] = true
		}
	}
	return overrides, nil
}

type preferenceService interface {
	SavePreferences(ctx context.Context, viewer dashboard.ViewerContext, overrides dashboard.LayoutOverrides) error
}

// SaveLayoutPreferencesCommand persists per-viewer layout overrides.
type SaveLayoutPreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

func NewSaveLayoutPreferencesCommand(service preferenceService, telemetry Telemetry) *SaveLayoutPreferencesCommand {
	return &SaveLayoutPreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveLayoutPreferencesInput] = (*SaveLayoutPreferencesCommand)(nil)

func (c *SaveLayoutPreferencesCommand) Execute(ctx context.Context, msg SaveLayoutPreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	if msg.Viewer.UserID == "" {
		return dashboard.ErrMissingViewer
	}
	overrides, err := msg.Overrides()
	if err != nil {
		return err
	}
	ctx = asViewer(ctx, msg.Viewer)
	if err := c.service.SavePreferences(ctx, msg.Viewer, overrides); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.preferences.save", map[string]any{
		"user_id": msg.Viewer.UserID,
		"areas":   len(overrides.AreaOrder),
		"hidden":  len(overrides.HiddenWidgets),
	})
	return nil
}
