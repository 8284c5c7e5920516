package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// SeedDashboardInput controls bootstrap. With a manifest, its areas are
// stored too and its layout placements replace the built-in seed widgets.
type SeedDashboardInput struct {
	SeedLayout bool
	Manifest   *dashboard.WidgetManifestDocument
}

// SeedDashboardCommand prepares an empty store for the leads overview page.
type SeedDashboardCommand struct {
	store     dashboard.WidgetStore
	registry  dashboard.ProviderRegistry
	service   *dashboard.Service
	telemetry Telemetry
}

func NewSeedDashboardCommand(store dashboard.WidgetStore, registry dashboard.ProviderRegistry, service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		store:     store,
		registry:  registry,
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.store == nil {
		return errors.New("seed command requires widget store")
	}
	manifest := msg.Manifest
	if manifest != nil {
		if err := manifest.Validate(); err != nil {
			return err
		}
	}
	if err := dashboard.RegisterAreas(ctx, c.store); err != nil {
		return err
	}
	if manifest != nil {
		for _, area := range manifest.Areas {
			if _, err := c.store.EnsureArea(ctx, area); err != nil {
				return fmt.Errorf("register manifest area %s: %w", area.Code, err)
			}
		}
	}
	if err := dashboard.RegisterDefinitions(ctx, c.store, c.registry); err != nil {
		return err
	}

	placed := 0
	if msg.SeedLayout && c.service != nil {
		placements := dashboard.DefaultSeedWidgets()
		if manifest != nil && len(manifest.Layout) > 0 {
			placements = manifest.SeedRequests()
		}
		var errs error
		for _, req := range placements {
			if err := c.service.AddWidget(ctx, req); err != nil {
				errs = errors.Join(errs, fmt.Errorf("place %s in %s: %w", req.DefinitionID, req.AreaCode, err))
				continue
			}
			placed++
		}
		if errs != nil {
			return errs
		}
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"seed_layout": msg.SeedLayout,
		"manifest":    manifest != nil,
		"widgets":     placed,
	})
	return nil
}
