package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// RegisterAreas makes sure the pipeline, tracking and stats rows exist.
func RegisterAreas(ctx context.Context, store WidgetStore) error {
	if store == nil {
		return errMissingWidgetStore
	}
	for _, area := range defaultAreaDefinitions {
		if _, err := store.EnsureArea(ctx, area); err != nil {
			return fmt.Errorf("register area %s: %w", area.Code, err)
		}
	}
	return nil
}

// RegisterDefinitions adds the leads widgets to registry and then stores
// every definition the registry knows, manifest widgets included. A nil
// registry stores the leads widgets only.
func RegisterDefinitions(ctx context.Context, store WidgetStore, registry ProviderRegistry) error {
	if store == nil {
		return errMissingWidgetStore
	}
	defs := DefaultWidgetDefinitions()
	if registry != nil {
		for _, def := range defs {
			if err := registry.RegisterDefinition(def); err != nil {
				return fmt.Errorf("register %s in registry: %w", def.Code, err)
			}
		}
		if all := registry.Definitions(); len(all) > 0 {
			defs = all
		}
	}
	for _, def := range defs {
		if _, err := store.EnsureDefinition(ctx, def); err != nil {
			return fmt.Errorf("store definition %s: %w", def.Code, err)
		}
	}
	return nil
}

// SeedLayout places the funnel and sources widgets in the pipeline row, the
// tracking chart and the stats panel. Every placement is attempted and the
// failures are joined.
func SeedLayout(ctx context.Context, service *Service) error {
	if service == nil {
		return errors.New("dashboard: seeding the layout requires a service")
	}
	var errs error
	for _, req := range DefaultSeedWidgets() {
		if err := service.AddWidget(ctx, req); err != nil {
			errs = errors.Join(errs, fmt.Errorf("seed %s: %w", req.DefinitionID, err))
		}
	}
	return errs
}
