// Package dashboard re-exports the leads overview service for host applications.
package dashboard

import (
	"context"

	core "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext re-export for convenience.
type ViewerContext = core.ViewerContext

// ShellState re-export for convenience.
type ShellState = core.ShellState

// NavItem re-export for convenience.
type NavItem = core.NavItem

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewDemoService builds a service over in-memory stores with the leads
// overview areas, definitions and seed layout registered.
func NewDemoService(ctx context.Context, opts Options) (*Service, error) {
	if opts.WidgetStore == nil {
		opts.WidgetStore = core.NewInMemoryWidgetStore()
	}
	if opts.Providers == nil {
		opts.Providers = core.NewRegistry()
	}
	if err := core.RegisterAreas(ctx, opts.WidgetStore); err != nil {
		return nil, err
	}
	if err := core.RegisterDefinitions(ctx, opts.WidgetStore, opts.Providers); err != nil {
		return nil, err
	}
	service := core.NewService(opts)
	if err := core.SeedLayout(ctx, service); err != nil {
		return nil, err
	}
	return service, nil
}

// NavItems lists the sidebar entries of the leads shell.
func NavItems() []NavItem {
	return core.NavItems()
}
