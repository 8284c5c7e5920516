package goadmin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	activitypkg "github.com/goliatone/go-leads-dashboard/pkg/activity"
	dashboardpkg "github.com/goliatone/go-leads-dashboard/pkg/dashboard"
)

// MenuBuilder ensures dashboard entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures sidebar link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Section  string
	Position int
}

// Config wires the leads dashboard service + feature flags into an admin shell.
type Config struct {
	EnableDashboard bool
	MenuCode        string
	BasePath        string
	MenuBuilder     MenuBuilder
	Service         *dashboardpkg.Service
	ActivityHooks   activitypkg.Hooks
	ActivityConfig  activitypkg.Config
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg      Config
	activity *activitypkg.Emitter
}

// New creates an Admin helper that can seed the leads sidebar menu.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableDashboard && cfg.Service == nil {
		return nil, errors.New("goadmin: dashboard service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/admin"
	}
	return &Admin{
		cfg:      cfg,
		activity: activitypkg.NewEmitter(cfg.ActivityHooks, cfg.ActivityConfig),
	}, nil
}

// Dashboard exposes the configured dashboard service when enabled.
func (a *Admin) Dashboard() *dashboardpkg.Service {
	if !a.cfg.EnableDashboard {
		return nil
	}
	return a.cfg.Service
}

// MenuItems maps the leads sidebar entries to admin menu items.
func (a *Admin) MenuItems() []MenuItem {
	base := strings.TrimRight(a.cfg.BasePath, "/")
	navs := dashboardpkg.NavItems()
	items := make([]MenuItem, 0, len(navs))
	for i, nav := range navs {
		items = append(items, MenuItem{
			Label:    nav.Label,
			Route:    base + "/" + nav.Slug,
			Icon:     nav.Icon,
			Section:  nav.Section,
			Position: i,
		})
	}
	return items
}

// Bootstrap seeds menu entries when dashboard support is enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableDashboard || a.cfg.MenuBuilder == nil {
		return nil
	}
	items := a.MenuItems()
	for _, item := range items {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: ensure menu item %s: %w", item.Label, err)
		}
	}
	return a.activity.Emit(ctx, activitypkg.Event{
		Verb:       "dashboard.menu.seed",
		ObjectType: "admin_menu",
		ObjectID:   a.cfg.MenuCode,
		Metadata:   map[string]any{"items": len(items)},
	})
}
