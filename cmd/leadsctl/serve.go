package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-leads-dashboard/pkg/activity"
	"github.com/goliatone/go-leads-dashboard/pkg/activity/usersink"
	"github.com/goliatone/go-leads-dashboard/pkg/goadmin"
)

type serveCmd struct {
	Addr         string `env:"LEADS_ADDR" help:"Listen address (default :9876)."`
	EventsAddr   string `name:"events-addr" env:"LEADS_EVENTS_ADDR" help:"Serve widget events over WebSocket and SSE on this address."`
	BasePath     string `env:"LEADS_BASE_PATH" help:"Route prefix (default /admin)."`
	Templates    string `type:"path" env:"LEADS_TEMPLATES" help:"Render templates from this directory instead of the embedded ones."`
	Manifest     string `type:"path" env:"LEADS_MANIFEST" help:"Widget manifest to register and seed the layout from."`
	ChartTheme   string `env:"LEADS_CHART_THEME" help:"ECharts theme name."`
	AssetsHost   string `env:"LEADS_ECHARTS_HOST" help:"Host serving the ECharts assets."`
	AnalyticsURL string `name:"analytics-url" env:"LEADS_ANALYTICS_URL" help:"Remote reporting API base URL."`
	AnalyticsKey string `name:"analytics-key" env:"LEADS_ANALYTICS_KEY" help:"Remote reporting API key."`
	Activity     bool   `env:"LEADS_ACTIVITY" help:"Log dashboard activity events."`
	Refresh      string `env:"LEADS_REFRESH" help:"Cron schedule for pushing refresh events to every area (e.g. @every 5m)."`
}

func (cmd *serveCmd) apply(cfg *Config) {
	override(&cfg.Addr, cmd.Addr)
	override(&cfg.EventsAddr, cmd.EventsAddr)
	override(&cfg.BasePath, cmd.BasePath)
	override(&cfg.Templates, cmd.Templates)
	override(&cfg.Manifest, cmd.Manifest)
	override(&cfg.Charts.Theme, cmd.ChartTheme)
	override(&cfg.Charts.AssetsHost, cmd.AssetsHost)
	override(&cfg.Analytics.BaseURL, cmd.AnalyticsURL)
	override(&cfg.Analytics.APIKey, cmd.AnalyticsKey)
	override(&cfg.Refresh, cmd.Refresh)
	if cmd.Activity {
		cfg.Activity.Enabled = true
	}
}

// app holds the wired dashboard collaborators.
type app struct {
	service    *dashboard.Service
	controller *dashboard.Controller
	executor   *httpapi.CommandExecutor
	broadcast  *dashboard.BroadcastHook
	admin      *goadmin.Admin
	areas      []string
}

func (cmd *serveCmd) Run(ctx context.Context, cfg *Config, logger zerolog.Logger) error {
	cmd.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wired, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Refresh != "" {
		scheduler, err := refreshScheduler(ctx, cfg.Refresh, wired, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:         server.Router(),
		Controller:     wired.controller,
		API:            wired.executor,
		Broadcast:      wired.broadcast,
		ViewerResolver: viewerResolver(cfg.Viewer),
		BasePath:       cfg.BasePath,
	}); err != nil {
		return fmt.Errorf("leadsctl: register routes: %w", err)
	}

	errCh := make(chan error, 2)
	var events *http.Server
	if cfg.EventsAddr != "" {
		events = &http.Server{Addr: cfg.EventsAddr, Handler: eventsMux(wired.broadcast), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info().Str("addr", cfg.EventsAddr).Msg("streaming widget events")
			if err := events.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("leadsctl: events listener: %w", err)
			}
		}()
	}
	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("dashboard", strings.TrimRight(cfg.BasePath, "/")+"/dashboard").
			Msg("serving leads overview")
		errCh <- server.Serve(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if events != nil {
		_ = events.Shutdown(shutdownCtx)
	}
	return server.Shutdown(shutdownCtx)
}

// refreshScheduler pushes a "schedule" refresh event to every page area on
// the given cron schedule, so open dashboards reload widgets backed by a
// remote source.
func refreshScheduler(ctx context.Context, schedule string, wired *app, logger zerolog.Logger) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(schedule, func() {
		refreshAreas(ctx, wired.executor, wired.areas, logger)
	})
	if err != nil {
		return nil, fmt.Errorf("leadsctl: refresh schedule %q: %w", schedule, err)
	}
	return scheduler, nil
}

func refreshAreas(ctx context.Context, api httpapi.Executor, areas []string, logger zerolog.Logger) {
	for _, area := range areas {
		err := api.Refresh(ctx, commands.RefreshWidgetInput{AreaCode: area, Reason: "schedule"})
		if err != nil {
			logger.Warn().Err(err).Str("area", area).Msg("scheduled refresh failed")
		}
	}
}

// eventsMux exposes the refresh stream for clients outside the fiber app.
func eventsMux(hook *dashboard.BroadcastHook) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/events/ws", hook.ServeWebSocket)
	mux.HandleFunc("/events/sse", hook.ServeSSE)
	return mux
}

func buildApp(ctx context.Context, cfg *Config, logger zerolog.Logger) (*app, error) {
	repo, err := leadsRepository(cfg.Analytics)
	if err != nil {
		return nil, fmt.Errorf("leadsctl: analytics source: %w", err)
	}

	var chartOpts []dashboard.EChartsOption
	if cfg.Charts.Theme != "" {
		chartOpts = append(chartOpts, dashboard.WithChartTheme(cfg.Charts.Theme))
	}
	if cfg.Charts.AssetsHost != "" {
		chartOpts = append(chartOpts, dashboard.WithChartAssetsHost(cfg.Charts.AssetsHost))
	}
	if cfg.Charts.Height != "" {
		chartOpts = append(chartOpts, dashboard.WithChartHeight(cfg.Charts.Height))
	}
	registry := dashboard.NewRegistry(
		dashboard.WithLeadsRepository(repo),
		dashboard.WithChartOptions(chartOpts...),
	)

	var manifest *dashboard.WidgetManifestDocument
	if cfg.Manifest != "" {
		manifest, err = registry.LoadManifestFile(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("manifest", cfg.Manifest).Int("widgets", len(manifest.Widgets)).Msg("manifest loaded")
	}

	renderer, err := dashboard.NewTemplateRendererDir(cfg.Templates)
	if err != nil {
		return nil, fmt.Errorf("leadsctl: templates: %w", err)
	}

	telemetry := dashboard.NewLoggerTelemetry(logger)
	broadcast := dashboard.NewBroadcastHook()
	store := dashboard.NewInMemoryWidgetStore()
	opts := dashboard.Options{
		WidgetStore:     store,
		PreferenceStore: dashboard.NewInMemoryPreferenceStore(),
		ShellStore:      dashboard.NewInMemoryShellStore(),
		Providers:       registry,
		RefreshHook:     broadcast,
		Telemetry:       telemetry,
		ActivityConfig:  cfg.Activity,
	}
	if cfg.Activity.Enabled {
		opts.ActivityHooks = activity.Hooks{usersink.Hook{Sink: recordLogger{logger}}}
		opts.RefreshHook = dashboard.RefreshHooks{
			broadcast,
			&dashboard.NotificationsHook{Client: widgetEventLogger{logger: logger}},
		}
	}
	if len(cfg.Translations) > 0 {
		opts.Translator = dashboard.StaticTranslator(cfg.Translations)
	}
	if len(cfg.Theme) > 0 {
		opts.ThemeProvider = dashboard.ThemeOverrides(cfg.Theme)
	}
	service := dashboard.NewService(opts)

	seed := commands.NewSeedDashboardCommand(store, registry, service, telemetry)
	if err := seed.Execute(ctx, commands.SeedDashboardInput{SeedLayout: true, Manifest: manifest}); err != nil {
		return nil, fmt.Errorf("leadsctl: seed dashboard: %w", err)
	}

	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		BasePath:        cfg.BasePath,
		Service:         service,
		MenuBuilder:     menuLogger{logger: logger},
		ActivityHooks:   opts.ActivityHooks,
		ActivityConfig:  cfg.Activity,
	})
	if err != nil {
		return nil, err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		return nil, err
	}

	return &app{
		service: service,
		controller: dashboard.NewController(dashboard.ControllerOptions{
			Service:  service,
			Renderer: renderer,
		}),
		executor:  httpapi.NewCommandExecutor(service, telemetry),
		broadcast: broadcast,
		admin:     admin,
		areas:     pageAreas(manifest),
	}, nil
}

// viewerResolver reads the viewer from the X-User-ID header or the user_id
// query parameter and falls back to the configured viewer.
func viewerResolver(fallback ViewerConfig) gorouter.ViewerResolver {
	return func(ctx router.Context) dashboard.ViewerContext {
		viewer := dashboard.ViewerContext{
			UserID: fallback.UserID,
			Roles:  fallback.Roles,
			Locale: fallback.Locale,
		}
		if id := strings.TrimSpace(ctx.Header("X-User-ID")); id != "" {
			viewer.UserID = id
		} else if id := strings.TrimSpace(ctx.Query("user_id")); id != "" {
			viewer.UserID = id
		}
		if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
			viewer.Locale = strings.ToLower(locale)
		}
		return viewer
	}
}

// widgetEventLogger publishes widget events to the process log.
type widgetEventLogger struct {
	logger zerolog.Logger
}

func (l widgetEventLogger) PublishDashboardEvent(_ context.Context, event dashboard.WidgetEvent) error {
	l.logger.Info().
		Str("area", event.AreaCode).
		Str("widget", event.Instance.ID).
		Str("definition", event.Instance.DefinitionID).
		Str("reason", event.Reason).
		Msg("widget updated")
	return nil
}

// recordLogger is a go-users activity sink that writes records to the log.
type recordLogger struct {
	logger zerolog.Logger
}

func (r recordLogger) Log(_ context.Context, record types.ActivityRecord) error {
	r.logger.Info().
		Str("verb", record.Verb).
		Str("user_id", record.UserID.String()).
		Str("object_type", record.ObjectType).
		Str("object_id", record.ObjectID).
		Str("channel", record.Channel).
		Interface("data", record.Data).
		Msg("activity")
	return nil
}

// menuLogger records the sidebar entries a host admin menu would receive.
type menuLogger struct {
	logger zerolog.Logger
}

func (m menuLogger) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	m.logger.Debug().
		Str("menu", menuCode).
		Str("label", item.Label).
		Str("route", item.Route).
		Str("section", item.Section).
		Msg("menu item")
	return nil
}

// pageAreas lists the built-in areas followed by any extra manifest areas.
func pageAreas(manifest *dashboard.WidgetManifestDocument) []string {
	areas := dashboard.DefaultAreaCodes()
	if manifest == nil {
		return areas
	}
	for _, area := range manifest.Areas {
		if !slices.Contains(areas, area.Code) {
			areas = append(areas, area.Code)
		}
	}
	return areas
}
