package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/httpapi"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the leads overview controller, APIs, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig holds the paths of the dashboard endpoints, relative to BasePath.
type RouteConfig struct {
	HTML            string
	Layout          string
	Shell           string
	ShellSidebar    string
	ShellNav        string
	ShellTimeRange  string
	ShellSourcesTab string
	Widgets         string
	WidgetID        string
	Reorder         string
	Refresh         string
	Preferences     string
	WebSocket       string
}

// Register mounts the page, its JSON payload, the shell and widget commands
// and the widget event socket.
func Register[T any](cfg Config[T]) error {
	switch {
	case cfg.Router == nil:
		return errors.New("gorouter: router is required")
	case cfg.Controller == nil:
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	viewer := cfg.ViewerResolver
	if viewer == nil {
		viewer = defaultViewerResolver
	}

	group := cfg.Router.Group(base)
	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		var page bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer(ctx), &page); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(page.Bytes())
	}))
	group.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.LayoutPayload(ctx.Context(), viewer(ctx))
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	if cfg.API != nil {
		registerShell(group, cfg.API, viewer, routes)
		registerWidgets(group, cfg.API, viewer, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

// endpoint decodes a JSON command, lets bind complete it from the request,
// runs it and writes the reply. An empty body decodes to the zero value.
type endpoint[In any] struct {
	bind    func(router.Context, *In) error
	run     func(context.Context, In) error
	respond func(router.Context) error
}

func (e endpoint[In]) handler() router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		var in In
		if err := decodeBody(ctx, &in); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if e.bind != nil {
			if err := e.bind(ctx, &in); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		if err := e.run(ctx.Context(), in); err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return e.respond(ctx)
	})
}

func status(code int, text string) func(router.Context) error {
	return func(ctx router.Context) error {
		return ctx.JSON(code, map[string]string{"status": text})
	}
}

func registerShell[T any](r router.Router[T], api httpapi.Executor, viewer ViewerResolver, routes RouteConfig) {
	// Shell commands answer with the state they produced.
	state := func(ctx router.Context) error {
		current, err := api.Shell(ctx.Context(), viewer(ctx))
		if err != nil {
			return respondError(ctx, httpapi.StatusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, current)
	}
	r.Get(routes.Shell, router.WrapHandler(state))

	r.Post(routes.ShellSidebar, endpoint[commands.ToggleSidebarInput]{
		bind:    func(ctx router.Context, in *commands.ToggleSidebarInput) error { in.Viewer = viewer(ctx); return nil },
		run:     api.ToggleSidebar,
		respond: state,
	}.handler())
	r.Post(routes.ShellNav, endpoint[commands.SelectNavInput]{
		bind:    func(ctx router.Context, in *commands.SelectNavInput) error { in.Viewer = viewer(ctx); return nil },
		run:     api.SelectNav,
		respond: state,
	}.handler())
	r.Post(routes.ShellTimeRange, endpoint[commands.SelectTimeRangeInput]{
		bind:    func(ctx router.Context, in *commands.SelectTimeRangeInput) error { in.Viewer = viewer(ctx); return nil },
		run:     api.SelectTimeRange,
		respond: state,
	}.handler())
	r.Post(routes.ShellSourcesTab, endpoint[commands.SelectSourcesTabInput]{
		bind:    func(ctx router.Context, in *commands.SelectSourcesTabInput) error { in.Viewer = viewer(ctx); return nil },
		run:     api.SelectSourcesTab,
		respond: state,
	}.handler())
}

func registerWidgets[T any](r router.Router[T], api httpapi.Executor, viewer ViewerResolver, routes RouteConfig) {
	// stamp fills the acting user from the request when the body names none.
	stamp := func(ctx router.Context, actor *commands.Actor) {
		if actor.UserID == "" {
			actor.UserID = viewer(ctx).UserID
		}
	}

	r.Post(routes.Widgets, endpoint[dashboard.AddWidgetRequest]{
		bind: func(ctx router.Context, in *dashboard.AddWidgetRequest) error {
			if in.UserID == "" {
				in.UserID = viewer(ctx).UserID
			}
			return nil
		},
		run:     api.Assign,
		respond: status(http.StatusCreated, "created"),
	}.handler())
	r.Delete(routes.WidgetID, endpoint[commands.RemoveWidgetInput]{
		bind: func(ctx router.Context, in *commands.RemoveWidgetInput) error {
			in.WidgetID = ctx.Param("id")
			if in.WidgetID == "" {
				return errors.New("widget id is required")
			}
			stamp(ctx, &in.Actor)
			return nil
		},
		run:     api.Remove,
		respond: status(http.StatusNoContent, "removed"),
	}.handler())
	r.Post(routes.Reorder, endpoint[commands.ReorderWidgetsInput]{
		bind:    func(ctx router.Context, in *commands.ReorderWidgetsInput) error { stamp(ctx, &in.Actor); return nil },
		run:     api.Reorder,
		respond: status(http.StatusOK, "reordered"),
	}.handler())
	r.Post(routes.Refresh, endpoint[commands.RefreshWidgetInput]{
		bind:    func(ctx router.Context, in *commands.RefreshWidgetInput) error { stamp(ctx, &in.Actor); return nil },
		run:     api.Refresh,
		respond: status(http.StatusAccepted, "queued"),
	}.handler())
	r.Post(routes.Preferences, endpoint[commands.SaveLayoutPreferencesInput]{
		bind:    func(ctx router.Context, in *commands.SaveLayoutPreferencesInput) error { in.Viewer = viewer(ctx); return nil },
		run:     api.Preferences,
		respond: status(http.StatusOK, "saved"),
	}.handler())
}

// registerWebSocket streams every widget event to the socket until the
// client leaves.
func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	r.WebSocket(path, router.DefaultWebSocketConfig(), func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case <-ws.Context().Done():
				return ws.Close()
			case event, open := <-events:
				if !open {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			}
		}
	})
}

func decodeBody(ctx router.Context, out any) error {
	body := bytes.TrimSpace(ctx.Body())
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{Locale: requestLocale(ctx)}
	viewer.UserID, _ = ctx.Locals("user_id").(string)
	viewer.Roles, _ = ctx.Locals("roles").([]string)
	return viewer
}

// requestLocale checks, in order: a locale set by middleware, the route
// param, the query string and Accept-Language.
func requestLocale(ctx router.Context) string {
	if locale, _ := ctx.Locals("locale").(string); locale != "" {
		return locale
	}
	candidates := []string{ctx.Param("locale"), ctx.Query("locale"), parseAcceptLanguage(ctx.Header("Accept-Language"))}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return strings.ToLower(c)
		}
	}
	return ""
}

// parseAcceptLanguage returns the first language tag of the header, ignoring
// quality weights.
func parseAcceptLanguage(header string) string {
	for token := range strings.SplitSeq(header, ",") {
		tag, _, _ := strings.Cut(token, ";")
		if tag = strings.TrimSpace(tag); tag != "" {
			return strings.ToLower(tag)
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	defaults := []struct {
		field *string
		path  string
	}{
		{&routes.HTML, "/dashboard"},
		{&routes.Layout, "/dashboard/layout"},
		{&routes.Shell, "/dashboard/shell"},
		{&routes.ShellSidebar, "/dashboard/shell/sidebar"},
		{&routes.ShellNav, "/dashboard/shell/nav"},
		{&routes.ShellTimeRange, "/dashboard/shell/time-range"},
		{&routes.ShellSourcesTab, "/dashboard/shell/sources-tab"},
		{&routes.Widgets, "/dashboard/widgets"},
		{&routes.WidgetID, "/dashboard/widgets/:id"},
		{&routes.Reorder, "/dashboard/widgets/reorder"},
		{&routes.Refresh, "/dashboard/widgets/refresh"},
		{&routes.Preferences, "/dashboard/preferences"},
		{&routes.WebSocket, "/dashboard/ws"},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.path
		}
	}
	return routes
}
