package dashboard

import (
	"context"
	"errors"
	"io"
)

const defaultTemplate = "leads_overview.html"

type layoutResolver interface {
	ConfigureLayout(ctx context.Context, viewer ViewerContext) (Layout, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  layoutResolver
	Renderer Renderer
	Template string
	Title    string
	Areas    []WidgetAreaDefinition
}

// Controller turns a resolved layout into the leads overview page.
type Controller struct {
	service  layoutResolver
	renderer Renderer
	template string
	title    string
	areas    []WidgetAreaDefinition
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultTemplate
	}
	if opts.Title == "" {
		opts.Title = defaultPageTitle
	}
	if len(opts.Areas) == 0 {
		opts.Areas = DefaultAreaDefinitions()
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: opts.Template,
		title:    opts.Title,
		areas:    opts.Areas,
	}
}

// Page is the full page model: shell chrome plus widget rows.
type Page struct {
	Title string          `json:"title"`
	Shell ShellView       `json:"shell"`
	State ShellState      `json:"state"`
	Rows  []PageRow       `json:"rows"`
	Theme *ThemeSelection `json:"theme,omitempty"`
}

// PageRow is one area of the page.
type PageRow struct {
	Code    string       `json:"code"`
	Name    string       `json:"name"`
	Columns int          `json:"columns"`
	Widgets []WidgetView `json:"widgets"`
}

// WidgetView is a widget instance ready for rendering.
type WidgetView struct {
	ID     string     `json:"id"`
	Code   string     `json:"code"`
	Config any        `json:"config,omitempty"`
	Data   WidgetData `json:"data,omitempty"`
}

// Page resolves the layout for a viewer and projects it into rows.
func (c *Controller) Page(ctx context.Context, viewer ViewerContext) (Page, error) {
	if c.service == nil {
		return Page{}, errors.New("dashboard: controller requires a service")
	}
	layout, err := c.service.ConfigureLayout(ctx, viewer)
	if err != nil {
		return Page{}, err
	}
	page := Page{
		Title: c.title,
		Shell: BuildShellView(c.title, layout.Shell),
		State: layout.Shell.Normalize(),
		Theme: layout.Theme,
	}
	for _, area := range c.areas {
		row := PageRow{Code: area.Code, Name: area.Name, Columns: area.Columns}
		if row.Columns <= 0 {
			row.Columns = 1
		}
		for _, inst := range layout.Areas[area.Code] {
			view := WidgetView{ID: inst.ID, Code: inst.DefinitionID, Config: inst.Configuration}
			if data, ok := inst.Metadata["data"].(WidgetData); ok {
				view.Data = data
			}
			row.Widgets = append(row.Widgets, view)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

// LayoutPayload returns the template context for the page.
func (c *Controller) LayoutPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	page, err := c.Page(ctx, viewer)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(page.Rows))
	for _, row := range page.Rows {
		widgets := make([]map[string]any, 0, len(row.Widgets))
		for _, w := range row.Widgets {
			data := map[string]any{}
			for k, v := range w.Data {
				data[k] = v
			}
			widgets = append(widgets, map[string]any{
				"id":     w.ID,
				"code":   w.Code,
				"config": w.Config,
				"data":   data,
			})
		}
		rows = append(rows, map[string]any{
			"code":    row.Code,
			"name":    row.Name,
			"columns": row.Columns,
			"widgets": widgets,
		})
	}
	payload := map[string]any{
		"title":         page.Title,
		"sidebar":       sidebarPayload(page.Shell.Sidebar),
		"header":        headerPayload(page.Shell.Header),
		"content_width": page.Shell.ContentOffset,
		"state":         page.State,
		"rows":          rows,
		"viewer":        viewer,
		"echarts_host":  EChartsAssetsHost(),
	}
	if page.Theme != nil {
		payload["theme"] = map[string]any{
			"name":     page.Theme.Name,
			"variant":  page.Theme.Variant,
			"css_vars": page.Theme.CSSVariablesInline(),
		}
	}
	return payload, nil
}

// RenderTemplate renders the page template into w.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, w io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: controller requires a renderer")
	}
	payload, err := c.LayoutPayload(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, payload, w)
	return err
}

func sidebarPayload(view SidebarView) map[string]any {
	return map[string]any{
		"collapsed": view.Collapsed,
		"width":     view.Width,
		"initials":  view.Initials,
		"main":      navPayload(view.Main),
		"bottom":    navPayload(view.Bottom),
	}
}

func navPayload(items []NavItemView) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"label":      item.Label,
			"icon":       item.Icon,
			"slug":       item.Slug,
			"href":       item.Href,
			"active":     item.Active,
			"show_label": item.ShowLabel,
		})
	}
	return out
}

func headerPayload(view HeaderView) map[string]any {
	actions := make([]map[string]any, 0, len(view.CreateActions))
	for _, action := range view.CreateActions {
		actions = append(actions, map[string]any{"label": action.Label, "route": action.Route})
	}
	return map[string]any{
		"title":          view.Title,
		"left_offset":    view.LeftOffset,
		"time_range":     view.TimeRange,
		"time_ranges":    view.TimeRanges,
		"create_actions": actions,
	}
}
