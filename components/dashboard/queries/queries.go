// Package queries exposes the read side of the leads overview as go-command
// queriers.
package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-leads-dashboard/components/dashboard"
)

// ErrMissingArea is returned by WidgetAreaQuery when no area code is given.
var ErrMissingArea = errors.New("queries: area code is required")

type layoutService interface {
	ConfigureLayout(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error)
}

type areaService interface {
	ResolveArea(ctx context.Context, viewer dashboard.ViewerContext, areaCode string) (dashboard.ResolvedArea, error)
}

type shellService interface {
	ShellState(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ShellState, error)
}

type pageService interface {
	Page(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Page, error)
}

// LayoutQuery resolves every overview area with provider data attached.
type LayoutQuery struct {
	service layoutService
}

func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Layout] = (*LayoutQuery)(nil)

func (q *LayoutQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Layout, error) {
	return q.service.ConfigureLayout(ctx, viewer)
}

// WidgetAreaInput identifies one overview row for a viewer.
type WidgetAreaInput struct {
	Viewer   dashboard.ViewerContext
	AreaCode string
}

// WidgetAreaQuery returns the widgets of a single row, e.g. to re-render the
// tracking row after its time range changed.
type WidgetAreaQuery struct {
	service areaService
}

func NewWidgetAreaQuery(service areaService) *WidgetAreaQuery {
	return &WidgetAreaQuery{service: service}
}

var _ gocommand.Querier[WidgetAreaInput, dashboard.ResolvedArea] = (*WidgetAreaQuery)(nil)

func (q *WidgetAreaQuery) Query(ctx context.Context, input WidgetAreaInput) (dashboard.ResolvedArea, error) {
	if input.AreaCode == "" {
		return dashboard.ResolvedArea{}, ErrMissingArea
	}
	return q.service.ResolveArea(ctx, input.Viewer, input.AreaCode)
}

// ShellStateQuery returns the sidebar, navigation and dropdown state of a viewer.
type ShellStateQuery struct {
	service shellService
}

func NewShellStateQuery(service shellService) *ShellStateQuery {
	return &ShellStateQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.ShellState] = (*ShellStateQuery)(nil)

// Query loads the shell state, defaults included.
func (q *ShellStateQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ShellState, error) {
	return q.service.ShellState(ctx, viewer)
}

// PageQuery builds the full page model: shell chrome plus widget rows.
type PageQuery struct {
	service pageService
}

func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.Page] = (*PageQuery)(nil)

func (q *PageQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.Page, error) {
	return q.service.Page(ctx, viewer)
}
