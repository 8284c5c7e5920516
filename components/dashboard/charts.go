package dashboard

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "300px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartKind selects the go-echarts chart used for a ChartSpec.
type ChartKind string

const (
	ChartFunnel ChartKind = "funnel"
	ChartPie    ChartKind = "pie"
	ChartArea   ChartKind = "area"
)

// ChartSpec is a renderer-agnostic description of a widget chart.
type ChartSpec struct {
	Kind     ChartKind     `json:"kind"`
	Key      string        `json:"key"`
	Title    string        `json:"title,omitempty"`
	Subtitle string        `json:"subtitle,omitempty"`
	XAxis    []string      `json:"x_axis,omitempty"`
	Series   []ChartSeries `json:"series"`
	Theme    string        `json:"theme,omitempty"`
}

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint represents an individual value (optionally labeled and colored).
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// ThemeResolver selects a chart theme per viewer.
type ThemeResolver func(ViewerContext) string

// EChartsRenderer renders ChartSpecs into server-side ECharts HTML.
type EChartsRenderer struct {
	cache         RenderCache
	theme         string
	themeResolver ThemeResolver
	assetsHost    string
	height        string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache. A nil cache disables memoisation.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartThemeResolver resolves themes dynamically per viewer.
func WithChartThemeResolver(resolver ThemeResolver) EChartsOption {
	return func(r *EChartsRenderer) {
		r.themeResolver = resolver
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = ensureTrailingSlash(host)
	}
}

// WithChartHeight overrides the chart container height.
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.height = height
	}
}

// NewEChartsRenderer builds a renderer with the shared cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  sharedChartCache,
		theme:  types.ThemeWesteros,
		height: defaultChartHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// ResolveTheme picks the chart theme for a viewer, honoring theme selections.
func (r *EChartsRenderer) ResolveTheme(viewer ViewerContext, selection *ThemeSelection) string {
	if r.themeResolver != nil {
		if theme := r.themeResolver(viewer); theme != "" {
			return theme
		}
	}
	if selection != nil && selection.ChartTheme != "" {
		return selection.ChartTheme
	}
	if r.theme != "" {
		return r.theme
	}
	return types.ThemeWesteros
}

// Render returns the chart HTML, served from cache when possible.
func (r *EChartsRenderer) Render(spec ChartSpec) (string, error) {
	if len(spec.Series) == 0 {
		return "", fmt.Errorf("chart series is required")
	}
	if spec.Theme == "" {
		spec.Theme = r.theme
	}
	renderFn := func() (string, error) {
		switch spec.Kind {
		case ChartFunnel:
			return r.renderFunnel(spec)
		case ChartPie:
			return r.renderPie(spec)
		case ChartArea:
			return r.renderArea(spec)
		default:
			return "", fmt.Errorf("unsupported chart type: %s", spec.Kind)
		}
	}
	if r.cache == nil {
		return renderFn()
	}
	return r.cache.GetOrRender(fmt.Sprintf("%s:%s", spec.Kind, spec.Key), specHash(spec), renderFn)
}

func (r *EChartsRenderer) renderFunnel(spec ChartSpec) (string, error) {
	funnel := charts.NewFunnel()
	series := spec.Series[0]
	funnel.SetGlobalOptions(r.globalOptions(spec, pointColors(series.Points))...)
	data := make([]opts.FunnelData, len(series.Points))
	for i, point := range series.Points {
		data[i] = opts.FunnelData{Name: point.Label, Value: point.Value}
	}
	funnel.AddSeries(series.Name, data)
	return renderChart(funnel)
}

func (r *EChartsRenderer) renderPie(spec ChartSpec) (string, error) {
	pie := charts.NewPie()
	series := spec.Series[0]
	pie.SetGlobalOptions(r.globalOptions(spec, pointColors(series.Points))...)
	data := make([]opts.PieData, len(series.Points))
	for i, point := range series.Points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	pie.AddSeries(series.Name, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
	)
	return renderChart(pie)
}

func (r *EChartsRenderer) renderArea(spec ChartSpec) (string, error) {
	line := charts.NewLine()
	colors := make([]string, 0, len(spec.Series))
	for _, s := range spec.Series {
		if s.Color != "" {
			colors = append(colors, s.Color)
		}
	}
	line.SetGlobalOptions(r.globalOptions(spec, colors)...)
	line.SetXAxis(spec.XAxis)
	for _, s := range spec.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, point := range s.Points {
			data[i] = opts.LineData{Name: point.Label, Value: point.Value}
		}
		line.AddSeries(s.Name, data,
			charts.WithAreaStyleOpts(opts.AreaStyle{}),
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		)
	}
	return renderChart(line)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalOptions(spec ChartSpec, colors []string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  spec.Theme,
		Width:  "100%",
		Height: r.height,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	global := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: spec.Subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
	if len(colors) > 0 {
		global = append(global, charts.WithColorsOpts(opts.Colors(colors)))
	}
	return global
}

func pointColors(points []ChartPoint) []string {
	colors := make([]string, 0, len(points))
	for _, p := range points {
		if p.Color != "" {
			colors = append(colors, p.Color)
		}
	}
	if len(colors) != len(points) {
		return nil
	}
	return colors
}

func specHash(spec ChartSpec) string {
	b, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
