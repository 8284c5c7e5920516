package dashboard

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// ThemeProvider resolves a theme for a selector. Without one the dashboard
// uses DefaultThemeSelection.
type ThemeProvider interface {
	SelectTheme(ctx context.Context, selector ThemeSelector) (*ThemeSelection, error)
}

// ThemeSelectorFunc picks the theme a viewer asked for.
type ThemeSelectorFunc func(ctx context.Context, viewer ViewerContext) ThemeSelector

// ThemeSelector names a theme and variant.
type ThemeSelector struct {
	Name    string
	Variant string
}

// ThemeSelection is a resolved theme: design tokens and the ECharts theme.
type ThemeSelection struct {
	Name       string            `json:"name"`
	Variant    string            `json:"variant,omitempty"`
	Tokens     map[string]string `json:"tokens,omitempty"`
	ChartTheme string            `json:"chart_theme,omitempty"`
}

var leadsThemeTokens = map[string]string{
	"primary":        leads.ColorPrimary,
	"destructive":    leads.ColorDestructive,
	"yellow":         leads.ColorYellow,
	"purple":         leads.ColorPurple,
	"accent-green":   leads.ColorAccentGreen,
	"sidebar":        "#E9E8E7",
	"secondary-text": "#878A99",
	"background":     "#F7F7F7",
	"card":           "#FFFFFF",
	"border":         "#E4E4E7",
	"foreground":     "#18181B",
	"sidebar-width":  "256px",
}

// DefaultThemeSelection is the light theme of the leads overview.
func DefaultThemeSelection() *ThemeSelection {
	return &ThemeSelection{
		Name:       "leads",
		Variant:    "light",
		Tokens:     maps.Clone(leadsThemeTokens),
		ChartTheme: types.ThemeWesteros,
	}
}

// ThemeOverrides is a ThemeProvider serving the default theme with some
// tokens replaced. A selector name or variant relabels the result.
type ThemeOverrides map[string]string

func (o ThemeOverrides) SelectTheme(_ context.Context, selector ThemeSelector) (*ThemeSelection, error) {
	theme := DefaultThemeSelection()
	maps.Copy(theme.Tokens, o)
	if selector.Name != "" {
		theme.Name = selector.Name
	}
	if selector.Variant != "" {
		theme.Variant = selector.Variant
	}
	return theme, nil
}

// CSSVariables maps each token to a custom property name ("primary" becomes
// "--primary").
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil || len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		vars[key] = value
	}
	return vars
}

// CSSVariablesInline renders the non-empty variables as a declaration list,
// sorted by name.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	decls := make([]string, 0, len(vars))
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if vars[name] != "" {
			decls = append(decls, name+": "+vars[name]+";")
		}
	}
	return strings.Join(decls, " ")
}

func cloneThemeSelection(selection *ThemeSelection) *ThemeSelection {
	if selection == nil {
		return nil
	}
	cloned := *selection
	cloned.Tokens = maps.Clone(selection.Tokens)
	return &cloned
}
