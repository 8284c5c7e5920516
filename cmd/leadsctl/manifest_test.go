package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
)

const sampleManifest = "../../docs/manifests/leads_overview.yaml"

func TestValidateSampleManifest(t *testing.T) {
	cmd := validateCmd{Path: sampleManifest}
	require.NoError(t, cmd.Run(zerolog.Nop()))
}

func TestValidateRejectsUnknownPlacement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
widgets:
  - definition:
      code: leads.widget.win_rate
      name: Win rate
layout:
  - widget: leads.widget.unknown
    area: leads.overview.stats
`), 0o600))
	cmd := validateCmd{Path: path}
	assert.ErrorContains(t, cmd.Run(zerolog.Nop()), "unknown widget")
}

func TestScaffoldCreatesManifestAndStub(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "widgets.yaml")
	stubPath := filepath.Join(dir, "provider_win_rate.go")
	cmd := scaffoldCmd{
		Code:            "leads.widget.win_rate",
		Name:            "Win rate",
		Description:     "Share of closed won leads",
		Category:        "stats",
		ManifestPath:    manifestPath,
		Area:            dashboard.AreaStats,
		ProviderOut:     stubPath,
		ProviderPackage: "github.com/goliatone/go-leads-dashboard/components/dashboard",
	}
	require.NoError(t, cmd.Run(zerolog.Nop()))

	doc, err := dashboard.ReadManifest(manifestPath)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.Equal(t, "leads.widget.win_rate", doc.Widgets[0].Definition.Code)
	assert.Equal(t, "WinRateProvider", doc.Widgets[0].Provider.Name)
	assert.Equal(t, "github.com/goliatone/go-leads-dashboard/components/dashboard.NewWinRateProvider", doc.Widgets[0].Provider.Entry)
	require.Len(t, doc.Layout, 1)
	assert.Equal(t, dashboard.AreaStats, doc.Layout[0].Area)

	stub, err := os.ReadFile(stubPath)
	require.NoError(t, err)
	assert.Contains(t, string(stub), "type WinRateProvider struct")
	assert.Contains(t, string(stub), `"Win rate"`)

	assert.ErrorContains(t, cmd.Run(zerolog.Nop()), "already defines")
	cmd.Overwrite = true
	require.NoError(t, cmd.Run(zerolog.Nop()))
}

func TestScaffoldRejectsFlatCode(t *testing.T) {
	cmd := scaffoldCmd{Code: "winrate", ManifestPath: filepath.Join(t.TempDir(), "w.yaml")}
	assert.ErrorContains(t, cmd.Run(zerolog.Nop()), "segment")
}

func TestAddWidgetKeepsCodesSorted(t *testing.T) {
	doc := &dashboard.WidgetManifestDocument{Version: dashboard.ManifestVersion}
	for _, code := range []string{"leads.widget.b", "leads.widget.a"} {
		entry := dashboard.ManifestWidget{Definition: dashboard.WidgetDefinition{Code: code, Name: code}}
		require.NoError(t, addWidget(doc, entry, "", false))
	}
	assert.Equal(t, "leads.widget.a", doc.Widgets[0].Definition.Code)
	assert.Empty(t, doc.Layout)
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "WinRateProvider", providerTypeName("leads.widget.win_rate"))
	assert.Equal(t, "leads_widget_win_rate", sanitizeFileName("leads.widget.win-rate"))
	assert.Equal(t, "x", lastSegment("x"))
}
