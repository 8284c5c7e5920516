package main

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ettle/strcase"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
)

type validateCmd struct {
	Path string `arg:"" type:"existingfile" help:"Manifest file (YAML or JSON)."`
}

func (cmd *validateCmd) Run(logger zerolog.Logger) error {
	doc, err := dashboard.ReadManifest(cmd.Path)
	if err != nil {
		return err
	}
	registry := dashboard.NewRegistry()
	if err := registry.LoadManifestDocument(doc); err != nil {
		return err
	}
	for _, req := range doc.SeedRequests() {
		if _, ok := registry.Definition(req.DefinitionID); !ok {
			return fmt.Errorf("leadsctl: layout places unknown widget %s", req.DefinitionID)
		}
	}
	logger.Info().
		Str("manifest", cmd.Path).
		Int("areas", len(doc.Areas)).
		Int("widgets", len(doc.Widgets)).
		Int("placements", len(doc.Layout)).
		Msg("manifest valid")
	return nil
}

type scaffoldCmd struct {
	Code            string   `required:"" help:"Fully-qualified widget code (e.g. leads.widget.win_rate)."`
	Name            string   `required:"" help:"Display name for the widget."`
	Description     string   `required:"" help:"One-line description used in manifests."`
	Category        string   `default:"leads" help:"Widget category (pipeline, stats, etc.)."`
	ManifestPath    string   `required:"" name:"manifest" type:"path" help:"Path to the widget manifest YAML file to update."`
	SchemaPath      string   `name:"schema" type:"path" help:"Optional JSON schema file for the widget configuration."`
	Area            string   `help:"Also place the widget in this area of the manifest layout."`
	Tag             []string `help:"Tags to include in the manifest (repeatable)."`
	Maintainer      []string `help:"Maintainers to record in the manifest."`
	Capabilities    []string `help:"Provider capability labels (html,json,...)."`
	ProviderOut     string   `type:"path" help:"Provider stub path (defaults to components/dashboard/provider_<code>.go)."`
	Overwrite       bool     `help:"Replace an existing manifest entry or provider stub."`
	SkipProvider    bool     `name:"skip-provider" help:"Skip provider stub generation."`
	ProviderPackage string   `default:"github.com/goliatone/go-leads-dashboard/components/dashboard" help:"Go package where the provider factory lives."`
}

func (cmd *scaffoldCmd) Run(logger zerolog.Logger) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("leadsctl: widget code %s must contain at least one '.' segment", cmd.Code)
	}
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("leadsctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	schema, err := loadSchema(cmd.SchemaPath)
	if err != nil {
		return err
	}
	providerType := providerTypeName(cmd.Code)
	entry := dashboard.ManifestWidget{
		Definition: dashboard.WidgetDefinition{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Provider: dashboard.ManifestProvider{
			Name:         providerType,
			Summary:      cmd.Description,
			Entry:        fmt.Sprintf("%s.New%s", cmd.ProviderPackage, providerType),
			Package:      cmd.ProviderPackage,
			Capabilities: cmd.Capabilities,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}
	if err := addWidget(doc, entry, cmd.Area, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}

	event := logger.Info().Str("widget", cmd.Code).Str("manifest", path)
	if cmd.SkipProvider {
		event.Msg("widget added")
		return nil
	}
	stubPath := cmd.ProviderOut
	if stubPath == "" {
		stubPath = filepath.Join("components", "dashboard", fmt.Sprintf("provider_%s.go", sanitizeFileName(cmd.Code)))
	}
	if err := writeProviderStub(stubPath, providerType, cmd.Code, cmd.Name, cmd.Overwrite); err != nil {
		return err
	}
	event.Str("provider", stubPath).Msg("widget added")
	return nil
}

// addWidget inserts or replaces the widget entry, keeps entries sorted by
// code and, when area is set, places the widget there.
func addWidget(doc *dashboard.WidgetManifestDocument, entry dashboard.ManifestWidget, area string, overwrite bool) error {
	code := entry.Definition.Code
	idx := slices.IndexFunc(doc.Widgets, func(w dashboard.ManifestWidget) bool { return w.Definition.Code == code })
	switch {
	case idx < 0:
		doc.Widgets = append(doc.Widgets, entry)
	case !overwrite:
		return fmt.Errorf("leadsctl: manifest already defines widget %s (use --overwrite to replace)", code)
	default:
		doc.Widgets[idx] = entry
	}
	slices.SortFunc(doc.Widgets, func(a, b dashboard.ManifestWidget) int {
		return cmp.Compare(a.Definition.Code, b.Definition.Code)
	})
	if area != "" {
		doc.Layout = append(doc.Layout, dashboard.ManifestPlacement{Widget: code, Area: area})
	}
	return nil
}

// loadSchema reads a JSON schema file. Without one the widget accepts any
// object.
func loadSchema(path string) (map[string]any, error) {
	schema := map[string]any{"type": "object", "properties": map[string]any{}}
	if path == "" {
		return schema, nil
	}
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("leadsctl: read schema file: %w", err)
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("leadsctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

// loadOrInitManifest reads the manifest at path, or starts an empty one when
// the file does not exist yet.
func loadOrInitManifest(path string) (*dashboard.WidgetManifestDocument, error) {
	doc, err := dashboard.ReadManifest(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &dashboard.WidgetManifestDocument{
			Version: dashboard.ManifestVersion,
			Widgets: []dashboard.ManifestWidget{},
			Source:  path,
		}, nil
	}
	return doc, err
}

func writeManifest(path string, doc *dashboard.WidgetManifestDocument) error {
	var out bytes.Buffer
	if err := encodeManifest(&out, doc); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("leadsctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("leadsctl: write manifest %s: %w", path, err)
	}
	return nil
}

func encodeManifest(w io.Writer, doc *dashboard.WidgetManifestDocument) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("leadsctl: encode manifest: %w", err)
	}
	return enc.Close()
}

func writeProviderStub(path, providerType, code, name string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("leadsctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("leadsctl: mkdir provider dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(providerStub(providerType, code, name)), 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("leadsctl: write provider stub: %w", err)
	}
	return nil
}

func providerStub(providerType, code, name string) string {
	return fmt.Sprintf(`package dashboard

import (
	"context"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

func init() {
	RegisterWidgetHook(func(reg *Registry) error {
		if _, ok := reg.Definition(%[2]q); !ok {
			return nil
		}
		return reg.RegisterProvider(%[2]q, New%[1]s(reg.Repository()))
	})
}

// %[1]s fetches data for %[2]s widgets.
type %[1]s struct {
	repo leads.Repository
}

// New%[1]s wires the provider to a leads repository.
func New%[1]s(repo leads.Repository) *%[1]s {
	return &%[1]s{repo: repo}
}

// Fetch builds the widget payload from the repository.
func (p *%[1]s) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return WidgetData{
		"title": stringValue(meta.Instance.Configuration["title"], %[3]q),
	}, nil
}
`, providerType, code, name)
}

func providerTypeName(code string) string {
	return strcase.ToPascal(lastSegment(code)) + "Provider"
}

func lastSegment(code string) string {
	slug := code
	if i := strings.LastIndexByte(code, '.'); i >= 0 {
		slug = strings.TrimSpace(code[i+1:])
	}
	if slug == "" {
		return code
	}
	return slug
}

func sanitizeFileName(code string) string {
	return strcase.ToSnake(strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_").Replace(code))
}
