package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the only manifest format version understood.
const ManifestVersion = "1"

// WidgetManifestDocument models a YAML/JSON manifest describing widgets, the
// page areas they live in and their starting placement.
type WidgetManifestDocument struct {
	Version  string                 `json:"version" yaml:"version"`
	Name     string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string                 `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string                 `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Areas    []WidgetAreaDefinition `json:"areas,omitempty" yaml:"areas,omitempty"`
	Widgets  []ManifestWidget       `json:"widgets" yaml:"widgets"`
	Layout   []ManifestPlacement    `json:"layout,omitempty" yaml:"layout,omitempty"`
	Source   string                 `json:"-" yaml:"-"`
}

// ManifestPlacement seeds one widget instance into an area.
type ManifestPlacement struct {
	Widget        string         `json:"widget" yaml:"widget"`
	Area          string         `json:"area" yaml:"area"`
	Configuration map[string]any `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	Roles         []string       `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// ManifestWidget describes a single widget entry within a manifest.
type ManifestWidget struct {
	Definition  WidgetDefinition `json:"definition" yaml:"definition"`
	Provider    ManifestProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Maintainers []string         `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestProvider captures discovery metadata about a provider implementation.
type ManifestProvider struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry        string   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Package      string   `json:"package,omitempty" yaml:"package,omitempty"`
	DocsURL      string   `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Channel      string   `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// LoadManifestFile reads the manifest at path and loads it into the registry.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc, r.LoadManifestDocument(doc)
}

// LoadManifestDocument registers the manifest widgets and their provider
// metadata, then reruns the widget hooks so scaffolded providers can attach
// to the new definitions.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return errors.New("dashboard: manifest document is nil")
	}
	for _, widget := range doc.Widgets {
		code := widget.Definition.Code
		if err := r.RegisterDefinition(widget.Definition); err != nil {
			return fmt.Errorf("dashboard: manifest %s: widget %s: %w", doc.Source, code, err)
		}
		if widget.Provider.isZero() {
			continue
		}
		r.mu.Lock()
		r.manifestMeta[code] = widget.Provider
		r.mu.Unlock()
	}
	return r.ApplyHooks()
}

// ReadManifest decodes the manifest at path without registering it.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: read manifest %s: %w", path, err)
	}
	doc, err := DecodeManifest(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("dashboard: manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest parses and validates a manifest. Unknown fields are
// rejected and a missing version means version 1.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc WidgetManifestDocument
	switch err := dec.Decode(&doc); {
	case errors.Is(err, io.EOF):
		return nil, errors.New("dashboard: manifest is empty")
	case err != nil:
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = ManifestVersion
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate reports every problem of the document at once: version, widget
// codes and names, area codes and layout references.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != ManifestVersion {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	return errors.Join(doc.checkWidgets(), doc.checkLayout())
}

func (doc *WidgetManifestDocument) checkWidgets() error {
	var errs []error
	seen := make(map[string]bool, len(doc.Widgets))
	for i, w := range doc.Widgets {
		code := w.Definition.Code
		switch {
		case code == "":
			errs = append(errs, fmt.Errorf("dashboard: manifest widget at index %d is missing definition.code", i))
			continue
		case w.Definition.Name == "":
			errs = append(errs, fmt.Errorf("dashboard: manifest widget %s missing definition.name", code))
		case seen[code]:
			errs = append(errs, fmt.Errorf("dashboard: manifest duplicates widget code %s", code))
		}
		seen[code] = true
	}
	return errors.Join(errs...)
}

// checkLayout accepts any area when the manifest declares none, since the
// built-in rows may be the target.
func (doc *WidgetManifestDocument) checkLayout() error {
	var errs []error
	declared := make(map[string]bool, len(doc.Areas))
	for i, area := range doc.Areas {
		if area.Code == "" {
			errs = append(errs, fmt.Errorf("dashboard: manifest area at index %d is missing code", i))
		}
		declared[area.Code] = true
	}
	for i, p := range doc.Layout {
		switch {
		case p.Widget == "" || p.Area == "":
			errs = append(errs, fmt.Errorf("dashboard: manifest layout entry %d needs widget and area", i))
		case len(declared) > 0 && !declared[p.Area]:
			errs = append(errs, fmt.Errorf("dashboard: manifest layout entry %d references unknown area %s", i, p.Area))
		}
	}
	return errors.Join(errs...)
}

// SeedRequests turns the layout placements into AddWidget requests, in
// manifest order.
func (doc *WidgetManifestDocument) SeedRequests() []AddWidgetRequest {
	if doc == nil {
		return nil
	}
	var out []AddWidgetRequest
	for _, p := range doc.Layout {
		out = append(out, AddWidgetRequest{
			DefinitionID:  p.Widget,
			AreaCode:      p.Area,
			Configuration: maps.Clone(p.Configuration),
			Roles:         slices.Clone(p.Roles),
		})
	}
	return out
}

func (p ManifestProvider) isZero() bool {
	return p.Name == "" && p.Summary == "" && p.Entry == "" && p.Package == "" &&
		p.DocsURL == "" && p.Channel == "" && len(p.Capabilities) == 0
}
