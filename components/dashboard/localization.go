package dashboard

import (
	"context"
	"fmt"
	"strings"
)

// TranslationService resolves widget titles and labels for a locale.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// StaticTranslator serves translations from an in-memory catalog keyed by
// locale then message key, e.g. loaded from the leadsctl config file.
type StaticTranslator map[string]map[string]string

// Translate looks the key up for the locale, its base language and "default".
func (t StaticTranslator) Translate(_ context.Context, key, locale string, _ map[string]any) (string, error) {
	catalogs := make(map[string]string, len(t))
	for catalogLocale, messages := range t {
		if value := messages[key]; value != "" {
			catalogs[catalogLocale] = value
		}
	}
	if value, ok := pickLocale(catalogs, locale); ok {
		return value, nil
	}
	return "", fmt.Errorf("dashboard: no translation for %s (%s)", key, locale)
}

// ResolveLocalizedValue returns the entry of values matching locale, then its
// base language (es-mx falls back to es), then "default", then fallback.
// Keys match case-insensitively.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if value, ok := pickLocale(values, locale); ok {
		return value
	}
	return fallback
}

func pickLocale(values map[string]string, locale string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	locale = normalizeLocale(locale)
	chain := []string{locale}
	if base, _, found := strings.Cut(locale, "-"); found && base != "" {
		chain = append(chain, base)
	}
	chain = append(chain, "default")
	for _, want := range chain {
		if want == "" {
			continue
		}
		for key, value := range values {
			if value != "" && normalizeLocale(key) == want {
				return value, true
			}
		}
	}
	return "", false
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

// NameForLocale returns the definition name for locale, or Name.
func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the definition description for locale, or Description.
func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func (def *WidgetDefinition) normalizeLocalizedFields() {
	def.NameLocalized = lowerLocaleKeys(def.NameLocalized)
	def.DescriptionLocalized = lowerLocaleKeys(def.DescriptionLocalized)
}

func lowerLocaleKeys(values map[string]string) map[string]string {
	var out map[string]string
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(values))
		}
		out[key] = value
	}
	return out
}

// translateOrFallback asks svc for key and falls back to fallback, then to
// the key itself.
func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
