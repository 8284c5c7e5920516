package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leads-dashboard/pkg/activity"
)

// Config is the leadsctl config file. Flags and environment variables
// override the values it sets.
type Config struct {
	Addr         string                       `yaml:"addr" validate:"required"`
	EventsAddr   string                       `yaml:"events_addr" validate:"omitempty,nefield=Addr"`
	BasePath     string                       `yaml:"base_path" validate:"required,startswith=/"`
	Templates    string                       `yaml:"templates"`
	Manifest     string                       `yaml:"manifest"`
	Refresh      string                       `yaml:"refresh"`
	Charts       ChartsConfig                 `yaml:"charts"`
	Analytics    AnalyticsConfig              `yaml:"analytics"`
	Activity     activity.Config              `yaml:"activity"`
	Viewer       ViewerConfig                 `yaml:"viewer"`
	Theme        map[string]string            `yaml:"theme" validate:"dive,keys,required,endkeys,required"`
	Translations map[string]map[string]string `yaml:"translations" validate:"dive,keys,required,endkeys"`
}

// ChartsConfig tunes the ECharts renderer.
type ChartsConfig struct {
	Theme      string `yaml:"theme"`
	AssetsHost string `yaml:"assets_host"`
	Height     string `yaml:"height"`
}

// AnalyticsConfig points the widgets at a remote reporting API instead of the
// built-in dataset.
type AnalyticsConfig struct {
	BaseURL string        `yaml:"base_url" validate:"omitempty,http_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// ViewerConfig is the viewer used for requests that carry no identity.
type ViewerConfig struct {
	UserID string   `yaml:"user_id" validate:"required"`
	Roles  []string `yaml:"roles" validate:"dive,required"`
	Locale string   `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
}

func defaultConfig() *Config {
	return &Config{
		Addr:     ":9876",
		BasePath: "/admin",
		Viewer: ViewerConfig{
			UserID: "demo",
			Roles:  []string{"admin"},
			Locale: "en",
		},
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("leadsctl: config file %s not found", path)
		}
		return nil, fmt.Errorf("leadsctl: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("leadsctl: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("leadsctl: config %s: %w", path, err)
	}
	return cfg, nil
}

var configValidator = validator.New()

// Validate checks the merged configuration, including the refresh schedule.
func (cfg *Config) Validate() error {
	if err := configValidator.Struct(cfg); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", f.Namespace(), f.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if cfg.Refresh != "" {
		if _, err := cron.ParseStandard(cfg.Refresh); err != nil {
			return fmt.Errorf("invalid config: refresh schedule %q: %w", cfg.Refresh, err)
		}
	}
	return nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
