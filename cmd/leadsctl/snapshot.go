package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

type snapshotCmd struct {
	Format       string `default:"yaml" enum:"yaml,json" help:"Output format (yaml,json)."`
	Out          string `type:"path" help:"Write to this file instead of stdout."`
	AnalyticsURL string `name:"analytics-url" env:"LEADS_ANALYTICS_URL" help:"Remote reporting API base URL."`
	AnalyticsKey string `name:"analytics-key" env:"LEADS_ANALYTICS_KEY" help:"Remote reporting API key."`
}

func (cmd *snapshotCmd) Run(ctx context.Context, cfg *Config, logger zerolog.Logger) error {
	override(&cfg.Analytics.BaseURL, cmd.AnalyticsURL)
	override(&cfg.Analytics.APIKey, cmd.AnalyticsKey)
	repo, err := leadsRepository(cfg.Analytics)
	if err != nil {
		return err
	}
	dataset, err := leads.Snapshot(ctx, repo)
	if err != nil {
		return fmt.Errorf("leadsctl: snapshot: %w", err)
	}

	var out io.Writer = os.Stdout
	if cmd.Out != "" {
		file, err := os.Create(cmd.Out) //nolint:gosec
		if err != nil {
			return fmt.Errorf("leadsctl: create %s: %w", cmd.Out, err)
		}
		defer file.Close()
		out = file
	}
	if err := writeDataset(out, dataset, cmd.Format); err != nil {
		return err
	}
	if cmd.Out != "" {
		logger.Info().Str("path", cmd.Out).Str("format", cmd.Format).Msg("snapshot written")
	}
	return nil
}

func writeDataset(w io.Writer, dataset leads.Dataset, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(dataset)
	case "yaml", "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(dataset)
	default:
		return fmt.Errorf("leadsctl: unknown format %q", format)
	}
}
