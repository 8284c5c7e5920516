package main

import (
	"net/http"

	"github.com/goliatone/go-leads-dashboard/components/leads"
	"github.com/goliatone/go-leads-dashboard/pkg/analytics"
)

// leadsRepository returns the remote reporting API repository when one is
// configured, otherwise the built-in dataset.
func leadsRepository(cfg AnalyticsConfig) (leads.Repository, error) {
	if cfg.BaseURL == "" {
		return leads.NewStaticRepository(), nil
	}
	httpCfg := analytics.HTTPConfig{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey}
	if cfg.Timeout > 0 {
		httpCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	client, err := analytics.NewHTTPClient(httpCfg)
	if err != nil {
		return nil, err
	}
	return analytics.NewRepository(client), nil
}
