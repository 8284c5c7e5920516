package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// HTTPConfig configures the HTTP leads client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient reads leads reports from a remote CRM reporting API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the reporting API at cfg.BaseURL.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchFunnel implements FunnelClient via GET /leads/funnel.
func (c *HTTPClient) FetchFunnel(ctx context.Context) (leads.FunnelOverview, error) {
	var resp funnelResponse
	if err := c.get(ctx, "/leads/funnel", &resp); err != nil {
		return leads.FunnelOverview{}, err
	}
	return resp.toOverview(), nil
}

// FetchSources implements SourcesClient via GET /leads/sources.
func (c *HTTPClient) FetchSources(ctx context.Context) ([]leads.Source, error) {
	var resp sourcesResponse
	if err := c.get(ctx, "/leads/sources", &resp); err != nil {
		return nil, err
	}
	return resp.toSources(), nil
}

// FetchTracking implements TrackingClient via GET /leads/tracking.
func (c *HTTPClient) FetchTracking(ctx context.Context) (leads.TrackingSummary, error) {
	var resp trackingResponse
	if err := c.get(ctx, "/leads/tracking", &resp); err != nil {
		return leads.TrackingSummary{}, err
	}
	return resp.toSummary(), nil
}

// FetchStats implements StatsClient via GET /leads/stats.
func (c *HTTPClient) FetchStats(ctx context.Context) (StatsReport, error) {
	var resp statsResponse
	if err := c.get(ctx, "/leads/stats", &resp); err != nil {
		return StatsReport{}, err
	}
	return resp.toReport(), nil
}

func (c *HTTPClient) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response %s: %w", path, err)
	}
	return nil
}

type funnelStage struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
	Days  int     `json:"days"`
	Color string  `json:"color"`
	Hint  string  `json:"hint,omitempty"`
}

type funnelResponse struct {
	ActiveLeads int           `json:"active_leads"`
	Stages      []funnelStage `json:"stages"`
}

func (r funnelResponse) toOverview() leads.FunnelOverview {
	stages := make([]leads.FunnelStage, len(r.Stages))
	for i, stage := range r.Stages {
		stages[i] = leads.FunnelStage{
			ID:    stage.ID,
			Name:  stage.Name,
			Count: stage.Count,
			Value: stage.Value,
			Days:  stage.Days,
			Color: stage.Color,
			Hint:  stage.Hint,
		}
	}
	return leads.FunnelOverview{ActiveLeads: r.ActiveLeads, Stages: stages}
}

type sourceEntry struct {
	Name      string  `json:"name"`
	DealValue float64 `json:"deal_value"`
	LeadShare float64 `json:"lead_share"`
	Color     string  `json:"color"`
}

type sourcesResponse struct {
	Sources []sourceEntry `json:"sources"`
}

func (r sourcesResponse) toSources() []leads.Source {
	out := make([]leads.Source, len(r.Sources))
	for i, src := range r.Sources {
		out[i] = leads.Source{Name: src.Name, DealValue: src.DealValue, LeadShare: src.LeadShare, Color: src.Color}
	}
	return out
}

type trackingPoint struct {
	Month      string `json:"month"`
	ClosedWon  int    `json:"closed_won"`
	ClosedLost int    `json:"closed_lost"`
}

type trackingResponse struct {
	TotalClosed int             `json:"total_closed"`
	TotalLost   int             `json:"total_lost"`
	Points      []trackingPoint `json:"points"`
}

func (r trackingResponse) toSummary() leads.TrackingSummary {
	points := make([]leads.TrackingPoint, len(r.Points))
	for i, p := range r.Points {
		points[i] = leads.TrackingPoint{Month: p.Month, ClosedWon: p.ClosedWon, ClosedLost: p.ClosedLost}
	}
	return leads.TrackingSummary{TotalClosed: r.TotalClosed, TotalLost: r.TotalLost, Points: points}
}

type lostReason struct {
	ID          string  `json:"id"`
	Percentage  float64 `json:"percentage"`
	Description string  `json:"description"`
}

type otherStat struct {
	ID       string  `json:"id"`
	Value    float64 `json:"value"`
	Label    string  `json:"label"`
	InfoText string  `json:"info_text,omitempty"`
}

type statsResponse struct {
	LostReasons []lostReason `json:"lost_reasons"`
	OtherStats  []otherStat  `json:"other_stats"`
}

func (r statsResponse) toReport() StatsReport {
	report := StatsReport{
		LostReasons: make([]leads.LostReason, len(r.LostReasons)),
		OtherStats:  make([]leads.OtherStat, len(r.OtherStats)),
	}
	for i, reason := range r.LostReasons {
		report.LostReasons[i] = leads.LostReason{ID: reason.ID, Percentage: reason.Percentage, Description: reason.Description}
	}
	for i, stat := range r.OtherStats {
		report.OtherStats[i] = leads.OtherStat{ID: stat.ID, Value: stat.Value, Label: stat.Label, InfoText: stat.InfoText}
	}
	return report
}
