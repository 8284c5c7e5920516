package analytics

import (
	"context"
	"sync"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

// MockClient implements Client from an in-memory dataset, for tests or local demos.
type MockClient struct {
	mu   sync.RWMutex
	data leads.Dataset
}

// NewMockClient builds a mock client from the provided dataset.
func NewMockClient(data leads.Dataset) *MockClient {
	return &MockClient{data: data}
}

// NewDefaultMockClient serves the constant leads overview dataset.
func NewDefaultMockClient() *MockClient {
	return NewMockClient(leads.DefaultDataset())
}

// Replace swaps the served dataset.
func (c *MockClient) Replace(data leads.Dataset) {
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
}

// FetchFunnel returns a copy of the funnel overview.
func (c *MockClient) FetchFunnel(context.Context) (leads.FunnelOverview, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.data.Funnel
	out.Stages = append([]leads.FunnelStage(nil), c.data.Funnel.Stages...)
	return out, nil
}

// FetchSources returns a copy of the sources.
func (c *MockClient) FetchSources(context.Context) ([]leads.Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]leads.Source(nil), c.data.Sources...), nil
}

// FetchTracking returns a copy of the tracking summary.
func (c *MockClient) FetchTracking(context.Context) (leads.TrackingSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.data.Tracking
	out.Points = append([]leads.TrackingPoint(nil), c.data.Tracking.Points...)
	return out, nil
}

// FetchStats returns copies of both tile sets.
func (c *MockClient) FetchStats(context.Context) (StatsReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return StatsReport{
		LostReasons: append([]leads.LostReason(nil), c.data.Reasons...),
		OtherStats:  append([]leads.OtherStat(nil), c.data.Other...),
	}, nil
}
