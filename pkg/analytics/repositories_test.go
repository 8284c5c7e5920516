package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leads-dashboard/components/leads"
)

func TestRepositoryDelegatesToClient(t *testing.T) {
	repo := NewRepository(NewDefaultMockClient())
	ctx := context.Background()

	snapshot, err := leads.Snapshot(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, leads.DefaultDataset(), snapshot)
}

type countingClient struct {
	*MockClient
	statsCalls int
}

func (c *countingClient) FetchStats(ctx context.Context) (StatsReport, error) {
	c.statsCalls++
	return c.MockClient.FetchStats(ctx)
}

func TestRepositoryLoadsStatsWithOneRequest(t *testing.T) {
	client := &countingClient{MockClient: NewDefaultMockClient()}
	repo := NewRepository(client)
	ctx := context.Background()

	stats, err := leads.LoadStats(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, leads.DefaultDataset().Reasons, stats.LostReasons)
	assert.Equal(t, leads.DefaultDataset().Other, stats.OtherStats)
	assert.Equal(t, 1, client.statsCalls)

	_, err = leads.Snapshot(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, client.statsCalls, "a snapshot fetches the stats report once")
}

func TestMockClientReturnsCopies(t *testing.T) {
	mock := NewDefaultMockClient()
	ctx := context.Background()

	sources, err := mock.FetchSources(ctx)
	require.NoError(t, err)
	sources[0].Name = "changed"

	again, err := mock.FetchSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Clutch", again[0].Name)

	mock.Replace(leads.Dataset{})
	funnel, err := mock.FetchFunnel(ctx)
	require.NoError(t, err)
	assert.Empty(t, funnel.Stages)
}
