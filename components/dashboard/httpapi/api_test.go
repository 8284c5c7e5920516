package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leads-dashboard/components/dashboard"
	"github.com/goliatone/go-leads-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-leads-dashboard/components/leads"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

func TestHandleAssignWidget(t *testing.T) {
	assign := &stubCommander[dashboard.AddWidgetRequest]{}
	api := &Handlers{Assign: assign}
	payload := dashboard.AddWidgetRequest{DefinitionID: dashboard.WidgetFunnelCount, AreaCode: dashboard.AreaPipeline}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/widgets", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleAssignWidget(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, assign.calls)
	assert.Equal(t, dashboard.AreaPipeline, assign.last.AreaCode)
}

func TestHandleAssignWidgetInvalidConfiguration(t *testing.T) {
	assign := &stubCommander[dashboard.AddWidgetRequest]{
		err: fmt.Errorf("%w: bad tab", dashboard.ErrInvalidConfiguration),
	}
	api := &Handlers{Assign: assign}
	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	api.HandleAssignWidget(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRemoveWidget(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	api := &Handlers{Remove: remove}
	req := httptest.NewRequest(http.MethodDelete, "/widgets/w1", nil)
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, req, "w1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "w1", remove.last.WidgetID)
}

func TestHandleReorderWidgets(t *testing.T) {
	reorder := &stubCommander[commands.ReorderWidgetsInput]{}
	api := &Handlers{Reorder: reorder}
	payload := commands.ReorderWidgetsInput{AreaCode: dashboard.AreaPipeline, WidgetIDs: []string{"w1", "w2"}}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/widgets/reorder", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleReorderWidgets(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"w1", "w2"}, reorder.last.WidgetIDs)
}

func TestHandleRefreshWidget(t *testing.T) {
	refresh := &stubCommander[commands.RefreshWidgetInput]{}
	api := &Handlers{Refresh: refresh}
	payload := commands.RefreshWidgetInput{AreaCode: dashboard.AreaTracking}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/widgets/refresh", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleRefreshWidget(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, dashboard.AreaTracking, refresh.last.AreaCode)
}

func newServiceExecutor() *CommandExecutor {
	service := dashboard.NewService(dashboard.Options{WidgetStore: dashboard.NewInMemoryWidgetStore()})
	return NewCommandExecutor(service, nil)
}

func TestHandleSelectTimeRangeReturnsState(t *testing.T) {
	api := &Handlers{
		Shell:  newServiceExecutor(),
		Viewer: func(*http.Request) dashboard.ViewerContext { return dashboard.ViewerContext{UserID: "user-1"} },
	}
	body := `{"scope":"tracking","value":"last 30 days"}`
	req := httptest.NewRequest(http.MethodPost, "/shell/time-range", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.HandleSelectTimeRange(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.ShellState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, leads.RangeLast30Days, state.TrackingRange)
	assert.Equal(t, leads.DefaultTimeRange, state.TimeRange)
}

func TestHandleSelectTimeRangeRejectsUnknownValue(t *testing.T) {
	api := &Handlers{
		Shell:  newServiceExecutor(),
		Viewer: func(*http.Request) dashboard.ViewerContext { return dashboard.ViewerContext{UserID: "user-1"} },
	}
	req := httptest.NewRequest(http.MethodPost, "/shell/time-range", strings.NewReader(`{"value":"Yesterday"}`))
	rec := httptest.NewRecorder()
	api.HandleSelectTimeRange(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleToggleSidebarRequiresViewer(t *testing.T) {
	api := &Handlers{Shell: newServiceExecutor()}
	req := httptest.NewRequest(http.MethodPost, "/shell/sidebar", nil)
	rec := httptest.NewRecorder()
	api.HandleToggleSidebar(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleToggleSidebarTwiceRestoresState(t *testing.T) {
	api := &Handlers{
		Shell:  newServiceExecutor(),
		Viewer: func(*http.Request) dashboard.ViewerContext { return dashboard.ViewerContext{UserID: "user-1"} },
	}
	var state dashboard.ShellState
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		api.HandleToggleSidebar(rec, httptest.NewRequest(http.MethodPost, "/shell/sidebar", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, i == 0, state.SidebarCollapsed)
	}
}

func TestCommandExecutorUnconfigured(t *testing.T) {
	exec := &CommandExecutor{}
	err := exec.Assign(context.Background(), dashboard.AddWidgetRequest{})
	assert.ErrorIs(t, err, errNotConfigured)
	_, err = exec.Shell(context.Background(), dashboard.ViewerContext{})
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{dashboard.ErrUnknownNavItem, http.StatusBadRequest},
		{dashboard.ErrUnknownScope, http.StatusBadRequest},
		{dashboard.ErrMissingViewer, http.StatusBadRequest},
		{leads.ErrUnknownSourceTab, http.StatusBadRequest},
		{commands.ErrMissingArea, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", leads.ErrUnknownTimeRange), http.StatusBadRequest},
		{errors.New("store offline"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), "error %v", tc.err)
	}
}
