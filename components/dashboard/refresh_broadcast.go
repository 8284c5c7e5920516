package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 8

// BroadcastHook is a RefreshHook that fans widget events out to in-process
// subscribers. A subscriber that falls behind loses events instead of
// blocking the service.
type BroadcastHook struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*subscription
}

type subscription struct {
	viewer string
	events chan WidgetEvent
}

// visible reports whether evt belongs on this subscription. Unscoped events
// reach everyone and unscoped subscriptions see every event.
func (s *subscription) visible(evt WidgetEvent) bool {
	return evt.UserID == "" || s.viewer == "" || s.viewer == evt.UserID
}

func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: map[uint64]*subscription{}}
}

// WidgetUpdated delivers event to every subscription that can see it.
func (h *BroadcastHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.visible(event) {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
	return nil
}

// Subscribe streams every widget event. Call cancel to stop; the channel is
// closed afterwards.
func (h *BroadcastHook) Subscribe() (<-chan WidgetEvent, func()) {
	return h.SubscribeViewer("")
}

// SubscribeViewer streams unscoped events plus the events of userID.
func (h *BroadcastHook) SubscribeViewer(userID string) (<-chan WidgetEvent, func()) {
	sub := &subscription{viewer: userID, events: make(chan WidgetEvent, subscriberBuffer)}
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	return sub.events, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.events)
		})
	}
}

// stream forwards events to write until ctx ends, the subscription closes
// or write fails.
func stream(ctx context.Context, events <-chan WidgetEvent, write func(WidgetEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if err := write(evt); err != nil {
				return err
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket streams widget events as JSON frames. The user_id query
// parameter scopes the stream to one viewer.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	events, cancel := h.SubscribeViewer(r.URL.Query().Get("user_id"))
	defer cancel()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	_ = stream(r.Context(), events, func(evt WidgetEvent) error {
		return conn.WriteJSON(evt)
	})
}

// ServeSSE streams widget events as server-sent events named after the
// event reason. The user_id query parameter scopes the stream.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	events, cancel := h.SubscribeViewer(r.URL.Query().Get("user_id"))
	defer cancel()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	_ = stream(r.Context(), events, func(evt WidgetEvent) error {
		data, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Reason, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
}
