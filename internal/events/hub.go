// Package events streams pipeline events (assist results, publish outcomes,
// scheduled dispatches) to dashboard clients over a websocket.
package events

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dinoai/omnicast/internal/domain"
)

const subscriberBuffer = 16

// Hub fans events out to connected subscribers. Notify never blocks: a
// subscriber that cannot keep up drops events.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan domain.Event]struct{}
	logger      *slog.Logger
	checkOrigin func(r *http.Request) bool
}

// NewHub creates an event hub. checkOrigin guards the websocket upgrade and
// may be nil to accept only same-origin requests.
func NewHub(logger *slog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		subscribers: make(map[chan domain.Event]struct{}),
		logger:      logger,
		checkOrigin: checkOrigin,
	}
}

// Notify implements domain.Notifier.
func (h *Hub) Notify(e domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- e:
		default:
			// slow subscriber, drop
		}
	}
}

// Subscribe registers a new subscriber channel. The returned cancel func
// must be called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Handler upgrades the request to a websocket and streams events as JSON
// until the client disconnects.
func (h *Hub) Handler() http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		events, cancel := h.Subscribe()
		defer cancel()

		// Drain client frames so close messages are processed; closing
		// done wakes the write loop, which otherwise sits on the event
		// channel long after the peer is gone.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-done:
				return
			case <-r.Context().Done():
				return
			case e := <-events:
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(e); err != nil {
					return
				}
			}
		}
	}
}
