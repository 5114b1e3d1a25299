package events_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinoai/omnicast/internal/domain"
	"github.com/dinoai/omnicast/internal/events"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyFansOut(t *testing.T) {
	h := events.NewHub(discardLogger(), nil)

	first, cancelFirst := h.Subscribe()
	second, cancelSecond := h.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	h.Notify(domain.Event{Type: "assist", Success: true})

	for _, ch := range []<-chan domain.Event{first, second} {
		select {
		case e := <-ch:
			assert.Equal(t, "assist", e.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestNotifyNeverBlocks(t *testing.T) {
	h := events.NewHub(discardLogger(), nil)

	_, cancel := h.Subscribe()
	defer cancel()

	// Well past the subscriber buffer; the hub must keep accepting.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Notify(domain.Event{Type: "publish"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a slow subscriber")
	}
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	h := events.NewHub(discardLogger(), nil)

	ch, cancel := h.Subscribe()
	cancel()

	h.Notify(domain.Event{Type: "assist"})
	select {
	case <-ch:
		t.Fatal("cancelled subscriber received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebsocketStreaming(t *testing.T) {
	h := events.NewHub(discardLogger(), nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// The subscription is registered during the upgrade; give the handler
	// a moment to enter its send loop.
	time.Sleep(20 * time.Millisecond)
	h.Notify(domain.Event{Type: "scheduled_publish", Platform: domain.PlatformTwitter, Success: true})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e domain.Event
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, "scheduled_publish", e.Type)
	assert.Equal(t, domain.PlatformTwitter, e.Platform)
	assert.True(t, e.Success)
}

func TestWebsocketClientDisconnectReleasesHandler(t *testing.T) {
	h := events.NewHub(discardLogger(), nil)
	srv := httptest.NewServer(h.Handler())

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.NoError(t, conn.Close())

	// Close waits for the handler; a write loop still parked on the event
	// channel after the peer is gone would hang here.
	closed := make(chan struct{})
	go func() {
		srv.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not release the connection after client disconnect")
	}
}

func TestWebsocketOriginCheck(t *testing.T) {
	h := events.NewHub(discardLogger(), func(r *http.Request) bool {
		return r.Header.Get("Origin") == "http://dashboard.test"
	})
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://evil.test"}})
	require.Error(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://dashboard.test"}})
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()
}
