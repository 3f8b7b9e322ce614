// Package realtime pushes submission events to connected dashboard and user
// clients over a websocket. The channel is at-most-once and best-effort; a
// client that falls behind or disconnects simply misses events and is
// expected to re-fetch authoritative state over the REST API.
package realtime

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/messaging"
)

const (
	subscriberBuffer = 64
	writeTimeout     = 5 * time.Second
)

type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan *messaging.SubmissionEvent]struct{}
	origins     []string
	logger      *zap.Logger
}

func NewHub(allowedOrigins []string, logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[chan *messaging.SubmissionEvent]struct{}),
		origins:     hostPatterns(allowedOrigins),
		logger:      logger,
	}
}

// hostPatterns maps configured origins onto the host-only patterns the
// websocket handshake compares against. Origins arrive scheme-qualified
// ("http://localhost:3000") from the shared CORS config, while the Origin
// check matches on host alone.
func hostPatterns(origins []string) []string {
	var patterns []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}

// Subscribe registers a buffered event channel. The caller must Unsubscribe
// when done.
func (h *Hub) Subscribe() chan *messaging.SubmissionEvent {
	ch := make(chan *messaging.SubmissionEvent, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan *messaging.SubmissionEvent) {
	h.mu.Lock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Broadcast fans an event out to every subscriber without blocking; an event
// is dropped for any subscriber whose buffer is full.
func (h *Hub) Broadcast(event *messaging.SubmissionEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				zap.String("event", event.Event))
		}
	}
}

// SubscriberCount reports the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// ServeHTTP upgrades the request to a websocket and pumps events until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if len(h.origins) > 0 {
		opts.OriginPatterns = h.origins
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	h.logger.Info("realtime client connected", zap.String("remote_addr", r.RemoteAddr))

	// Drain client frames so pings and close frames are processed.
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case <-readErr:
			h.logger.Info("realtime client disconnected", zap.String("remote_addr", r.RemoteAddr))
			conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case event, ok := <-sub:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "closed")
				return
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, event)
			cancelWrite()
			if err != nil {
				conn.Close(websocket.StatusNormalClosure, "write failed")
				return
			}
		}
	}
}
