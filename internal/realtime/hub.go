// Package realtime pushes progress updates to connected learners over
// websockets.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pathforge/internal/metrics"
)

// Message types.
const (
	TypeTopicCompleted  = "topic_completed"
	TypeRecommendations = "recommendations"
)

const (
	subscriberBuffer = 16
	writeTimeout     = 5 * time.Second
)

// Message is one update sent to a user's subscribers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans messages out to each user's open subscriptions.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Message]struct{})}
}

// Subscribe registers a buffered channel for userID. The returned func
// removes the subscription and closes the channel.
func (h *Hub) Subscribe(userID string) (<-chan Message, func()) {
	ch := make(chan Message, subscriberBuffer)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Message]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
			metrics.RealtimeSubscribers.Dec()
		})
	}
}

// Publish delivers msg to every subscription of userID. Slow subscribers
// whose buffer is full miss the message.
func (h *Hub) Publish(userID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- msg:
		default:
			slog.Warn("dropping realtime message for slow subscriber", "user_id", userID, "type", msg.Type)
		}
	}
}

// Subscribers returns the number of open subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Serve upgrades the request and streams userID's messages until either
// side goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "user_id", userID, "error", err)
		return
	}
	defer conn.CloseNow()

	msgs, unsubscribe := h.Subscribe(userID)
	defer unsubscribe()

	// Clients only listen; CloseRead handles control frames and cancels
	// ctx when the peer closes.
	ctx := conn.CloseRead(r.Context())
	slog.Info("progress stream opened", "user_id", userID)

	for {
		select {
		case <-ctx.Done():
			slog.Info("progress stream closed", "user_id", userID)
			return
		case msg := <-msgs:
			if err := write(ctx, conn, msg); err != nil {
				slog.Warn("progress stream write failed", "user_id", userID, "error", err)
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
