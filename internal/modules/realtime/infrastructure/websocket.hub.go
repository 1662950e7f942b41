package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"logiflowEvents/internal/modules/realtime/domain"
)

// Hub owns the connection registry and the topic subscription index. A client
// is subscribed to exactly one topic at a time; Subscribe moves it between
// topic sets atomically. All mutations and fan-out reads go through h.mu.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
	}
}

// Attach registers the client and subscribes it to its initial topic.
func (h *Hub) Attach(c *Client, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = domain.DefaultTopic
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.subscribeLocked(c, topic)
	h.mu.Unlock()
	slog.Info("ws client attached", slog.String("userId", c.userID), slog.String("topic", topic))
}

// Subscribe switches the client to a new topic, removing it from the previous
// topic's set in the same critical section.
func (h *Hub) Subscribe(c *Client, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = domain.DefaultTopic
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.unsubscribeLocked(c)
	h.subscribeLocked(c, topic)
	slog.Debug("ws client subscribed", slog.String("userId", c.userID), slog.String("topic", topic))
}

func (h *Hub) subscribeLocked(c *Client, topic string) {
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.topic = topic
}

func (h *Hub) unsubscribeLocked(c *Client) {
	if subs, ok := h.topics[c.topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, c.topic)
		}
	}
	c.topic = ""
}

// Detach removes the client from its topic set and the registry and closes it.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	h.unsubscribeLocked(c)
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
	slog.Info("ws client detached", slog.String("userId", c.userID))
}

// Fanout delivers the event to every client whose subscription matches the
// topic. Subscriptions may carry "*" wildcard segments, so the sweep walks a
// snapshot of the matching subscriber sets; clients whose send stalls or
// fails are reaped after the sweep and excluded from the count.
func (h *Hub) Fanout(_ context.Context, topic string, event domain.Event) int {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("fan-out marshal error", slog.String("topic", topic), slog.Any("error", err))
		return 0
	}

	h.mu.RLock()
	var targets []*Client
	for pattern, subs := range h.topics {
		if !domain.MatchTopic(pattern, topic) {
			continue
		}
		for c := range subs {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	var dead []*Client
	for _, c := range targets {
		if c.enqueue(data) {
			delivered++
		} else {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		slog.Warn("ws client unresponsive, reaping", slog.String("userId", c.userID), slog.String("topic", topic))
		h.Detach(c)
	}
	return delivered
}

// SubscriberCount reports how many clients are subscribed to exactly topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// ClientCount reports how many clients are registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
