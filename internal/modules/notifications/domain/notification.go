package domain

import (
	"strings"
	"time"
)

// Notification is the durable record of one consumed event. Rows are
// append-only and never mutated after insertion.
type Notification struct {
	ID         int64          `json:"id"`
	EventType  string         `json:"event_type"`
	RoutingKey string         `json:"routing_key"`
	Payload    map[string]any `json:"payload"`
	ReceivedAt time.Time      `json:"received_at"`
}

// ListQuery carries the notification list filters. Results are always
// reverse-chronological.
type ListQuery struct {
	EventType  string
	RoutingKey string
	Limit      int
	Offset     int
}

// Normalize returns a sanitized copy applying paging defaults and bounds.
func (q ListQuery) Normalize() ListQuery {
	normalized := q
	normalized.EventType = strings.TrimSpace(normalized.EventType)
	normalized.RoutingKey = strings.TrimSpace(normalized.RoutingKey)
	if normalized.Limit <= 0 {
		normalized.Limit = 50
	}
	if normalized.Limit > 200 {
		normalized.Limit = 200
	}
	if normalized.Offset < 0 {
		normalized.Offset = 0
	}
	return normalized
}
