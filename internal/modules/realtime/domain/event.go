package domain

import (
	"encoding/json"
	"strings"
)

// Routing keys published by the LogiFlow services. Queue bindings may replace
// any dot-delimited segment with "*" to match exactly one segment.
const (
	RouteOrderCreated      = "pedido.creado"
	RouteOrderStateUpdated = "pedido.estado.actualizado"
	RouteLocationUpdate    = "realtime.location"

	// DefaultTopic is the subscription a client gets when it does not name one.
	DefaultTopic = RouteLocationUpdate

	// RawEventType tags records built from bodies that were not valid JSON.
	RawEventType = "raw"
)

// Event is the envelope every producer publishes: a type tag plus an open,
// producer-defined payload. The routing key is derived once at publish time
// and travels outside the envelope.
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// DecodeEvent parses a broker or HTTP body into an Event. Bodies that are not
// a JSON object degrade to a raw event so a malformed producer never breaks
// the pipeline; the second return value reports whether the body was valid.
func DecodeEvent(body []byte) (Event, bool) {
	var event Event
	if err := json.Unmarshal(body, &event); err == nil {
		return event, true
	}
	return Event{
		Type: RawEventType,
		Data: map[string]any{"raw": string(body)},
	}, false
}

// MatchTopic reports whether a routing key matches a dot-delimited pattern.
// A "*" segment in the pattern matches exactly one segment of the key.
func MatchTopic(pattern, key string) bool {
	if pattern == key {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	patternSegments := strings.Split(pattern, ".")
	keySegments := strings.Split(key, ".")
	if len(patternSegments) != len(keySegments) {
		return false
	}
	for i, segment := range patternSegments {
		if segment == "*" {
			continue
		}
		if segment != keySegments[i] {
			return false
		}
	}
	return true
}
