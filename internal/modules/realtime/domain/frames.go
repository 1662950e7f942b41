package domain

// Frame types exchanged over the tracking socket.
const (
	FrameSubscribe  = "subscribe"
	FrameWelcome    = "welcome"
	FrameSubscribed = "subscribed"
	FrameEcho       = "echo"
)

// WelcomeFrame carries the verified identity claims, sent once per connection
// right after the handshake is accepted.
type WelcomeFrame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// NewWelcomeFrame builds the welcome frame for the given claims.
func NewWelcomeFrame(claims map[string]any) WelcomeFrame {
	return WelcomeFrame{Type: FrameWelcome, Data: claims}
}

// SubscribedFrame acknowledges a topic switch.
type SubscribedFrame struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// NewSubscribedFrame builds the acknowledgment for the given topic.
func NewSubscribedFrame(topic string) SubscribedFrame {
	return SubscribedFrame{Type: FrameSubscribed, Topic: topic}
}

// EchoFrame wraps client text that was not valid JSON.
type EchoFrame struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// NewEchoFrame wraps the raw text in an echo frame.
func NewEchoFrame(raw string) EchoFrame {
	return EchoFrame{Type: FrameEcho, Data: raw}
}
