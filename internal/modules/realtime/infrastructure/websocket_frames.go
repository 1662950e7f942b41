package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"

	"logiflowEvents/internal/modules/realtime/domain"
)

type inboundFrame struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

func (f inboundFrame) typeKey() string {
	return strings.ToLower(strings.TrimSpace(f.Type))
}

// FrameHandler reacts to one recognized inbound frame type.
type FrameHandler func(client *Client, frame inboundFrame)

// FrameProcessor interprets inbound client frames. Subscribe frames switch
// the client's topic; any other JSON payload is echoed back verbatim, and
// text that is not valid JSON is wrapped in an echo frame.
type FrameProcessor struct {
	hub      *Hub
	handlers map[string]FrameHandler
}

func NewFrameProcessor(hub *Hub) *FrameProcessor {
	p := &FrameProcessor{
		hub:      hub,
		handlers: make(map[string]FrameHandler),
	}
	p.Register(domain.FrameSubscribe, p.handleSubscribe)
	return p
}

func (p *FrameProcessor) Register(frameType string, handler FrameHandler) {
	key := strings.ToLower(strings.TrimSpace(frameType))
	if key == "" || handler == nil {
		return
	}
	p.handlers[key] = handler
}

func (p *FrameProcessor) Process(client *Client, raw []byte) {
	if !json.Valid(raw) {
		client.SendFrame(domain.NewEchoFrame(string(raw)))
		return
	}

	var frame inboundFrame
	// Valid JSON that is not an object falls through to the verbatim echo.
	_ = json.Unmarshal(raw, &frame)

	if handler, ok := p.handlers[frame.typeKey()]; ok {
		handler(client, frame)
		return
	}

	if !client.enqueue(raw) {
		go p.hub.Detach(client)
	}
}

func (p *FrameProcessor) handleSubscribe(client *Client, frame inboundFrame) {
	topic := strings.TrimSpace(frame.Topic)
	if topic == "" {
		topic = domain.DefaultTopic
	}
	p.hub.Subscribe(client, topic)
	client.SendFrame(domain.NewSubscribedFrame(topic))
	slog.Debug("ws subscribe", slog.String("userId", client.userID), slog.String("topic", topic))
}
