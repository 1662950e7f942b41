package infrastructure

import (
	"context"

	"logiflowEvents/internal/modules/realtime/application/port"
	"logiflowEvents/internal/modules/realtime/domain"
)

// HandlerRegistry routes broker deliveries to the first handler whose binding
// pattern matches the delivery's routing key.
type HandlerRegistry struct {
	handlers []port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	if h == nil {
		return
	}
	r.handlers = append(r.handlers, h)
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, routingKey string, event domain.Event) error {
	for _, h := range r.handlers {
		if domain.MatchTopic(h.Pattern(), routingKey) {
			return h.Handle(ctx, routingKey, event)
		}
	}
	return nil
}
