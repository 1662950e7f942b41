package usecase

import (
	"context"

	"logiflowEvents/internal/modules/realtime/application/port"
	"logiflowEvents/internal/modules/realtime/domain"
)

// BroadcastUseCase delivers one event to the subscribers of a topic.
type BroadcastUseCase struct {
	broadcaster port.Broadcaster
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

// Execute fans the event out and returns the delivered connection count.
func (uc *BroadcastUseCase) Execute(ctx context.Context, topic string, event domain.Event) int {
	return uc.broadcaster.Fanout(ctx, topic, event)
}
