package usecase

import (
	"context"
	"log/slog"
	"time"

	"logiflowEvents/internal/modules/notifications/application/port"
	"logiflowEvents/internal/modules/notifications/domain"
	rtdomain "logiflowEvents/internal/modules/realtime/domain"
)

// RecordUseCase applies the consumer's per-message policy: decode the
// envelope, degrading to a raw record for malformed bodies, persist it, and
// report success either way so the delivery is always acknowledged. A failed
// write is logged and not retried.
type RecordUseCase struct {
	store port.Store
	now   func() time.Time
}

func NewRecordUseCase(store port.Store) *RecordUseCase {
	return &RecordUseCase{store: store, now: time.Now}
}

func (uc *RecordUseCase) Execute(ctx context.Context, routingKey string, body []byte) error {
	event, ok := rtdomain.DecodeEvent(body)
	if !ok {
		slog.Warn("notification body not valid json, storing raw record", slog.String("routingKey", routingKey))
	}

	record := &domain.Notification{
		EventType:  event.Type,
		RoutingKey: routingKey,
		Payload:    event.Data,
		ReceivedAt: uc.now().UTC(),
	}

	if err := uc.store.Insert(ctx, record); err != nil {
		slog.Error("notification persist failed",
			slog.String("routingKey", routingKey),
			slog.String("eventType", record.EventType),
			slog.Any("error", err),
		)
	}
	return nil
}
