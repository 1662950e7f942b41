package port

import (
	"context"

	"logiflowEvents/internal/modules/notifications/domain"
)

// Store persists and queries notification records.
type Store interface {
	Insert(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, query domain.ListQuery) ([]domain.Notification, error)
	ListByCategory(ctx context.Context, category string, query domain.ListQuery) ([]domain.Notification, error)
}
