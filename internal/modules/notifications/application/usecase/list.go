package usecase

import (
	"context"
	"errors"
	"strings"

	"logiflowEvents/internal/modules/notifications/application/port"
	"logiflowEvents/internal/modules/notifications/domain"
)

var ErrInvalidCategory = errors.New("invalid category")

// ListUseCase answers the notification query surface.
type ListUseCase struct {
	store port.Store
}

func NewListUseCase(store port.Store) *ListUseCase {
	return &ListUseCase{store: store}
}

// List returns notifications matching the exact filters, newest first.
func (uc *ListUseCase) List(ctx context.Context, query domain.ListQuery) ([]domain.Notification, error) {
	return uc.store.List(ctx, query.Normalize())
}

// ListByCategory returns notifications whose routing key matches the
// single-segment prefix pattern "category.*".
func (uc *ListUseCase) ListByCategory(ctx context.Context, category string, query domain.ListQuery) ([]domain.Notification, error) {
	category = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(category), ".*"))
	if category == "" || strings.ContainsAny(category, ".*") {
		return nil, ErrInvalidCategory
	}
	return uc.store.ListByCategory(ctx, category, query.Normalize())
}
