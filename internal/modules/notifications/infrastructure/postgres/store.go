package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"logiflowEvents/internal/modules/notifications/domain"
)

// NotificationStore is the pgx-backed Store implementation.
type NotificationStore struct {
	pool *pgxpool.Pool
}

func NewNotificationStore(pool *pgxpool.Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

// EnsureSchema creates the notifications table when missing. Idempotent, run
// on every service start.
func (s *NotificationStore) EnsureSchema(ctx context.Context) error {
	const sql = `
		CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			event_type TEXT NOT NULL,
			routing_key TEXT,
			payload JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("ensure notifications schema: %w", err)
	}
	return nil
}

func (s *NotificationStore) Insert(ctx context.Context, n *domain.Notification) error {
	const sql = `
		INSERT INTO notifications (event_type, routing_key, payload, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	payload := []byte("{}")
	if n.Payload != nil {
		var err error
		if payload, err = json.Marshal(n.Payload); err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
	}

	if err := s.pool.QueryRow(ctx, sql, n.EventType, nullIfEmpty(n.RoutingKey), payload, n.ReceivedAt).Scan(&n.ID); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *NotificationStore) List(ctx context.Context, query domain.ListQuery) ([]domain.Notification, error) {
	q := query.Normalize()

	sql := `SELECT id, event_type, COALESCE(routing_key, ''), payload, created_at FROM notifications`
	var conds []string
	var args []any
	if q.EventType != "" {
		args = append(args, q.EventType)
		conds = append(conds, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if q.RoutingKey != "" {
		args = append(args, q.RoutingKey)
		conds = append(conds, fmt.Sprintf("routing_key = $%d", len(args)))
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, q.Limit, q.Offset)
	sql += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return s.query(ctx, sql, args...)
}

func (s *NotificationStore) ListByCategory(ctx context.Context, category string, query domain.ListQuery) ([]domain.Notification, error) {
	q := query.Normalize()
	const sql = `
		SELECT id, event_type, COALESCE(routing_key, ''), payload, created_at
		FROM notifications
		WHERE routing_key LIKE $1 || '.%'
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return s.query(ctx, sql, category, q.Limit, q.Offset)
}

func (s *NotificationStore) query(ctx context.Context, sql string, args ...any) ([]domain.Notification, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.EventType, &n.RoutingKey, &payload, &n.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &n.Payload); err != nil {
				return nil, fmt.Errorf("decode notification payload: %w", err)
			}
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
