package domain

import "testing"

func TestListQueryNormalizeDefaults(t *testing.T) {
	q := ListQuery{}.Normalize()
	if q.Limit != 50 {
		t.Fatalf("default limit = %d, want 50", q.Limit)
	}
	if q.Offset != 0 {
		t.Fatalf("default offset = %d, want 0", q.Offset)
	}
}

func TestListQueryNormalizeBounds(t *testing.T) {
	q := ListQuery{
		EventType:  "  pedido.creado ",
		RoutingKey: " pedido.creado",
		Limit:      1000,
		Offset:     -5,
	}.Normalize()

	if q.EventType != "pedido.creado" {
		t.Fatalf("event type not trimmed: %q", q.EventType)
	}
	if q.RoutingKey != "pedido.creado" {
		t.Fatalf("routing key not trimmed: %q", q.RoutingKey)
	}
	if q.Limit != 200 {
		t.Fatalf("limit not capped: %d", q.Limit)
	}
	if q.Offset != 0 {
		t.Fatalf("offset not floored: %d", q.Offset)
	}
}

func TestListQueryNormalizeKeepsValidValues(t *testing.T) {
	q := ListQuery{Limit: 25, Offset: 75}.Normalize()
	if q.Limit != 25 || q.Offset != 75 {
		t.Fatalf("valid paging altered: limit=%d offset=%d", q.Limit, q.Offset)
	}
}
