package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/modules/notifications/application/usecase"
	"logiflowEvents/internal/modules/notifications/domain"
)

type stubStore struct {
	items     []domain.Notification
	lastQuery domain.ListQuery
	category  string
}

func (s *stubStore) Insert(context.Context, *domain.Notification) error { return nil }

func (s *stubStore) List(_ context.Context, query domain.ListQuery) ([]domain.Notification, error) {
	s.lastQuery = query
	return s.items, nil
}

func (s *stubStore) ListByCategory(_ context.Context, category string, query domain.ListQuery) ([]domain.Notification, error) {
	s.category = category
	s.lastQuery = query
	return s.items, nil
}

func performList(t *testing.T, handler echo.HandlerFunc, target string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestListHandlerAppliesQueryFilters(t *testing.T) {
	store := &stubStore{items: []domain.Notification{{
		ID:         1,
		EventType:  "pedido.creado",
		RoutingKey: "pedido.creado",
		Payload:    map[string]any{"orderId": "ord-1"},
		ReceivedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}}}
	handler := NewListHandler(usecase.NewListUseCase(store))

	rec := performList(t, handler, "/api/notifications?event_type=pedido.creado&limit=10&offset=5")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.lastQuery.EventType != "pedido.creado" {
		t.Fatalf("event_type filter not applied: %+v", store.lastQuery)
	}
	if store.lastQuery.Limit != 10 || store.lastQuery.Offset != 5 {
		t.Fatalf("paging not applied: %+v", store.lastQuery)
	}

	var res ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response not json: %v", err)
	}
	if res.Count != 1 || len(res.Items) != 1 {
		t.Fatalf("unexpected response: %+v", res)
	}
	if res.Items[0].EventType != "pedido.creado" {
		t.Fatalf("unexpected item: %+v", res.Items[0])
	}
}

func TestListHandlerReturnsEmptyArrayNotNull(t *testing.T) {
	handler := NewListHandler(usecase.NewListUseCase(&stubStore{}))

	rec := performList(t, handler, "/api/notifications")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("response not json: %v", err)
	}
	if string(raw["items"]) != "[]" {
		t.Fatalf("items = %s, want []", raw["items"])
	}
}

func TestCategoryHandlerFiltersByPrefix(t *testing.T) {
	store := &stubStore{}
	handler := NewCategoryHandler(usecase.NewListUseCase(store))

	rec := performList(t, handler, "/api/notifications/category/pedido", "category", "pedido")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.category != "pedido" {
		t.Fatalf("category = %q, want pedido", store.category)
	}
}

func TestCategoryHandlerRejectsInvalidCategory(t *testing.T) {
	store := &stubStore{}
	handler := NewCategoryHandler(usecase.NewListUseCase(store))

	rec := performList(t, handler, "/api/notifications/category/ped.ido", "category", "ped.ido")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if store.category != "" {
		t.Fatal("store reached for invalid category")
	}
}
