package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"logiflowEvents/internal/modules/realtime/application/usecase"
	"logiflowEvents/internal/modules/realtime/domain"
)

type stubBroadcaster struct {
	topic     string
	event     domain.Event
	delivered int
}

func (s *stubBroadcaster) Fanout(_ context.Context, topic string, event domain.Event) int {
	s.topic = topic
	s.event = event
	return s.delivered
}

func performPublish(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/ws/publish", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestPublishUsesEventTypeAsTopic(t *testing.T) {
	broadcaster := &stubBroadcaster{delivered: 3}
	handler := NewPublishHTTPHandler(usecase.NewBroadcastUseCase(broadcaster), "realtime.location")

	rec := performPublish(t, handler, `{"type":"pedido.creado","data":{"orderId":"ord-1"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if broadcaster.topic != "pedido.creado" {
		t.Fatalf("fan-out topic = %s, want pedido.creado", broadcaster.topic)
	}
	var res PublishResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("response not json: %v", err)
	}
	if res.Topic != "pedido.creado" || res.Delivered != 3 {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestPublishDefaultsTopicWhenTypeMissing(t *testing.T) {
	broadcaster := &stubBroadcaster{}
	handler := NewPublishHTTPHandler(usecase.NewBroadcastUseCase(broadcaster), "realtime.location")

	rec := performPublish(t, handler, `{"data":{"lat":4.6}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if broadcaster.topic != "realtime.location" {
		t.Fatalf("fan-out topic = %s, want realtime.location", broadcaster.topic)
	}
}

func TestPublishRejectsMalformedBody(t *testing.T) {
	broadcaster := &stubBroadcaster{}
	handler := NewPublishHTTPHandler(usecase.NewBroadcastUseCase(broadcaster), "realtime.location")

	rec := performPublish(t, handler, `{"type":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if broadcaster.topic != "" {
		t.Fatal("broadcast reached on malformed body")
	}
}
