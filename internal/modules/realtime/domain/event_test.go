package domain

import "testing"

func TestDecodeEventValidEnvelope(t *testing.T) {
	body := []byte(`{"type":"pedido.creado","data":{"orderId":"ord-1","status":"CREATED"}}`)

	event, ok := DecodeEvent(body)
	if !ok {
		t.Fatal("expected valid envelope")
	}
	if event.Type != "pedido.creado" {
		t.Fatalf("unexpected type: %s", event.Type)
	}
	if got := event.Data["orderId"]; got != "ord-1" {
		t.Fatalf("unexpected orderId: %v", got)
	}
}

func TestDecodeEventDegradesNonJSONToRaw(t *testing.T) {
	event, ok := DecodeEvent([]byte("not json at all"))
	if ok {
		t.Fatal("expected invalid envelope")
	}
	if event.Type != RawEventType {
		t.Fatalf("unexpected type: %s", event.Type)
	}
	if got := event.Data["raw"]; got != "not json at all" {
		t.Fatalf("raw body not preserved: %v", got)
	}
}

func TestMatchTopic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"pedido.creado", "pedido.creado", true},
		{"pedido.creado", "pedido.cancelado", false},
		{"pedido.*", "pedido.creado", true},
		{"pedido.*", "pedido.estado.actualizado", false},
		{"pedido.estado.*", "pedido.estado.actualizado", true},
		{"pedido.estado.*", "pedido.creado", false},
		{"*.creado", "pedido.creado", true},
		{"realtime.*", "realtime.location", true},
		{"realtime.*", "pedido.creado", false},
		{"*", "pedido", true},
		{"*", "pedido.creado", false},
		{"", "", true},
	}

	for _, tc := range cases {
		if got := MatchTopic(tc.pattern, tc.key); got != tc.want {
			t.Fatalf("MatchTopic(%q, %q) = %v, want %v", tc.pattern, tc.key, got, tc.want)
		}
	}
}
