package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.GatewayPort != "5005" {
		t.Fatalf("gateway port = %s, want 5005", cfg.Server.GatewayPort)
	}
	if cfg.Server.NotifierPort != "5007" {
		t.Fatalf("notifier port = %s, want 5007", cfg.Server.NotifierPort)
	}
	if cfg.AMQP.Exchange != "logiflow.events" {
		t.Fatalf("exchange = %s", cfg.AMQP.Exchange)
	}
	if cfg.Gateway.Queue != "realtime.broadcast" {
		t.Fatalf("gateway queue = %s", cfg.Gateway.Queue)
	}
	if len(cfg.Gateway.Bindings) != 3 {
		t.Fatalf("gateway bindings = %v", cfg.Gateway.Bindings)
	}
	if cfg.Notifier.Queue != "notification.pedido" {
		t.Fatalf("notifier queue = %s", cfg.Notifier.Queue)
	}
	if cfg.Notifier.RetryMaxAttempts != 0 {
		t.Fatalf("retry max attempts = %d, want 0", cfg.Notifier.RetryMaxAttempts)
	}
	if cfg.Notifier.RetryBaseDelay != time.Second {
		t.Fatalf("retry base delay = %s", cfg.Notifier.RetryBaseDelay)
	}
	if cfg.Auth.VerifyTimeout != 5*time.Second {
		t.Fatalf("verify timeout = %s", cfg.Auth.VerifyTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "9000")
	t.Setenv("GATEWAY_BINDINGS", "pedido.creado , realtime.* ,")
	t.Setenv("NOTIFIER_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("NOTIFIER_RETRY_BASE_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.GatewayPort != "9000" {
		t.Fatalf("gateway port = %s, want 9000", cfg.Server.GatewayPort)
	}
	want := []string{"pedido.creado", "realtime.*"}
	if len(cfg.Gateway.Bindings) != len(want) {
		t.Fatalf("bindings = %v, want %v", cfg.Gateway.Bindings, want)
	}
	for i, binding := range want {
		if cfg.Gateway.Bindings[i] != binding {
			t.Fatalf("bindings = %v, want %v", cfg.Gateway.Bindings, want)
		}
	}
	if cfg.Notifier.RetryMaxAttempts != 5 {
		t.Fatalf("retry max attempts = %d, want 5", cfg.Notifier.RetryMaxAttempts)
	}
	if cfg.Notifier.RetryBaseDelay != 250*time.Millisecond {
		t.Fatalf("retry base delay = %s", cfg.Notifier.RetryBaseDelay)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("NOTIFIER_RETRY_BASE_DELAY", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	t.Setenv("NOTIFIER_RETRY_MAX_ATTEMPTS", "many")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
