package config

import (
	"testing"
	"time"
)

func TestUpdateFromKeepsUnsetFields(t *testing.T) {
	cfg := Default()

	cfg.UpdateFrom(Config{Addr: ":5555", LogLevel: "debug"})

	if cfg.Addr != ":5555" {
		t.Fatalf("expected addr override, got %s", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level override, got %s", cfg.LogLevel)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr should keep default, got %s", cfg.HTTPAddr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("shutdown timeout should keep default, got %s", cfg.ShutdownTimeout)
	}
}

func TestDefaultListensOnChatPort(t *testing.T) {
	cfg := Default()
	if cfg.Addr != ":1234" {
		t.Fatalf("expected default chat port 1234, got %s", cfg.Addr)
	}
}
