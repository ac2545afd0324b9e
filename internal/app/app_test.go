package app

import (
	"testing"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/config"
)

func TestNew_WiresComponents(t *testing.T) {
	cfg := config.NewDefaultConfig()
	a, err := New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Storage == nil || a.Engine == nil || a.Tools == nil {
		t.Fatal("expected storage, engine and tool source to be wired")
	}
	if a.MCPHandler == nil || a.HealthHandler == nil || a.VersionHandler == nil {
		t.Fatal("expected HTTP handlers to be wired")
	}
	if a.EngineHealthHandler == nil || a.ToolsHandler == nil {
		t.Fatal("expected diagnostic handlers to be wired")
	}
	if a.Engine.BaseURL() != cfg.Engine.URL {
		t.Errorf("expected engine url %s, got %s", cfg.Engine.URL, a.Engine.BaseURL())
	}
}

func TestNew_UnknownStorageBackend(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Storage.Backend = "etcd"

	if _, err := New(cfg, common.NewSilentLogger()); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestIdentity(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.MCP.ServerName = "Tools"
	cfg.MCP.ServerVersion = "2.0.0"

	id := Identity(cfg)
	if id.Name != "Tools" || id.Version != "2.0.0" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestClose_NilStorage(t *testing.T) {
	a := &App{}
	if err := a.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
