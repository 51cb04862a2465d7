package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"biokeeper/internal/client/config"
	"biokeeper/internal/client/session"
)

func TestNew_CreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	cfg := config.Config{
		Server:    "http://localhost:1",
		LogLevel:  "error",
		LogFormat: "console",
		SessionDB: filepath.Join(dir, "session.db"),
		Timeout:   time.Second,
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("state dir not created: %v", err)
	}
	if _, err := a.Gate.Require(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("fresh store should be empty, got %v", err)
	}
	if a.API.BaseURL() != "http://localhost:1" {
		t.Fatalf("unexpected base url %q", a.API.BaseURL())
	}
}

func TestNew_BadLogFormat(t *testing.T) {
	_, err := New(config.Config{LogFormat: "xml", SessionDB: "file:app_bad?mode=memory&cache=shared", Timeout: time.Second})
	if err == nil {
		t.Fatalf("expected error for unknown log format")
	}
}
