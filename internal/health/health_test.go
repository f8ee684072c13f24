package health

import (
	"context"
	"testing"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/session"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Gemini:       config.GeminiConfig{APIKeys: []string{"key"}, DefaultModel: "gemini-2.0-flash", TimeoutSeconds: 30},
		Eleven:       config.ElevenConfig{APIKey: "key", VoiceID: "voice"},
		Artifacts:    config.ArtifactConfig{Dir: t.TempDir()},
		Session:      config.SessionConfig{SessionTTLMinutes: 30},
		SessionStore: config.SessionStoreConfig{Enabled: false},
	}
}

func TestCollectShallowOK(t *testing.T) {
	cfg := testConfig(t)
	store, err := session.NewStore(cfg)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	payload := Collect(context.Background(), cfg, store, false)
	if payload.Status != "ok" {
		t.Fatalf("expected ok, got %s: %+v", payload.Status, payload)
	}
	if payload.Components["session_store"].Detail["deep_checked"] != false {
		t.Fatal("shallow check should not be deep")
	}
}

func TestCollectDegradedWithoutGeminiKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Gemini.APIKeys = nil

	payload := Collect(context.Background(), cfg, nil, false)
	if payload.Status != "degraded" {
		t.Fatalf("expected degraded, got %s", payload.Status)
	}
	if payload.Components["gemini"].Status != "degraded" {
		t.Fatalf("expected gemini degraded: %+v", payload.Components["gemini"])
	}
}

func TestCollectDegradedWithoutArtifactDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Artifacts.Dir = "/nonexistent/lexi-artifacts"

	payload := Collect(context.Background(), cfg, nil, false)
	if payload.Components["artifacts"].Status != "degraded" {
		t.Fatalf("expected artifacts degraded: %+v", payload.Components["artifacts"])
	}
}

func TestCollectDeepChecksMemoryStore(t *testing.T) {
	cfg := testConfig(t)
	store, err := session.NewStore(cfg)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	payload := Collect(context.Background(), cfg, store, true)
	detail := payload.Components["session_store"].Detail
	if detail["store_connected"] != true {
		t.Fatalf("expected connected memory store: %+v", detail)
	}
	if detail["deep_checked"] != true {
		t.Fatal("expected deep check")
	}
}
