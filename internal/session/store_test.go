package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/lexihelp/lexi-server/internal/config"
)

func newValkeyStore(t *testing.T) *Store {
	t.Helper()
	mini := miniredis.RunT(t)
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{URL: "redis://" + mini.Addr(), Enabled: true, DisableCache: true},
		Session:      config.SessionConfig{SessionTTLMinutes: 1},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		mini.Close()
	})
	return store
}

func newMemStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false},
		Session:      config.SessionConfig{SessionTTLMinutes: 1},
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestNewStoreRequiredButDisabled(t *testing.T) {
	cfg := &config.Config{
		SessionStore: config.SessionStoreConfig{Enabled: false, Required: true},
	}
	if _, err := NewStore(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewSessionID(t *testing.T) {
	first := NewSessionID()
	second := NewSessionID()
	if len(first) != 32 {
		t.Fatalf("session id length = %d", len(first))
	}
	if first == second {
		t.Fatal("session ids must be unique")
	}
}

func testRecordAndReset(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()

	counts, err := store.RecordCheck(ctx, "s1", true)
	if err != nil {
		t.Fatalf("RecordCheck: %v", err)
	}
	if counts.Attempted != 1 || counts.Correct != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	counts, err = store.RecordCheck(ctx, "s1", false)
	if err != nil {
		t.Fatalf("RecordCheck: %v", err)
	}
	if counts.Attempted != 2 || counts.Correct != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	loaded, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.Attempted != 2 || loaded.Correct != 1 {
		t.Fatalf("loaded = %+v", loaded)
	}

	final, err := store.Reset(ctx, "s1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if final.Attempted != 2 || final.Correct != 1 {
		t.Fatalf("final = %+v", final)
	}

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after reset, got %v", err)
	}

	empty, err := store.Reset(ctx, "s1")
	if err != nil {
		t.Fatalf("Reset on empty: %v", err)
	}
	if empty.Attempted != 0 || empty.Correct != 0 {
		t.Fatalf("empty reset = %+v", empty)
	}
}

func TestMemoryStoreRecordAndReset(t *testing.T) {
	testRecordAndReset(t, newMemStore(t))
}

func TestValkeyStoreRecordAndReset(t *testing.T) {
	testRecordAndReset(t, newValkeyStore(t))
}

func TestStoreCountAndPing(t *testing.T) {
	for name, store := range map[string]*Store{
		"memory": newMemStore(t),
		"valkey": newValkeyStore(t),
	} {
		ctx := context.Background()
		if _, err := store.RecordCheck(ctx, "a", true); err != nil {
			t.Fatalf("%s RecordCheck: %v", name, err)
		}
		if _, err := store.RecordCheck(ctx, "b", false); err != nil {
			t.Fatalf("%s RecordCheck: %v", name, err)
		}

		count, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("%s Count: %v", name, err)
		}
		if count != 2 {
			t.Fatalf("%s count = %d", name, count)
		}

		if err := store.Ping(ctx); err != nil {
			t.Fatalf("%s Ping: %v", name, err)
		}
	}
}

func TestParseStoreURL(t *testing.T) {
	conn, err := parseStoreURL("redis://user:pw@example.com:7000/2")
	if err != nil {
		t.Fatalf("parseStoreURL: %v", err)
	}
	if conn.addr != "example.com:7000" || conn.username != "user" || conn.password != "pw" || conn.selectDB != 2 {
		t.Fatalf("conn = %+v", conn)
	}
	if conn.useTLS {
		t.Fatal("redis scheme must not enable TLS")
	}

	tlsConn, err := parseStoreURL("rediss://example.com")
	if err != nil {
		t.Fatalf("parseStoreURL: %v", err)
	}
	if !tlsConn.useTLS || tlsConn.addr != "example.com:6379" {
		t.Fatalf("tls conn = %+v", tlsConn)
	}

	bare, err := parseStoreURL("localhost")
	if err != nil {
		t.Fatalf("parseStoreURL: %v", err)
	}
	if bare.addr != "localhost:6379" {
		t.Fatalf("bare conn = %+v", bare)
	}

	if _, err := parseStoreURL(""); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := parseStoreURL("redis://example.com/notanumber"); err == nil {
		t.Fatal("expected error for invalid db")
	}
}
