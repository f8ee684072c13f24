package session

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/lexihelp/lexi-server/internal/config"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreDisabled is returned when the store is not usable.
	ErrStoreDisabled = errors.New("session store disabled")
)

type storeBackend int

const (
	storeBackendMemory storeBackend = iota
	storeBackendValkey
)

// Assessment holds per-session spelling check counters.
type Assessment struct {
	ID        string `json:"id"`
	Attempted int    `json:"attempted"`
	Correct   int    `json:"correct"`
}

// Store keeps assessment counters, in memory or in Valkey.
type Store struct {
	client  valkey.Client
	cfg     *config.Config
	enabled bool
	backend storeBackend

	mu        sync.Mutex
	counts    map[string]*Assessment
	expiresAt map[string]time.Time
}

// resetScript reads both counters and deletes the key in one round trip,
// so concurrent checks cannot land between the read and the delete.
var resetScript = valkey.NewLuaScript(`
local attempted = redis.call('HGET', KEYS[1], 'attempted')
local correct = redis.call('HGET', KEYS[1], 'correct')
redis.call('DEL', KEYS[1])
return {tonumber(attempted) or 0, tonumber(correct) or 0}
`)

// NewStore creates a session store per the configured backend.
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if !cfg.SessionStore.Enabled {
		if cfg.SessionStore.Required {
			return nil, errors.New("session store required but disabled")
		}
		return newMemoryStore(cfg), nil
	}

	conn, err := parseStoreURL(cfg.SessionStore.URL)
	if err != nil {
		return nil, fmt.Errorf("parse session store url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse session store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: cfg.SessionStore.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	return &Store{
		client:  client,
		cfg:     cfg,
		enabled: true,
		backend: storeBackendValkey,
	}, nil
}

func newMemoryStore(cfg *config.Config) *Store {
	return &Store{
		cfg:       cfg,
		enabled:   true,
		backend:   storeBackendMemory,
		counts:    make(map[string]*Assessment),
		expiresAt: make(map[string]time.Time),
	}
}

// NewSessionID generates an opaque session identifier.
func NewSessionID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}

// IsEnabled reports whether the store accepted its configuration.
func (s *Store) IsEnabled() bool {
	return s.enabled
}

// Close releases the Valkey connection.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.backend == storeBackendValkey && s.client != nil {
		s.client.Close()
	}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("assessment:%s", sessionID)
}

func (s *Store) ttl() time.Duration {
	return time.Duration(s.cfg.Session.SessionTTLMinutes) * time.Minute
}

// RecordCheck increments the session counters for one spelling check
// and returns the updated counts. Unknown sessions start at zero.
func (s *Store) RecordCheck(ctx context.Context, sessionID string, correct bool) (Assessment, error) {
	if !s.enabled {
		return Assessment{}, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.recordCheckMemory(sessionID, correct), nil
	}

	key := s.key(sessionID)
	correctDelta := int64(0)
	if correct {
		correctDelta = 1
	}

	cmds := []valkey.Completed{
		s.client.B().Hincrby().Key(key).Field("attempted").Increment(1).Build(),
		s.client.B().Hincrby().Key(key).Field("correct").Increment(correctDelta).Build(),
		s.client.B().Expire().Key(key).Seconds(int64(s.ttl().Seconds())).Build(),
	}
	results := s.client.DoMulti(ctx, cmds...)

	attempted, err := results[0].AsInt64()
	if err != nil {
		return Assessment{}, fmt.Errorf("record check: %w", err)
	}
	correctCount, err := results[1].AsInt64()
	if err != nil {
		return Assessment{}, fmt.Errorf("record check: %w", err)
	}

	return Assessment{ID: sessionID, Attempted: int(attempted), Correct: int(correctCount)}, nil
}

// Get returns the current counters for a session.
func (s *Store) Get(ctx context.Context, sessionID string) (Assessment, error) {
	if !s.enabled {
		return Assessment{}, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.getMemory(sessionID)
	}

	values, err := s.client.Do(ctx, s.client.B().Hgetall().Key(s.key(sessionID)).Build()).AsIntMap()
	if err != nil {
		return Assessment{}, fmt.Errorf("get assessment: %w", err)
	}
	if len(values) == 0 {
		return Assessment{}, ErrSessionNotFound
	}

	return Assessment{
		ID:        sessionID,
		Attempted: int(values["attempted"]),
		Correct:   int(values["correct"]),
	}, nil
}

// Reset clears the session counters and returns the counts that were
// accumulated before the reset. A session with no checks returns zeros.
func (s *Store) Reset(ctx context.Context, sessionID string) (Assessment, error) {
	if !s.enabled {
		return Assessment{}, ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return s.resetMemory(sessionID), nil
	}

	values, err := resetScript.Exec(ctx, s.client, []string{s.key(sessionID)}, nil).AsIntSlice()
	if err != nil {
		return Assessment{}, fmt.Errorf("reset assessment: %w", err)
	}
	if len(values) != 2 {
		return Assessment{}, fmt.Errorf("reset assessment: unexpected reply of %d values", len(values))
	}

	return Assessment{ID: sessionID, Attempted: int(values[0]), Correct: int(values[1])}, nil
}

// Count returns the number of live sessions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if !s.enabled {
		return 0, nil
	}
	if s.backend == storeBackendMemory {
		return s.countMemory(), nil
	}

	var count int
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match("assessment:*").Count(100).Build()
		result, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		count += len(result.Elements)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return count, nil
}

// Ping verifies the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	if !s.enabled {
		return ErrStoreDisabled
	}
	if s.backend == storeBackendMemory {
		return nil
	}

	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}
