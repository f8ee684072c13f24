package session

import (
	"strings"
	"time"
)

func (s *Store) recordCheckMemory(sessionID string, correct bool) Assessment {
	now := time.Now()
	expiresAt := s.computeExpiry(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	counts, ok := s.counts[sessionID]
	if !ok {
		counts = &Assessment{ID: sessionID}
		s.counts[sessionID] = counts
	}
	counts.Attempted++
	if correct {
		counts.Correct++
	}

	if !expiresAt.IsZero() {
		s.expiresAt[sessionID] = expiresAt
	} else {
		delete(s.expiresAt, sessionID)
	}
	return *counts
}

func (s *Store) getMemory(sessionID string) (Assessment, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Assessment{}, ErrSessionNotFound
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	counts, ok := s.counts[sessionID]
	if !ok {
		return Assessment{}, ErrSessionNotFound
	}
	return *counts, nil
}

func (s *Store) resetMemory(sessionID string) Assessment {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)

	counts, ok := s.counts[sessionID]
	if !ok {
		return Assessment{ID: sessionID}
	}
	delete(s.counts, sessionID)
	delete(s.expiresAt, sessionID)
	return *counts
}

func (s *Store) countMemory() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneExpiredLocked(now)
	return len(s.counts)
}

func (s *Store) computeExpiry(now time.Time) time.Time {
	ttl := time.Duration(0)
	if s != nil {
		ttl = s.ttl()
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func (s *Store) pruneExpiredLocked(now time.Time) {
	for sessionID, expiresAt := range s.expiresAt {
		if expiresAt.IsZero() || now.Before(expiresAt) {
			continue
		}
		delete(s.expiresAt, sessionID)
		delete(s.counts, sessionID)
	}
}
