package session

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"
)

// sessionIDLength is the number of random bytes in a session id
// (32 hex characters on the wire).
const sessionIDLength = 16

// Store is the concurrency-safe holder of all live sessions, keyed by their
// opaque session id. Sessions idle longer than the configured TTL are swept
// by the reaper so abandoned runs do not leak memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	logger   *slog.Logger
}

// NewStore creates a session store whose reaper expires sessions idle
// longer than ttl. If logger is nil, a default logger will be used.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "session_store")),
	}
}

// Put inserts a session. Ids are generated from 128 random bits and never
// reused, so collisions are not a caller-facing error condition.
func (s *Store) Put(id string, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

// Get returns the session for id, or false if absent. It does not mutate.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove atomically removes and returns the session for id, or false if it
// was already absent. The atomicity guarantees a session is finalized
// exactly once even under concurrent end calls.
func (s *Store) Remove(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return sess, ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reap removes every session whose last activity is older than the TTL
// relative to now, returning the number of sessions removed.
func (s *Store) Reap(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	// Collect candidates under the read lock first; LastActive takes each
	// session's own lock and must not run inside the store's write lock
	// longer than necessary.
	s.mu.RLock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.LastActive().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		s.mu.Lock()
		sess, ok := s.sessions[id]
		// Re-check idleness: the session may have been touched or ended
		// between the scan and this removal.
		if ok && sess.LastActive().Before(cutoff) {
			delete(s.sessions, id)
			removed++
			s.logger.Info("expired idle session",
				slog.String("session_id", id),
				slog.Int("cursor", sess.Cursor()),
				slog.Int("total", sess.Len()))
		}
		s.mu.Unlock()
	}

	return removed
}

// StartReaper runs the TTL sweep every interval until ctx is canceled.
// It is intended to be started once, as a goroutine, at application startup.
func (s *Store) StartReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("session reaper started",
		slog.Duration("interval", interval),
		slog.Duration("ttl", s.ttl))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session reaper stopped")
			return
		case now := <-ticker.C:
			if removed := s.Reap(now); removed > 0 {
				s.logger.Debug("reaper sweep finished",
					slog.Int("removed", removed),
					slog.Int("remaining", s.Len()))
			}
		}
	}
}

// newSessionID generates an opaque 32-character hex session id from 128
// random bits. If crypto/rand fails it falls back to a time-based id, which
// is weaker but never a static value.
func newSessionID() string {
	b := make([]byte, sessionIDLength)
	n, err := rand.Read(b)
	if err != nil || n != sessionIDLength {
		slog.Error("failed to generate random session id",
			"error", err,
			"bytes_read", n,
			"fallback", "time-based generation")
		return fallbackSessionID()
	}

	return hex.EncodeToString(b)
}

func fallbackSessionID() string {
	b := make([]byte, sessionIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	return hex.EncodeToString(b)
}
