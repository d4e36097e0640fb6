package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions is a thread-safe in-memory session registry with idle TTL
// eviction.
type Sessions struct {
	viewer *Viewer

	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessions(v *Viewer, ttl time.Duration) *Sessions {
	return &Sessions{
		viewer:   v,
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Viewer returns the shared viewer.
func (s *Sessions) Viewer() *Viewer {
	return s.viewer
}

// Create registers a new session with a random id.
func (s *Sessions) Create() *Session {
	sess := newSession(uuid.NewString(), s.viewer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Get looks up a session by id.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns how
// many were removed.
func (s *Sessions) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run evicts idle sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				s.viewer.log.Debug("sessions evicted", "count", n, "live", s.Len())
			}
		}
	}
}
