package core

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// DefaultIdleTimeout is how long a session may go unused before a sweep
// drops it.
const DefaultIdleTimeout = 30 * time.Minute

// ServiceOptions configures a Service. Zero values fall back to defaults.
type ServiceOptions struct {
	MaxSessions int
	IdleTimeout time.Duration
	ShapePolicy ShapePolicy
	Options     TextOptions // Initial TXT options of new sessions
}

// Service owns every open workspace, keyed by session ID.
type Service struct {
	opts    ServiceOptions
	limiter *SessionLimiter
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu        sync.Mutex
	ws        *Workspace
	createdAt time.Time
	lastUsed  time.Time
}

// NewService creates a new Service instance.
func NewService(opts ServiceOptions) *Service {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	limiter := NewSessionLimiter(opts.MaxSessions)
	opts.MaxSessions = limiter.Max()

	return &Service{
		opts:     opts,
		limiter:  limiter,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create opens a new empty session and returns its ID.
func (s *Service) Create() (string, error) {
	if !s.limiter.TryAcquire() {
		return "", ErrTooManySessions
	}

	ws := NewWorkspace(s.opts.ShapePolicy)
	ws.options = s.opts.Options

	now := s.now()
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &session{ws: ws, createdAt: now, lastUsed: now}
	s.mu.Unlock()

	return id, nil
}

// Do runs fn with exclusive access to the session's workspace. The error
// from fn is returned as is.
func (s *Service) Do(id string, fn func(*Workspace) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Swept between lookup and lock.
	if sess.ws == nil {
		return ErrSessionNotFound
	}

	sess.lastUsed = s.now()
	return fn(sess.ws)
}

// Close drops a session. Reports whether it existed.
func (s *Service) Close(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	sess.mu.Lock()
	sess.ws = nil
	sess.mu.Unlock()

	s.limiter.Release()
	return true
}

// SweepIdle closes every session unused since IdleTimeout before now and
// returns the number closed. Sessions busy in Do are skipped.
func (s *Service) SweepIdle(now time.Time) int {
	cutoff := now.Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	var expired []*session
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastUsed.Before(cutoff) {
			sess.ws = nil
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
		sess.mu.Unlock()
	}
	s.mu.Unlock()

	for range expired {
		s.limiter.Release()
	}
	return len(expired)
}

// SessionInfo describes an open session.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	LastUsed  time.Time `json:"lastUsed"`
}

// Info returns metadata about one session.
func (s *Service) Info(id string) (SessionInfo, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionInfo{}, ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return SessionInfo{ID: id, CreatedAt: sess.createdAt, LastUsed: sess.lastUsed}, nil
}

// List returns every open session, oldest first.
func (s *Service) List() []SessionInfo {
	s.mu.RLock()
	infos := make([]SessionInfo, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sess.mu.Lock()
		infos = append(infos, SessionInfo{ID: id, CreatedAt: sess.createdAt, LastUsed: sess.lastUsed})
		sess.mu.Unlock()
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Count returns the number of open sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// LimiterStatus reports session slot usage.
func (s *Service) LimiterStatus() SessionLimiterStatus {
	return s.limiter.Status()
}

// Options returns the configuration in effect.
func (s *Service) Options() ServiceOptions {
	return s.opts
}
