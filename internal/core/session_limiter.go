package core

// session_limiter.go caps the number of live sessions.
//
// The limiter is a buffered channel used as a counting semaphore: one slot
// per open session. Creating a session takes a slot without blocking,
// closing or sweeping one gives it back.

import (
	"errors"
	"sync"
)

// ErrTooManySessions is returned when every session slot is taken.
// Clients should retry after idle sessions have been swept.
var ErrTooManySessions = errors.New("too many sessions")

// DefaultMaxSessions is the session cap used when none is configured.
const DefaultMaxSessions = 100

// SessionLimiter bounds concurrently open sessions.
type SessionLimiter struct {
	slots chan struct{}

	mu     sync.RWMutex
	active int
}

// NewSessionLimiter creates a limiter allowing at most max open sessions.
func NewSessionLimiter(max int) *SessionLimiter {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &SessionLimiter{slots: make(chan struct{}, max)}
}

// TryAcquire takes a slot without blocking and reports whether it got one.
func (l *SessionLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release gives back a slot taken by TryAcquire.
func (l *SessionLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.slots
}

// ActiveCount returns the number of slots in use.
func (l *SessionLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// Max returns the slot count.
func (l *SessionLimiter) Max() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *SessionLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// SessionLimiterStatus is a snapshot of the limiter.
type SessionLimiterStatus struct {
	Active    int `json:"active"`
	Available int `json:"available"`
	Max       int `json:"max"`
}

// Status returns the current limiter state for monitoring.
func (l *SessionLimiter) Status() SessionLimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return SessionLimiterStatus{
		Active:    active,
		Available: l.Available(),
		Max:       cap(l.slots),
	}
}
