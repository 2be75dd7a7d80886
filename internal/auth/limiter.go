package auth

import (
	"sync"
	"time"
)

// Limiter tracks failed login attempts and temporary account locks per user
// id, in process memory.  It is the fast layer of a two-layer lockout: this
// state resets on restart, while the persisted blocked flag on the user
// record survives it.  All state is guarded by a single mutex; concurrent
// login attempts for the same id serialize on it, which rules out
// lost-update races between the check and the lock install.
//
// Construct one Limiter per process and inject it; there are no package
// globals.  State is intentionally not shared across processes.
type Limiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time // failed-attempt timestamps per user id
	locks    map[string]time.Time   // lock expiry per user id

	threshold int           // failures within window that trigger a lock
	window    time.Duration // trailing window over which failures count
	lockout   time.Duration // how long an installed lock lasts

	now func() time.Time // clock, swappable in tests
}

// NewLimiter builds a Limiter.  threshold is the number of failures within
// window that installs a lock of duration lockout.
func NewLimiter(threshold int, window, lockout time.Duration) *Limiter {
	return &Limiter{
		attempts:  make(map[string][]time.Time),
		locks:     make(map[string]time.Time),
		threshold: threshold,
		window:    window,
		lockout:   lockout,
		now:       time.Now,
	}
}

// Allow reports whether a login attempt for userID may proceed.  It returns
// a *RateLimitedError when the id is currently locked, or when the recorded
// failures within the trailing window have reached the threshold; in the
// latter case the lock is installed atomically with the check and the
// triggering call fails.  Expired locks are evicted lazily here, together
// with the attempt history that produced them; there is no background sweep.
func (l *Limiter) Allow(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if until, ok := l.locks[userID]; ok {
		if now.Before(until) {
			return &RateLimitedError{RetryAfter: int(until.Sub(now).Seconds())}
		}
		delete(l.locks, userID)
		delete(l.attempts, userID)
	}

	// Drop attempts that fell out of the trailing window.
	cutoff := now.Add(-l.window)
	kept := l.attempts[userID][:0]
	for _, at := range l.attempts[userID] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, userID)
	} else {
		l.attempts[userID] = kept
	}

	if len(kept) >= l.threshold {
		l.locks[userID] = now.Add(l.lockout)
		return &RateLimitedError{RetryAfter: int(l.lockout.Seconds())}
	}
	return nil
}

// RecordFailure appends a failed-attempt timestamp for userID.
func (l *Limiter) RecordFailure(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[userID] = append(l.attempts[userID], l.now())
}

// ClearFailures forgets all recorded failures for userID.  Called after a
// successful authentication.
func (l *Limiter) ClearFailures(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, userID)
}
