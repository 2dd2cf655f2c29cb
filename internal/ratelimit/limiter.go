// Package ratelimit implements a per-user sliding one-minute window gate.
// It is a pure allow/deny decision consulted before handling a request,
// not a blocking or queueing mechanism.
package ratelimit

import (
	"sync"
	"time"
)

// Class is the operation class a request counts against. Reads and writes
// carry independent budgets.
type Class string

const (
	ClassRead  Class = "read"
	ClassWrite Class = "write"
)

type bucketKey struct {
	userID int64
	class  Class
}

// Limiter tracks request timestamps per (user, class) over a sliding
// window. Expired entries are pruned lazily on each decision.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	limits map[Class]int
	hits   map[bucketKey][]time.Time

	now func() time.Time
}

// New creates a limiter with per-minute budgets for each operation class.
func New(readPerMinute, writePerMinute int) *Limiter {
	return &Limiter{
		window: time.Minute,
		limits: map[Class]int{
			ClassRead:  readPerMinute,
			ClassWrite: writePerMinute,
		},
		hits: make(map[bucketKey][]time.Time),
		now:  time.Now,
	}
}

// Allow reports whether the user may perform another operation of the
// given class. On denial it returns how long until the window frees a slot.
func (l *Limiter) Allow(userID int64, class Class) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit, ok := l.limits[class]
	if !ok || limit <= 0 {
		return true, 0
	}

	now := l.now()
	cutoff := now.Add(-l.window)
	key := bucketKey{userID: userID, class: class}

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit {
		l.hits[key] = recent
		retryAfter := recent[0].Sub(cutoff)
		return false, retryAfter
	}

	l.hits[key] = append(recent, now)
	return true, 0
}
