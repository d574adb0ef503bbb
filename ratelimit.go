package auth

import (
	"sync"
	"time"
)

// Rate governor defaults: a fresh identity gets the full burst immediately
// and regains capacity continuously, 5 attempts per minute sustained.
const (
	DefaultRateLimitCapacity = 5
	DefaultRateLimitWindow   = 60 * time.Second
)

// LoginRateLimiter bounds authentication attempts per caller identity,
// typically a client network address, using a token bucket with lazy refill.
//
// Buckets are created on first use and kept for the process lifetime; there
// is no idle eviction, so a wide distributed attack grows the map unbounded.
// Deployments that need eviction or cross-instance state should front this
// with a shared store instead.
type LoginRateLimiter struct {
	capacity float64
	window   time.Duration

	mu      sync.RWMutex
	buckets map[string]*rateBucket

	// test hook, defaults to time.Now
	now func() time.Time
}

type rateBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewLoginRateLimiter builds a governor allowing capacity attempts per
// window. Non-positive arguments fall back to the defaults.
func NewLoginRateLimiter(capacity int, window time.Duration) *LoginRateLimiter {
	if capacity <= 0 {
		capacity = DefaultRateLimitCapacity
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}

	return &LoginRateLimiter{
		capacity: float64(capacity),
		window:   window,
		buckets:  make(map[string]*rateBucket),
		now:      time.Now,
	}
}

// TryConsume reports whether the identity still has attempt budget and
// consumes one unit when it does. Refill and consume happen under the
// bucket's own lock, so two concurrent requests for the same identity can
// never both take the last token, while unrelated identities do not
// serialize on each other.
func (l *LoginRateLimiter) TryConsume(identity string) bool {
	b := l.bucket(identity)

	b.mu.Lock()
	defer b.mu.Unlock()

	l.refill(b)

	if b.tokens < 1 {
		return false
	}

	b.tokens--
	return true
}

// Peek returns the identity's available tokens without consuming any.
func (l *LoginRateLimiter) Peek(identity string) float64 {
	b := l.bucket(identity)

	b.mu.Lock()
	defer b.mu.Unlock()

	l.refill(b)

	return b.tokens
}

// refill credits tokens for the time elapsed since the last refill, capped
// at capacity. Callers must hold the bucket lock.
func (l *LoginRateLimiter) refill(b *rateBucket) {
	now := l.now()

	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 {
		b.tokens += elapsed.Seconds() * (l.capacity / l.window.Seconds())
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
	}

	b.lastRefill = now
}

func (l *LoginRateLimiter) bucket(identity string) *rateBucket {
	l.mu.RLock()
	b, ok := l.buckets[identity]
	l.mu.RUnlock()

	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// another request may have created it while we upgraded the lock
	if b, ok = l.buckets[identity]; ok {
		return b
	}

	b = &rateBucket{
		tokens:     l.capacity,
		lastRefill: l.now(),
	}
	l.buckets[identity] = b

	return b
}

var _ RateGovernor = (*LoginRateLimiter)(nil)
