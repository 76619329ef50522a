package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// burstLimiter throttles magic-link issuance per client IP with an
// in-process token bucket. It backstops the Redis rate limiter, which fails
// open on outages; sending mail is the one place that must not.
type burstLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucketEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newBurstLimiter creates a limiter with the given sustained rate
// (requests per second) and burst size.
func newBurstLimiter(perSecond float64, burst int) *burstLimiter {
	return &burstLimiter{
		buckets:   make(map[string]*bucketEntry),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		cleanupAt: time.Now().Add(5 * time.Minute),
	}
}

// Allow reports whether a request from the given IP may proceed.
func (l *burstLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Now().After(l.cleanupAt) {
		l.cleanup()
		l.cleanupAt = time.Now().Add(5 * time.Minute)
	}

	entry, exists := l.buckets[ip]
	if !exists {
		entry = &bucketEntry{
			limiter:  rate.NewLimiter(l.rate, l.burst),
			lastSeen: time.Now(),
		}
		l.buckets[ip] = entry
	}

	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// cleanup removes buckets idle for 10 minutes. Must be called with mu held.
func (l *burstLimiter) cleanup() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, entry := range l.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(l.buckets, ip)
		}
	}
}
