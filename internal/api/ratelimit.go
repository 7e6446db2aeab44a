package api

import (
	"net"
	"sync"
	"time"
)

// rateLimiter caps requests per remote host with a fixed window per bucket.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     int
	window  time.Duration
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

func (rl *rateLimiter) allow(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[host]
	if !ok || now.Sub(b.lastReset) >= rl.window {
		rl.buckets[host] = &bucket{tokens: rl.max - 1, lastReset: now}
		rl.pruneLocked(now)
		return true
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

func (rl *rateLimiter) pruneLocked(now time.Time) {
	for host, b := range rl.buckets {
		if now.Sub(b.lastReset) > 2*rl.window {
			delete(rl.buckets, host)
		}
	}
}
