package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/worldforge/internal/config"
)

// RequestRateLimiter counts invalid requests per IP and locks out clients
// that keep sending them. Each lockout doubles, up to the configured cap.
type RequestRateLimiter struct {
	mu                sync.Mutex
	offenders         map[string]*offenderInfo
	maxInvalid        int
	lockoutSeconds    int
	maxLockoutSeconds int
	now               func() time.Time
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

type offenderInfo struct {
	invalid      int
	lockedUntil  time.Time
	lockoutCount int
	lastSeen     time.Time
}

// NewRequestRateLimiter creates a limiter and starts its cleanup goroutine.
// Zero config values fall back to 10 requests, 30s and 300s.
func NewRequestRateLimiter(cfg config.RateLimitConfig) *RequestRateLimiter {
	rl := &RequestRateLimiter{
		offenders:         make(map[string]*offenderInfo),
		maxInvalid:        cfg.MaxInvalid,
		lockoutSeconds:    cfg.LockoutSeconds,
		maxLockoutSeconds: cfg.MaxLockoutSeconds,
		now:               time.Now,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
	}
	if rl.maxInvalid <= 0 {
		rl.maxInvalid = 10
	}
	if rl.lockoutSeconds <= 0 {
		rl.lockoutSeconds = 30
	}
	if rl.maxLockoutSeconds < rl.lockoutSeconds {
		rl.maxLockoutSeconds = max(300, rl.lockoutSeconds)
	}

	go rl.cleanupLoop()
	return rl
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (rl *RequestRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (rl *RequestRateLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.offenders[ip]
	if !ok {
		return false, 0
	}
	now := rl.now()
	if now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordInvalid counts one invalid request from ip. It returns true and
// the lockout duration when this request triggers (or hits) a lockout.
func (rl *RequestRateLimiter) RecordInvalid(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	info, ok := rl.offenders[ip]
	if !ok {
		info = &offenderInfo{}
		rl.offenders[ip] = info
	}
	info.lastSeen = now

	if now.Before(info.lockedUntil) {
		return true, info.lockedUntil.Sub(now)
	}

	info.invalid++
	if info.invalid < rl.maxInvalid {
		return false, 0
	}

	info.lockoutCount++
	lockout := time.Duration(rl.lockoutSeconds) * time.Second
	maxLockout := time.Duration(rl.maxLockoutSeconds) * time.Second
	for i := 1; i < info.lockoutCount; i++ {
		if lockout >= maxLockout/2 {
			lockout = maxLockout
			break
		}
		lockout *= 2
	}
	lockout = min(lockout, maxLockout)

	info.lockedUntil = now.Add(lockout)
	info.invalid = 0
	return true, lockout
}

// InvalidCount returns the invalid requests counted toward the next lockout.
func (rl *RequestRateLimiter) InvalidCount(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, ok := rl.offenders[ip]; ok {
		return info.invalid
	}
	return 0
}

func (rl *RequestRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup forgets IPs that are unlocked and quiet for ten minutes.
func (rl *RequestRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, info := range rl.offenders {
		if info.lockedUntil.Before(cutoff) && info.lastSeen.Before(cutoff) {
			delete(rl.offenders, ip)
		}
	}
}
