package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/bspdungeon/internal/config"
)

// BadRequestLimiter locks out clients that keep sending malformed generation
// requests. Each lockout lasts twice as long as the previous one, up to a cap.
type BadRequestLimiter struct {
	mu              sync.Mutex
	clients         map[string]*badRequestInfo
	maxBadRequests  int
	lockout         time.Duration
	maxLockout      time.Duration
	now             func() time.Time
	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

type badRequestInfo struct {
	badRequests  int
	lastSeen     time.Time
	lockedUntil  time.Time
	lockoutCount int
}

// NewBadRequestLimiter creates a limiter from cfg and starts its cleanup loop.
// Zero values in cfg fall back to 5 requests, 30s and 300s.
func NewBadRequestLimiter(cfg config.RateLimitConfig) *BadRequestLimiter {
	rl := newBadRequestLimiter(cfg, time.Now)
	go rl.cleanupLoop()
	return rl
}

func newBadRequestLimiter(cfg config.RateLimitConfig, now func() time.Time) *BadRequestLimiter {
	rl := &BadRequestLimiter{
		clients:         make(map[string]*badRequestInfo),
		maxBadRequests:  cfg.MaxBadRequests,
		lockout:         time.Duration(cfg.LockoutSeconds) * time.Second,
		maxLockout:      time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:             now,
		cleanupInterval: 5 * time.Minute,
		stop:            make(chan struct{}),
	}
	if rl.maxBadRequests <= 0 {
		rl.maxBadRequests = 5
	}
	if rl.lockout <= 0 {
		rl.lockout = 30 * time.Second
	}
	if rl.maxLockout <= 0 {
		rl.maxLockout = 300 * time.Second
	}
	return rl
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *BadRequestLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stop)
	})
}

// Locked reports whether ip is locked out and for how much longer.
func (rl *BadRequestLimiter) Locked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.clients[ip]
	if !ok {
		return false, 0
	}
	if remaining := info.lockedUntil.Sub(rl.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// Penalize records a bad request from ip. It returns true, with the lockout
// duration, when this request triggers or falls inside a lockout.
func (rl *BadRequestLimiter) Penalize(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, ok := rl.clients[ip]
	if !ok {
		info = &badRequestInfo{}
		rl.clients[ip] = info
	}

	now := rl.now()
	info.lastSeen = now
	if remaining := info.lockedUntil.Sub(now); remaining > 0 {
		return true, remaining
	}

	info.badRequests++
	if info.badRequests < rl.maxBadRequests {
		return false, 0
	}

	info.lockoutCount++
	d := lockoutFor(rl.lockout, rl.maxLockout, info.lockoutCount)
	info.lockedUntil = now.Add(d)
	info.badRequests = 0
	return true, d
}

// Forgive clears the record for ip after a well-formed request.
func (rl *BadRequestLimiter) Forgive(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, ok := rl.clients[ip]; ok && !info.lockedUntil.After(rl.now()) {
		delete(rl.clients, ip)
	}
}

// BadRequests returns the bad requests counted toward ip's next lockout.
func (rl *BadRequestLimiter) BadRequests(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, ok := rl.clients[ip]; ok {
		return info.badRequests
	}
	return 0
}

// lockoutFor returns base doubled for every lockout after the first, capped at max.
func lockoutFor(base, max time.Duration, count int) time.Duration {
	d := base
	for i := 1; i < count; i++ {
		// Checked before doubling so d cannot overflow
		if d >= max/2 {
			return max
		}
		d *= 2
	}
	if d > max {
		return max
	}
	return d
}

func (rl *BadRequestLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops clients that are not locked out and have sent no bad request
// for ten minutes. Pending counts are dropped with them.
func (rl *BadRequestLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-10 * time.Minute)
	for ip, info := range rl.clients {
		if !info.lockedUntil.After(now) && info.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}
