package server

import (
	"net"
	"sync"

	"github.com/lawnchairsociety/bspdungeon/internal/config"
)

// ConnLimiter caps concurrent replay viewers per IP and in total.
type ConnLimiter struct {
	mu       sync.Mutex
	ipCounts map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

// ConnStats is a snapshot of a ConnLimiter.
type ConnStats struct {
	Total int // Open viewer connections
	IPs   int // Distinct client IPs holding at least one slot
}

// NewConnLimiter creates a limiter from cfg. Zero limits are unlimited.
func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		ipCounts: make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// TryAcquire takes a slot for ip. It returns false, and takes nothing, when
// either limit is already reached.
func (c *ConnLimiter) TryAcquire(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxTotal > 0 && c.total >= c.maxTotal {
		return false
	}
	if c.maxPerIP > 0 && c.ipCounts[ip] >= c.maxPerIP {
		return false
	}

	c.ipCounts[ip]++
	c.total++
	return true
}

// Release gives back a slot taken by TryAcquire. Releasing an IP that holds
// no slot is a no-op.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ipCounts[ip] == 0 {
		return
	}
	c.ipCounts[ip]--
	if c.ipCounts[ip] == 0 {
		delete(c.ipCounts, ip)
	}
	c.total--
}

// Stats returns the current connection counts.
func (c *ConnLimiter) Stats() ConnStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ConnStats{Total: c.total, IPs: len(c.ipCounts)}
}

// Count returns the number of slots held by ip.
func (c *ConnLimiter) Count(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ipCounts[ip]
}

// extractIP strips the port from a host:port remote address.
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
