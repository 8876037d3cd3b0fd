package server

import (
	"sync"

	"github.com/lawnchairsociety/worldforge/internal/config"
)

// ConnLimiter caps concurrent WebSocket sessions per client IP and across
// the server. A zero limit is unlimited.
type ConnLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

func NewConnLimiter(cfg config.ConnectionsConfig) *ConnLimiter {
	return &ConnLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

func atLimit(n, limit int) bool {
	return limit > 0 && n >= limit
}

// TryAcquire takes a session slot for ip, reporting false when either cap
// is already reached. Every successful call must be paired with Release.
func (c *ConnLimiter) TryAcquire(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if atLimit(c.total, c.maxTotal) || atLimit(c.perIP[ip], c.maxPerIP) {
		return false
	}
	c.perIP[ip]++
	c.total++
	return true
}

// Release returns a slot taken by TryAcquire. IPs holding no slot are
// ignored.
func (c *ConnLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.perIP[ip]
	if !ok {
		return
	}
	if n <= 1 {
		delete(c.perIP, ip)
	} else {
		c.perIP[ip] = n - 1
	}
	c.total--
}

// GetStats reports open sessions and the number of distinct IPs holding them.
func (c *ConnLimiter) GetStats() (sessions int, ips int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total, len(c.perIP)
}

func (c *ConnLimiter) GetIPCount(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perIP[ip]
}
