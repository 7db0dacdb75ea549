package registry

import (
	"sync"
	"time"
)

// Clock supplies the logical time used for grant expiry. The registry's
// contract only requires that commits observe a non-decreasing clock; it is
// not tied to wall time.
type Clock interface {
	Now() int64
}

// WallClock is the production clock: unix seconds, mirroring the block
// timestamp the ledger network would assign.
type WallClock struct{}

func (WallClock) Now() int64 { return time.Now().Unix() }

// ManualClock is a settable clock for tests.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *ManualClock) Advance(d int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}
