package avif

import (
	"sync"
	"sync/atomic"
)

var stats = &counters{failures: make(map[string]*atomic.Uint64)}

type counters struct {
	opened atomic.Int64
	closed atomic.Int64

	mu       sync.Mutex
	failures map[string]*atomic.Uint64
}

func (c *counters) failure(kind string) {
	c.mu.Lock()
	n, ok := c.failures[kind]
	if !ok {
		n = new(atomic.Uint64)
		c.failures[kind] = n
	}
	c.mu.Unlock()
	n.Add(1)
}

func (c *counters) failureSnapshot() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]uint64, len(c.failures))
	for kind, n := range c.failures {
		out[kind] = n.Load()
	}
	return out
}

// LiveSessions returns the number of sessions created and not yet closed in this process.
func LiveSessions() int64 {
	return stats.opened.Load() - stats.closed.Load()
}
