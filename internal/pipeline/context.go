package pipeline

import (
	"sync"

	"github.com/factseeker/factseeker/internal/dedup"
)

// Context carries the mutable session state shared across cycles: the
// deduplication set, the alerts raised so far, and the scanned counter. The
// audit log is not part of this state and survives a Reset.
type Context struct {
	Dedup *dedup.Deduplicator

	mu      sync.Mutex
	alerts  []string
	scanned int
}

// NewContext creates a fresh session context
func NewContext() *Context {
	return &Context{
		Dedup: dedup.New(),
	}
}

// RecordScan increments the scanned counter
func (c *Context) RecordScan() {
	c.mu.Lock()
	c.scanned++
	c.mu.Unlock()
}

// Scanned returns the number of items processed this session
func (c *Context) Scanned() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scanned
}

// AddAlert appends a raised alert message to the session buffer
func (c *Context) AddAlert(message string) {
	c.mu.Lock()
	c.alerts = append(c.alerts, message)
	c.mu.Unlock()
}

// Alerts returns a copy of the session's alert messages
func (c *Context) Alerts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.alerts))
	copy(out, c.alerts)
	return out
}

// Reset clears the dedup set, the alert buffer, and the scanned counter.
// Previously written audit records are untouched.
func (c *Context) Reset() {
	c.Dedup.Reset()
	c.mu.Lock()
	c.alerts = nil
	c.scanned = 0
	c.mu.Unlock()
}
