package dedup

import "sync"

// Deduplicator tracks which content identities have been processed in the
// current session. Membership is cleared only by an explicit Reset; it never
// expires on its own.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New creates an empty deduplicator
func New() *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]struct{}),
	}
}

// Seen reports whether the identity has been marked in this session
func (d *Deduplicator) Seen(identity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[identity]
	return ok
}

// Mark records the identity as processed. Idempotent: marking an
// already-marked identity has no effect.
func (d *Deduplicator) Mark(identity string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[identity] = struct{}{}
}

// MarkIfNew checks and marks in a single critical section, so two concurrent
// cycles cannot both accept the same identity. Returns true if the identity
// was new.
func (d *Deduplicator) MarkIfNew(identity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[identity]; ok {
		return false
	}
	d.seen[identity] = struct{}{}
	return true
}

// Forget rolls back a mark so the item can be reprocessed. Used when a
// mandatory stage fails after the identity was accepted, keeping the session
// state consistent with the audit log.
func (d *Deduplicator) Forget(identity string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, identity)
}

// Len returns the number of marked identities
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Reset clears all session state
func (d *Deduplicator) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
}
