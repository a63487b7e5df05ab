package dedup

import (
	"fmt"
	"sync"
	"testing"
)

func TestDeduplicator_MarkThenSeen(t *testing.T) {
	d := New()

	if d.Seen("a") {
		t.Error("Expected unmarked identity to be unseen")
	}

	d.Mark("a")

	if !d.Seen("a") {
		t.Error("Expected marked identity to be seen")
	}
	if d.Seen("b") {
		t.Error("Expected unrelated identity to be unseen")
	}
}

func TestDeduplicator_MarkIsIdempotent(t *testing.T) {
	d := New()

	d.Mark("a")
	d.Mark("a")
	d.Mark("a")

	if d.Len() != 1 {
		t.Errorf("Expected 1 marked identity, got %d", d.Len())
	}
	if !d.Seen("a") {
		t.Error("Expected identity to remain seen")
	}
}

func TestDeduplicator_MarkIfNew(t *testing.T) {
	d := New()

	if !d.MarkIfNew("a") {
		t.Error("Expected first MarkIfNew to return true")
	}
	if d.MarkIfNew("a") {
		t.Error("Expected second MarkIfNew to return false")
	}
	if !d.Seen("a") {
		t.Error("Expected identity to be seen after MarkIfNew")
	}
}

func TestDeduplicator_MarkIfNew_Concurrent(t *testing.T) {
	d := New()

	// Many goroutines race on the same identity; exactly one should win.
	const goroutines = 50
	var wg sync.WaitGroup
	accepted := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.MarkIfNew("contested") {
				accepted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(accepted)

	count := 0
	for range accepted {
		count++
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 goroutine to accept the identity, got %d", count)
	}
}

func TestDeduplicator_Forget(t *testing.T) {
	d := New()

	d.Mark("a")
	d.Forget("a")

	if d.Seen("a") {
		t.Error("Expected forgotten identity to be unseen")
	}
	if !d.MarkIfNew("a") {
		t.Error("Expected forgotten identity to be accepted again")
	}
}

func TestDeduplicator_Reset(t *testing.T) {
	d := New()

	for i := 0; i < 10; i++ {
		d.Mark(fmt.Sprintf("item-%d", i))
	}
	if d.Len() != 10 {
		t.Fatalf("Expected 10 identities, got %d", d.Len())
	}

	d.Reset()

	if d.Len() != 0 {
		t.Errorf("Expected empty set after reset, got %d", d.Len())
	}
	if d.Seen("item-0") {
		t.Error("Expected identities to be unseen after reset")
	}
}
