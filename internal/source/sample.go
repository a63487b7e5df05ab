package source

import (
	"context"
	"sync"
	"time"

	"github.com/factseeker/factseeker/internal/model"
)

// SampleSource is the no-credential fallback: a fixed rotation of canned
// items so the pipeline runs end-to-end offline. The rotation wraps around,
// so repeats occur naturally and exercise duplicate suppression.
type SampleSource struct {
	mu    sync.Mutex
	next  int
	items []model.ContentItem
}

// NewSampleSource creates a sample source with the built-in rotation
func NewSampleSource() *SampleSource {
	texts := []struct {
		author string
		text   string
		likes  int
		shares int
	}{
		{"@moonwatcher", "This is a secret conspiracy about the moon.", 812, 340},
		{"@weatherfan", "The sky is blue today.", 12, 2},
		{"@herbalpath", "This miracle herb cures all diseases, doctors hate it!", 951, 487},
		{"@flatplanet", "The earth is flat and the space agencies know it.", 623, 295},
		{"@newsdesk", "City council approves new bicycle lanes downtown.", 45, 9},
		{"@wellness4u", "This supplement is 100% guaranteed to prevent the flu.", 734, 388},
	}

	items := make([]model.ContentItem, 0, len(texts))
	for _, t := range texts {
		items = append(items, model.ContentItem{
			ID:          model.ContentID(t.text),
			Source:      "Sample",
			Author:      t.author,
			Text:        t.text,
			PublishedAt: time.Now().UTC(),
			Engagement:  model.Engagement{Likes: t.likes, Shares: t.shares},
		})
	}

	return &SampleSource{items: items}
}

// Name returns the source name
func (s *SampleSource) Name() string {
	return "Sample"
}

// Fetch returns the next count items in rotation
func (s *SampleSource) Fetch(_ context.Context, count int) ([]model.ContentItem, error) {
	if count <= 0 {
		count = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.ContentItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, s.items[s.next])
		s.next = (s.next + 1) % len(s.items)
	}
	return items, nil
}
