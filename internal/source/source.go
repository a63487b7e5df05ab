package source

import (
	"context"
	"errors"

	"github.com/factseeker/factseeker/internal/model"
)

// ErrNoContent indicates the source had nothing to deliver. The cycle ends
// quietly; this is not a failure.
var ErrNoContent = errors.New("no content available")

// ContentSource delivers short content items for screening. Fetch may return
// fewer than count items, and items need not be unique across calls.
type ContentSource interface {
	// Name returns the source name
	Name() string

	// Fetch retrieves up to count items
	Fetch(ctx context.Context, count int) ([]model.ContentItem, error)
}
