package embed

import (
	"context"
	"regexp"
	"strings"
)

// Embedder maps text to a fixed-length vector. Implementations must be
// deterministic for identical input.
type Embedder interface {
	// Name returns the embedder name
	Name() string

	// Embed returns the vector for the text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed vector length
	Dimensions() int
}

var (
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	nonWordChars = regexp.MustCompile(`[^\w\s]`)
)

// CleanText strips URLs and punctuation and lowercases the input, so the
// same statement embeds identically regardless of surface noise. Applied by
// every embedder before encoding.
func CleanText(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = nonWordChars.ReplaceAllString(text, "")
	return strings.TrimSpace(strings.ToLower(text))
}
