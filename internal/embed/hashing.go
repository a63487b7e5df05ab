package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDimensions is the vector length of the hashing embedder
const DefaultDimensions = 256

// HashingEmbedder is the deterministic fallback used when no embedding
// service is configured. It hashes word tokens into a fixed number of
// buckets (the classic hashing trick) and L2-normalizes the counts, so
// cosine distance over its vectors reflects token overlap. Crude next to a
// learned model, but deterministic, offline, and good enough to rank a small
// trusted-fact corpus.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates a hashing embedder with the given vector length
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &HashingEmbedder{dim: dim}
}

// Name returns the embedder name
func (e *HashingEmbedder) Name() string {
	return "hashing"
}

// Dimensions returns the fixed vector length
func (e *HashingEmbedder) Dimensions() int {
	return e.dim
}

// Embed hashes the cleaned tokens of the text into buckets. Never fails;
// empty input yields the zero vector.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)

	for _, token := range strings.Fields(CleanText(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%uint32(e.dim)]++
	}

	return l2Normalize(vec), nil
}

// l2Normalize scales the vector to unit length. The zero vector is returned
// unchanged.
func l2Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
