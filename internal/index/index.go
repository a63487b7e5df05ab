package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/factseeker/factseeker/internal/embed"
	"github.com/factseeker/factseeker/internal/model"
)

// ErrInvalidK is returned when Retrieve is called with k <= 0 (caller
// contract violation).
var ErrInvalidK = errors.New("k must be positive")

// Index is an exact nearest-neighbor index over the evidence corpus.
//
// The metric is cosine distance (1 - cosine similarity), fixed for both
// construction and query time. Vectors are L2-normalized at insert, so the
// distance reduces to 1 - dot product. Exhaustive scan is exact and fast
// enough below ~10^5 documents; an approximate index (HNSW, IVF) can replace
// this behind the same Retrieve contract.
//
// The corpus is append-only: concurrent retrievals read a snapshot of the
// document slice, so an Add never disturbs an in-flight query.
type Index struct {
	embedder embed.Embedder

	mu   sync.RWMutex
	docs []model.EvidenceDocument
}

// New creates an empty index backed by the given embedder
func New(embedder embed.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Add embeds one statement and appends it to the corpus. Each statement is
// embedded exactly once, at load time.
func (ix *Index) Add(ctx context.Context, text, sourceTag string) error {
	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed corpus statement: %w", err)
	}

	doc := model.EvidenceDocument{
		Text:      text,
		SourceTag: sourceTag,
		Embedding: l2Normalize(vec),
	}

	ix.mu.Lock()
	ix.docs = append(ix.docs, doc)
	ix.mu.Unlock()
	return nil
}

// Len returns the corpus size
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Retrieve returns up to k evidence documents ordered by ascending cosine
// distance to the query (most relevant first). An empty corpus yields an
// empty result, never an error.
func (ix *Index) Retrieve(ctx context.Context, query string, k int) ([]model.EvidenceDocument, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}

	ix.mu.RLock()
	docs := ix.docs
	ix.mu.RUnlock()

	if len(docs) == 0 {
		return nil, nil
	}

	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec = l2Normalize(queryVec)

	type scored struct {
		doc      model.EvidenceDocument
		distance float64
	}

	results := make([]scored, 0, len(docs))
	for _, doc := range docs {
		results = append(results, scored{
			doc:      doc,
			distance: 1 - dot(queryVec, doc.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].distance < results[j].distance
	})

	if k > len(results) {
		k = len(results)
	}

	out := make([]model.EvidenceDocument, k)
	for i := 0; i < k; i++ {
		out[i] = results[i].doc
	}
	return out, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func l2Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(sum))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v * inv
	}
	return out
}
