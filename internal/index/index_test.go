package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/factseeker/factseeker/internal/embed"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Build(context.Background(), embed.NewHashingEmbedder(0), DefaultFacts())
	if err != nil {
		t.Fatalf("Expected no error building index, got %v", err)
	}
	return ix
}

func TestIndex_RetrieveOrdering(t *testing.T) {
	ix := buildTestIndex(t)
	ctx := context.Background()

	docs, err := ix.Retrieve(ctx, "Is the earth flat?", 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(docs) != 5 {
		t.Fatalf("Expected 5 documents, got %d", len(docs))
	}

	// Distances must be non-decreasing: re-embed the query and check.
	e := embed.NewHashingEmbedder(0)
	queryVec, _ := e.Embed(ctx, "Is the earth flat?")
	queryVec = l2Normalize(queryVec)

	prev := -1.0
	for i, doc := range docs {
		vec, _ := e.Embed(ctx, doc.Text)
		dist := 1 - dot(queryVec, l2Normalize(vec))
		if dist < prev-1e-9 {
			t.Errorf("Expected non-decreasing distance, got %v after %v at position %d", dist, prev, i)
		}
		prev = dist
	}
}

func TestIndex_RetrieveTruncatesToK(t *testing.T) {
	ix := buildTestIndex(t)

	docs, err := ix.Retrieve(context.Background(), "water", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 documents, got %d", len(docs))
	}
}

func TestIndex_RetrieveKLargerThanCorpus(t *testing.T) {
	ix := buildTestIndex(t)

	docs, err := ix.Retrieve(context.Background(), "anything", 100)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(docs) != ix.Len() {
		t.Errorf("Expected all %d documents, got %d", ix.Len(), len(docs))
	}
}

func TestIndex_RetrieveInvalidK(t *testing.T) {
	ix := buildTestIndex(t)

	for _, k := range []int{0, -1} {
		_, err := ix.Retrieve(context.Background(), "query", k)
		if !errors.Is(err, ErrInvalidK) {
			t.Errorf("Expected ErrInvalidK for k=%d, got %v", k, err)
		}
	}
}

func TestIndex_RetrieveEmptyCorpus(t *testing.T) {
	ix := New(embed.NewHashingEmbedder(0))

	docs, err := ix.Retrieve(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Expected no error on empty corpus, got %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected empty result, got %d documents", len(docs))
	}
}

func TestIndex_AddGrowsCorpus(t *testing.T) {
	ix := New(embed.NewHashingEmbedder(0))
	ctx := context.Background()

	if err := ix.Add(ctx, "Water boils at 100 degrees Celsius at sea level.", "TrustedSource"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ix.Len() != 1 {
		t.Errorf("Expected corpus size 1, got %d", ix.Len())
	}

	docs, err := ix.Retrieve(ctx, "boiling water", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(docs) != 1 || docs[0].SourceTag != "TrustedSource" {
		t.Errorf("Expected the added document back, got %+v", docs)
	}
}

func TestLoadFacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	content := `facts:
  - text: "The Moon orbits the Earth."
    source: "Astronomy"
  - text: "Honey never spoils."
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Expected no error writing corpus, got %v", err)
	}

	facts, err := LoadFacts(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("Expected 2 facts, got %d", len(facts))
	}
	if facts[0].Source != "Astronomy" {
		t.Errorf("Expected source Astronomy, got %q", facts[0].Source)
	}
	if facts[1].Source != "TrustedSource" {
		t.Errorf("Expected default source, got %q", facts[1].Source)
	}
}

func TestLoadFacts_EmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	content := `facts:
  - text: "   "
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Expected no error writing corpus, got %v", err)
	}

	if _, err := LoadFacts(path); err == nil {
		t.Error("Expected error for empty corpus text")
	}
}
