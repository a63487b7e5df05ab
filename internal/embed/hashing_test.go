package embed

import (
	"context"
	"math"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Check out this fake news! http://fake.example #scam", "check out this fake news  scam"},
		{"Hello, World!", "hello world"},
		{"   plain text   ", "plain text"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHashingEmbedder_Deterministic(t *testing.T) {
	e := NewHashingEmbedder(0)
	ctx := context.Background()

	first, err := e.Embed(ctx, "The Earth orbits the Sun")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	second, err := e.Embed(ctx, "The Earth orbits the Sun")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected identical vectors, differ at index %d", i)
		}
	}
}

func TestHashingEmbedder_Dimensions(t *testing.T) {
	e := NewHashingEmbedder(64)

	if e.Dimensions() != 64 {
		t.Errorf("Expected dimensions 64, got %d", e.Dimensions())
	}

	vec, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(vec) != 64 {
		t.Errorf("Expected vector length 64, got %d", len(vec))
	}
}

func TestHashingEmbedder_UnitLength(t *testing.T) {
	e := NewHashingEmbedder(128)

	vec, err := e.Embed(context.Background(), "vaccines are safe and effective")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-5 {
		t.Errorf("Expected unit vector, got squared norm %v", sum)
	}
}

func TestHashingEmbedder_EmptyInput(t *testing.T) {
	e := NewHashingEmbedder(32)

	vec, err := e.Embed(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("Expected zero vector for empty input, got %v at index %d", v, i)
		}
	}
}

func TestHashingEmbedder_SimilarTextCloser(t *testing.T) {
	e := NewHashingEmbedder(0)
	ctx := context.Background()

	query, _ := e.Embed(ctx, "the earth is flat")
	related, _ := e.Embed(ctx, "The Earth orbits the Sun, and the earth is not flat.")
	unrelated, _ := e.Embed(ctx, "The capital of France is Paris.")

	if dot(query, related) <= dot(query, unrelated) {
		t.Error("Expected related text to score higher than unrelated text")
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
