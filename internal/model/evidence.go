package model

// EvidenceDocument is one trusted statement from the evidence corpus.
// Immutable; the corpus is append-only within a process lifetime.
type EvidenceDocument struct {
	Text      string    `json:"text"`
	SourceTag string    `json:"source_tag"`
	Embedding []float32 `json:"-"` // derived at index time, never persisted
}
