package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// ContentItem is one short piece of content pulled from a source.
// Immutable once fetched.
type ContentItem struct {
	ID          string     `json:"id"`                    // derived from the normalized text hash
	ExternalID  string     `json:"external_id,omitempty"` // stable id supplied by the source, if any
	Source      string     `json:"source"`                // e.g. "NewsAPI", "Sample"
	Publisher   string     `json:"publisher,omitempty"`
	Author      string     `json:"author,omitempty"`
	Text        string     `json:"text"`
	URL         string     `json:"url,omitempty"`
	PublishedAt time.Time  `json:"published_at,omitempty"`
	Engagement  Engagement `json:"engagement"`
}

// Engagement holds the engagement metrics reported by the source.
type Engagement struct {
	Likes  int `json:"likes"`
	Shares int `json:"shares"`
}

// Identity returns the identity used for duplicate suppression. A stable
// external id from the source is authoritative; otherwise the normalized-text
// digest is used. Exact-match only: near-identical but distinct items are
// treated as distinct when the source provides ids.
func (c ContentItem) Identity() string {
	if c.ExternalID != "" {
		return c.ExternalID
	}
	return c.ID
}

// NormalizeText case-folds and collapses whitespace so trivially reformatted
// copies of the same content share an identity.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ContentID derives the content-hash id from the normalized text.
func ContentID(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}
