package index

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/factseeker/factseeker/internal/embed"
)

// Fact is one entry of a YAML corpus file
type Fact struct {
	Text   string `yaml:"text"`
	Source string `yaml:"source"`
}

type corpusFile struct {
	Facts []Fact `yaml:"facts"`
}

// DefaultFacts returns the built-in trusted statements used when no corpus
// file is configured.
func DefaultFacts() []Fact {
	statements := []string{
		"The World Health Organization (WHO) states that vaccines are safe and effective.",
		"The Earth orbits the Sun, and it takes approximately 365.25 days to complete one orbit.",
		"Drinking water is essential for human survival.",
		"COVID-19 is caused by the SARS-CoV-2 virus.",
		"The capital of France is Paris.",
	}

	facts := make([]Fact, 0, len(statements))
	for _, s := range statements {
		facts = append(facts, Fact{Text: s, Source: "TrustedSource"})
	}
	return facts
}

// LoadFacts reads a YAML corpus file:
//
//	facts:
//	  - text: "The Earth orbits the Sun."
//	    source: "TrustedSource"
func LoadFacts(path string) ([]Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	facts := make([]Fact, 0, len(file.Facts))
	for i, fact := range file.Facts {
		if strings.TrimSpace(fact.Text) == "" {
			return nil, fmt.Errorf("corpus entry %d has empty text", i)
		}
		if fact.Source == "" {
			fact.Source = "TrustedSource"
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// Build embeds all facts and returns a ready index
func Build(ctx context.Context, embedder embed.Embedder, facts []Fact) (*Index, error) {
	ix := New(embedder)
	for _, fact := range facts {
		if err := ix.Add(ctx, fact.Text, fact.Source); err != nil {
			return nil, err
		}
	}
	return ix, nil
}
