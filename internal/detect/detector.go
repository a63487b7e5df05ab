package detect

import (
	"math/rand"
	"strings"

	"github.com/factseeker/factseeker/internal/model"
)

// Tier is one ordered row of the detection table: a named keyword set and the
// fixed confidence it assigns. Earlier tiers win and carry higher severity.
type Tier struct {
	Name       string
	Keywords   []string
	Confidence float64
}

// DefaultTiers returns the production rule table. Tuning a tier is a data
// change, not a code change.
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name: "fabrication",
			Keywords: []string{
				"fake", "scam", "conspiracy", "secret", "staged",
			},
			Confidence: 0.9,
		},
		{
			Name: "health",
			Keywords: []string{
				"cure", "cures", "treatment", "heal", "remedy", "prevent", "prevents",
			},
			Confidence: 0.85,
		},
		{
			Name: "extreme",
			Keywords: []string{
				"all diseases", "all illness", "100%", "guaranteed", "never", "always",
			},
			Confidence: 0.8,
		},
	}
}

// Unscored supplies the confidence for text no tier matched. Isolated behind
// this interface so a stochastic demo strategy never leaks into the scoring
// of classified text.
type Unscored interface {
	Confidence(text string) float64
}

// FixedUnscored always returns the same low confidence. This is the
// production strategy: detection stays deterministic for a given rule table.
type FixedUnscored struct {
	Value float64
}

// Confidence returns the fixed value
func (u FixedUnscored) Confidence(string) float64 {
	return u.Value
}

// RandomUnscored returns a uniform confidence in [Min, Max). It mimics the
// noise floor of an untrained classifier and exists for demos only.
type RandomUnscored struct {
	Min, Max float64
	Rand     *rand.Rand
}

// Confidence returns a random value in the configured band
func (u RandomUnscored) Confidence(string) float64 {
	span := u.Max - u.Min
	if span <= 0 {
		return u.Min
	}
	if u.Rand != nil {
		return u.Min + u.Rand.Float64()*span
	}
	return u.Min + rand.Float64()*span
}

// Detector scores content for suspicion using ordered keyword tiers.
// Pluggable: the rule table stands in for a trained classifier and can be
// replaced by one behind the same Detect contract.
type Detector struct {
	tiers    []Tier
	unscored Unscored
}

// New creates a detector with the default tiers and the deterministic
// unscored strategy.
func New() *Detector {
	return NewWithTiers(DefaultTiers(), FixedUnscored{Value: 0.1})
}

// NewWithTiers creates a detector with a custom rule table
func NewWithTiers(tiers []Tier, unscored Unscored) *Detector {
	if unscored == nil {
		unscored = FixedUnscored{Value: 0.1}
	}
	return &Detector{
		tiers:    tiers,
		unscored: unscored,
	}
}

// Detect scores the text against the rule table. The first matching tier
// wins and assigns its fixed confidence; unmatched text falls through to the
// unscored band. Deterministic for the same input and rule table. Empty or
// whitespace-only input yields the unscored band.
func (d *Detector) Detect(text string) model.DetectionResult {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return model.NewDetectionResult(d.unscored.Confidence(text), "")
	}

	for _, tier := range d.tiers {
		for _, keyword := range tier.Keywords {
			if strings.Contains(lower, keyword) {
				return model.NewDetectionResult(tier.Confidence, tier.Name+":"+keyword)
			}
		}
	}

	return model.NewDetectionResult(d.unscored.Confidence(text), "")
}
