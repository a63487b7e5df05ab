package model

import (
	"fmt"
	"strings"
	"time"
)

// FlagThreshold is the confidence above which content is flagged for
// verification.
const FlagThreshold = 0.7

// DetectionLabel classifies a scored content item.
type DetectionLabel string

const (
	LabelSuspect DetectionLabel = "SUSPECT"
	LabelBenign  DetectionLabel = "BENIGN"
)

// DetectionResult is the Detector's suspicion score for one item.
type DetectionResult struct {
	Label      DetectionLabel `json:"label"`
	Confidence float64        `json:"confidence"`
	Flagged    bool           `json:"flagged"`
	Heuristic  string         `json:"heuristic,omitempty"` // which tier rule matched (e.g. "fabrication:conspiracy")
}

// NewDetectionResult builds a result whose label and flagged state are pure
// functions of the confidence. There is no other way to set them.
func NewDetectionResult(confidence float64, heuristic string) DetectionResult {
	flagged := confidence > FlagThreshold
	label := LabelBenign
	if flagged {
		label = LabelSuspect
	}
	return DetectionResult{
		Label:      label,
		Confidence: confidence,
		Flagged:    flagged,
		Heuristic:  heuristic,
	}
}

// Verdict is the Verifier's tri-state conclusion about a claim.
type Verdict string

const (
	VerdictTrue      Verdict = "TRUE"
	VerdictFalse     Verdict = "FALSE"
	VerdictUncertain Verdict = "UNCERTAIN"
)

// VerificationResult is the outcome of fact-checking a flagged claim against
// retrieved evidence.
type VerificationResult struct {
	Verdict     Verdict            `json:"verdict"`
	Explanation string             `json:"explanation"`
	Evidence    []EvidenceDocument `json:"evidence_used,omitempty"` // ordered, most relevant first
	Degraded    bool               `json:"degraded,omitempty"`      // produced via the deterministic fallback
}

// Action is the terminal outcome of a decision cycle.
type Action string

const (
	ActionNone             Action = "none"              // benign, nothing to do
	ActionLogged           Action = "logged"            // flagged, verdict not FALSE
	ActionAlertSent        Action = "alert_sent"        // flagged, verdict FALSE
	ActionSkippedDuplicate Action = "skipped_duplicate" // duplicate persisted after one retry
)

// DecisionRecord is the full audit unit for one processed item. Written once
// per cycle, never mutated after write.
type DecisionRecord struct {
	ID           string              `json:"id"`
	Timestamp    time.Time           `json:"timestamp"`
	Content      ContentItem         `json:"content"`
	Detection    *DetectionResult    `json:"detection,omitempty"` // absent for skipped duplicates
	Verification *VerificationResult `json:"verification,omitempty"`
	Action       Action              `json:"action"`
	Reasoning    string              `json:"reasoning,omitempty"`
}

// BuildReasoning derives the human-readable reasoning chain for the record.
// The narrative is self-describing: it can be read without the live corpus.
func (r DecisionRecord) BuildReasoning() string {
	var parts []string

	switch {
	case r.Action == ActionSkippedDuplicate:
		parts = append(parts, "Content was already processed in this session; skipped after one retry.")
	case r.Detection != nil && r.Detection.Flagged:
		parts = append(parts, fmt.Sprintf("Content was flagged as potential misinformation with %.0f%% confidence.", r.Detection.Confidence*100))
	case r.Detection != nil:
		parts = append(parts, fmt.Sprintf("Content appears legitimate with %.0f%% confidence.", (1-r.Detection.Confidence)*100))
	}

	if r.Verification != nil {
		parts = append(parts, fmt.Sprintf("Fact-checking verdict: %s.", r.Verification.Verdict))
		parts = append(parts, fmt.Sprintf("Explanation: %s", r.Verification.Explanation))
		if r.Verification.Degraded {
			parts = append(parts, "Verdict was produced by the deterministic fallback (reasoning service unavailable).")
		}
	}

	if r.Action == ActionAlertSent {
		parts = append(parts, "Action taken: alert sent.")
	}

	return strings.Join(parts, " ")
}
