package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/alert"
	"github.com/factseeker/factseeker/internal/audit"
	"github.com/factseeker/factseeker/internal/detect"
	"github.com/factseeker/factseeker/internal/embed"
	"github.com/factseeker/factseeker/internal/index"
	"github.com/factseeker/factseeker/internal/model"
	"github.com/factseeker/factseeker/internal/source"
	"github.com/factseeker/factseeker/internal/store"
	"github.com/factseeker/factseeker/internal/verify"
)

// stubSource delivers a fixed queue of items, one per Fetch call, then
// reports no content.
type stubSource struct {
	items []model.ContentItem
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(_ context.Context, _ int) ([]model.ContentItem, error) {
	s.calls++
	if len(s.items) == 0 {
		return nil, source.ErrNoContent
	}
	item := s.items[0]
	s.items = s.items[1:]
	return []model.ContentItem{item}, nil
}

type stubSink struct {
	notified []model.ContentItem
	err      error
}

func (s *stubSink) Name() string { return "stub" }

func (s *stubSink) Notify(_ context.Context, item model.ContentItem, _ model.VerificationResult) error {
	s.notified = append(s.notified, item)
	return s.err
}

// stubReasoner returns a canned response
type stubReasoner struct {
	response string
	err      error
}

func (r *stubReasoner) Name() string { return "stub" }

func (r *stubReasoner) Generate(_ context.Context, _ string, _ int, _ float32) (string, error) {
	return r.response, r.err
}

func (r *stubReasoner) IsAvailable(_ context.Context) bool { return true }

func contentItem(id, text string) model.ContentItem {
	return model.ContentItem{
		ID:     id,
		Source: "Sample",
		Text:   text,
	}
}

func newTestOrchestrator(t *testing.T, src source.ContentSource, sink alert.AlertSink, verifier *verify.Verifier) (*Orchestrator, *audit.Log) {
	t.Helper()

	log, err := audit.NewLog(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create audit log: %v", err)
	}

	ix, err := index.Build(context.Background(), embed.NewHashingEmbedder(0), index.DefaultFacts())
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}

	orch, err := New(Options{
		Source:   src,
		Detector: detect.New(),
		Index:    ix,
		Verifier: verifier,
		Store:    store.NewMemoryStore(time.Hour),
		Audit:    log,
		Sink:     sink,
		TopK:     2,
		Logger:   zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("Failed to create orchestrator: %v", err)
	}
	return orch, log
}

func TestRunCycle_BenignContent(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "The sky is blue today."),
	}}
	sink := &stubSink{}
	orch, log := newTestOrchestrator(t, src, sink, verify.New(nil, nil))

	pctx := NewContext()
	rec, err := orch.RunCycle(context.Background(), pctx)
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected a decision record")
	}

	if rec.Action != model.ActionNone {
		t.Errorf("Expected action none, got %s", rec.Action)
	}
	if rec.Detection == nil || rec.Detection.Flagged {
		t.Errorf("Expected unflagged detection, got %+v", rec.Detection)
	}
	if rec.Verification != nil {
		t.Error("Expected no verification for benign content")
	}
	if len(sink.notified) != 0 {
		t.Error("Expected no alerts for benign content")
	}
	if pctx.Scanned() != 1 {
		t.Errorf("Expected 1 scanned item, got %d", pctx.Scanned())
	}

	records, err := log.ReadDay(rec.Timestamp)
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Errorf("Expected the record in the audit log, got %+v", records)
	}
}

func TestRunCycle_FlaggedFalseVerdictAlerts(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "This is a secret conspiracy about the moon."),
	}}
	sink := &stubSink{}
	reasoner := &stubReasoner{response: "Verdict: FALSE\nExplanation: No evidence supports this."}
	orch, _ := newTestOrchestrator(t, src, sink, verify.New(reasoner, nil))

	pctx := NewContext()
	rec, err := orch.RunCycle(context.Background(), pctx)
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	if rec.Action != model.ActionAlertSent {
		t.Errorf("Expected action alert_sent, got %s", rec.Action)
	}
	if rec.Detection == nil || !rec.Detection.Flagged {
		t.Errorf("Expected flagged detection, got %+v", rec.Detection)
	}
	if rec.Verification == nil || rec.Verification.Verdict != model.VerdictFalse {
		t.Errorf("Expected FALSE verdict, got %+v", rec.Verification)
	}
	if len(rec.Verification.Evidence) != 2 {
		t.Errorf("Expected 2 evidence documents, got %d", len(rec.Verification.Evidence))
	}
	if len(sink.notified) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(sink.notified))
	}
	if alerts := pctx.Alerts(); len(alerts) != 1 {
		t.Errorf("Expected 1 buffered alert, got %d", len(alerts))
	}
}

func TestRunCycle_FlaggedTrueVerdictLogsOnly(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "Scientists found a treatment for the disease."),
	}}
	sink := &stubSink{}
	reasoner := &stubReasoner{response: "Verdict: TRUE\nExplanation: The evidence supports this."}
	orch, _ := newTestOrchestrator(t, src, sink, verify.New(reasoner, nil))

	rec, err := orch.RunCycle(context.Background(), NewContext())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	if rec.Action != model.ActionLogged {
		t.Errorf("Expected action logged, got %s", rec.Action)
	}
	if len(sink.notified) != 0 {
		t.Error("Expected no alert for a TRUE verdict")
	}
}

func TestRunCycle_DuplicateRetriesOnce(t *testing.T) {
	// Same text twice, then a fresh item. The duplicate triggers one refetch
	// which succeeds.
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "The sky is blue today."),
		contentItem("item-1", "The sky is blue today."),
		contentItem("item-2", "The city council meets on Tuesday."),
	}}
	orch, _ := newTestOrchestrator(t, src, &stubSink{}, verify.New(nil, nil))

	pctx := NewContext()
	first, err := orch.RunCycle(context.Background(), pctx)
	if err != nil {
		t.Fatalf("First cycle failed: %v", err)
	}
	if first.Action != model.ActionNone {
		t.Errorf("Expected action none, got %s", first.Action)
	}

	second, err := orch.RunCycle(context.Background(), pctx)
	if err != nil {
		t.Fatalf("Second cycle failed: %v", err)
	}
	if second == nil {
		t.Fatal("Expected a record from the retried fetch")
	}
	if second.Content.ID != "item-2" {
		t.Errorf("Expected the fresh item after retry, got %s", second.Content.ID)
	}
	if src.calls != 3 {
		t.Errorf("Expected 3 fetches, got %d", src.calls)
	}
}

func TestRunCycle_PersistentDuplicateSkipped(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "The sky is blue today."),
		contentItem("item-1", "The sky is blue today."),
		contentItem("item-1", "The sky is blue today."),
	}}
	sink := &stubSink{}
	reasoner := &stubReasoner{response: "Verdict: FALSE\nExplanation: n/a"}
	orch, log := newTestOrchestrator(t, src, sink, verify.New(reasoner, nil))

	pctx := NewContext()
	if _, err := orch.RunCycle(context.Background(), pctx); err != nil {
		t.Fatalf("First cycle failed: %v", err)
	}

	rec, err := orch.RunCycle(context.Background(), pctx)
	if err != nil {
		t.Fatalf("Second cycle failed: %v", err)
	}
	if rec.Action != model.ActionSkippedDuplicate {
		t.Errorf("Expected action skipped_duplicate, got %s", rec.Action)
	}
	if rec.Detection != nil {
		t.Error("Expected no detection for a skipped duplicate")
	}
	if rec.Verification != nil {
		t.Error("Expected no verification for a skipped duplicate")
	}
	if len(sink.notified) != 0 {
		t.Error("Expected no alerts for a skipped duplicate")
	}

	records, err := log.ReadDay(rec.Timestamp)
	if err != nil {
		t.Fatalf("ReadDay failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 audit records, got %d", len(records))
	}
}

func TestRunCycle_NoContent(t *testing.T) {
	src := &stubSource{}
	orch, _ := newTestOrchestrator(t, src, &stubSink{}, verify.New(nil, nil))

	pctx := NewContext()
	rec, err := orch.RunCycle(context.Background(), pctx)
	if err != nil {
		t.Fatalf("Expected quiet end of cycle, got %v", err)
	}
	if rec != nil {
		t.Errorf("Expected no record, got %+v", rec)
	}
	if pctx.Scanned() != 0 {
		t.Errorf("Expected 0 scanned items, got %d", pctx.Scanned())
	}
}

func TestRunCycle_Cancellation(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "The sky is blue today."),
	}}
	orch, _ := newTestOrchestrator(t, src, &stubSink{}, verify.New(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pctx := NewContext()
	rec, err := orch.RunCycle(ctx, pctx)
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if rec != nil {
		t.Errorf("Expected no record, got %+v", rec)
	}
	if pctx.Dedup.Len() != 0 {
		t.Error("Expected dedup rollback on cancellation")
	}
}

func TestRunCycle_DegradedVerification(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "Scientists discovered a secret cure."),
	}}
	sink := &stubSink{}
	orch, _ := newTestOrchestrator(t, src, sink, verify.New(nil, nil))

	rec, err := orch.RunCycle(context.Background(), NewContext())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	if rec.Action != model.ActionLogged {
		t.Errorf("Expected action logged for uncertain fallback, got %s", rec.Action)
	}
	if rec.Verification == nil || !rec.Verification.Degraded {
		t.Errorf("Expected degraded verification, got %+v", rec.Verification)
	}
	if rec.Verification.Verdict != model.VerdictUncertain {
		t.Errorf("Expected UNCERTAIN verdict, got %s", rec.Verification.Verdict)
	}
}

func TestRunCycle_AlertFailureDoesNotFailCycle(t *testing.T) {
	src := &stubSource{items: []model.ContentItem{
		contentItem("item-1", "This is a secret conspiracy about the moon."),
	}}
	sink := &stubSink{err: errors.New("delivery failed")}
	reasoner := &stubReasoner{response: "Verdict: FALSE\nExplanation: n/a"}
	orch, _ := newTestOrchestrator(t, src, sink, verify.New(reasoner, nil))

	rec, err := orch.RunCycle(context.Background(), NewContext())
	if err != nil {
		t.Fatalf("Expected cycle to succeed despite sink failure, got %v", err)
	}
	if rec.Action != model.ActionAlertSent {
		t.Errorf("Expected action alert_sent, got %s", rec.Action)
	}
}

func TestDeriveAction(t *testing.T) {
	falseResult := model.VerificationResult{Verdict: model.VerdictFalse}
	trueResult := model.VerificationResult{Verdict: model.VerdictTrue}
	uncertainResult := model.VerificationResult{Verdict: model.VerdictUncertain}

	tests := []struct {
		name         string
		confidence   float64
		verification *model.VerificationResult
		want         model.Action
	}{
		{"benign", 0.1, nil, model.ActionNone},
		{"flagged false verdict", 0.9, &falseResult, model.ActionAlertSent},
		{"flagged true verdict", 0.9, &trueResult, model.ActionLogged},
		{"flagged uncertain verdict", 0.85, &uncertainResult, model.ActionLogged},
		{"flagged without verification", 0.9, nil, model.ActionLogged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detection := model.NewDetectionResult(tt.confidence, "")
			if got := DeriveAction(detection, tt.verification); got != tt.want {
				t.Errorf("Expected action %s, got %s", tt.want, got)
			}
		})
	}
}

func TestContext_Reset(t *testing.T) {
	pctx := NewContext()
	pctx.Dedup.Mark("item-1")
	pctx.AddAlert("alert")
	pctx.RecordScan()

	pctx.Reset()

	if pctx.Dedup.Len() != 0 {
		t.Error("Expected dedup to be cleared")
	}
	if len(pctx.Alerts()) != 0 {
		t.Error("Expected alerts to be cleared")
	}
	if pctx.Scanned() != 0 {
		t.Error("Expected scanned counter to be cleared")
	}
}
