package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factseeker/factseeker/internal/alert"
	"github.com/factseeker/factseeker/internal/audit"
	"github.com/factseeker/factseeker/internal/detect"
	"github.com/factseeker/factseeker/internal/index"
	"github.com/factseeker/factseeker/internal/model"
	"github.com/factseeker/factseeker/internal/source"
	"github.com/factseeker/factseeker/internal/store"
	"github.com/factseeker/factseeker/internal/verify"
)

// State names the stage a cycle is in. Exported for log correlation.
type State string

const (
	StateFetching     State = "FETCHING"
	StateDedupCheck   State = "DEDUP_CHECK"
	StateScoring      State = "SCORING"
	StateRetrieval    State = "RETRIEVAL"
	StateVerification State = "VERIFICATION"
	StateRecording    State = "RECORDING"
	StateDone         State = "DONE"
)

// Options wires the pipeline components together. Source, Detector, Index,
// Verifier, and Audit are required; Store and Sink are optional.
type Options struct {
	Source   source.ContentSource
	Detector *detect.Detector
	Index    *index.Index
	Verifier *verify.Verifier
	Store    store.Store
	Audit    *audit.Log
	Sink     alert.AlertSink
	TopK     int
	Logger   *zap.Logger
}

// Orchestrator runs the screening cycle: fetch, dedup, score, and for flagged
// items retrieve evidence and verify, then record the decision. Stages run
// strictly in order; the only external side effects happen in the recording
// stage and in alert delivery for FALSE verdicts.
type Orchestrator struct {
	source   source.ContentSource
	detector *detect.Detector
	index    *index.Index
	verifier *verify.Verifier
	store    store.Store
	audit    *audit.Log
	sink     alert.AlertSink
	topK     int
	logger   *zap.Logger
}

// New creates an orchestrator from the given options
func New(opts Options) (*Orchestrator, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("content source is required")
	}
	if opts.Detector == nil {
		return nil, fmt.Errorf("detector is required")
	}
	if opts.Index == nil {
		return nil, fmt.Errorf("evidence index is required")
	}
	if opts.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if opts.Audit == nil {
		return nil, fmt.Errorf("audit log is required")
	}
	if opts.TopK <= 0 {
		opts.TopK = 2
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Orchestrator{
		source:   opts.Source,
		detector: opts.Detector,
		index:    opts.Index,
		verifier: opts.Verifier,
		store:    opts.Store,
		audit:    opts.Audit,
		sink:     opts.Sink,
		topK:     opts.TopK,
		logger:   opts.Logger,
	}, nil
}

// RunCycle processes one content item end to end and returns the recorded
// decision. A source with nothing to deliver ends the cycle quietly with a
// nil record. A duplicate item triggers one refetch; a second duplicate is
// recorded as skipped rather than reprocessed.
func (o *Orchestrator) RunCycle(ctx context.Context, pctx *Context) (*model.DecisionRecord, error) {
	item, fresh, err := o.acquire(ctx, pctx)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if !fresh {
		return o.record(ctx, pctx, model.DecisionRecord{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC(),
			Content:   *item,
			Action:    model.ActionSkippedDuplicate,
		})
	}

	if err := ctx.Err(); err != nil {
		pctx.Dedup.Forget(item.Identity())
		return nil, err
	}

	if o.store != nil {
		o.store.Save(*item)
	}

	o.logger.Debug("scoring content",
		zap.String("state", string(StateScoring)),
		zap.String("identity", item.Identity()))
	detection := o.detector.Detect(item.Text)

	var verification *model.VerificationResult
	if detection.Flagged {
		if err := ctx.Err(); err != nil {
			pctx.Dedup.Forget(item.Identity())
			return nil, err
		}

		evidence := o.retrieve(ctx, item.Text)
		result := o.verifier.Verify(ctx, item.Text, evidence)
		verification = &result
	}

	rec, err := o.record(ctx, pctx, model.DecisionRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Content:      *item,
		Detection:    &detection,
		Verification: verification,
		Action:       DeriveAction(detection, verification),
	})
	if err != nil {
		pctx.Dedup.Forget(item.Identity())
		return nil, err
	}

	if rec.Action == model.ActionAlertSent {
		o.notify(ctx, pctx, rec)
	}

	return rec, nil
}

// acquire fetches one item and claims its identity in the dedup set. On a
// duplicate it refetches once; if the second item is also a duplicate the
// item is returned with fresh=false so the caller records the skip. A nil
// item means the source had nothing.
func (o *Orchestrator) acquire(ctx context.Context, pctx *Context) (*model.ContentItem, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		o.logger.Debug("fetching content",
			zap.String("state", string(StateFetching)),
			zap.String("source", o.source.Name()),
			zap.Int("attempt", attempt+1))

		items, err := o.source.Fetch(ctx, 1)
		if err != nil {
			if errors.Is(err, source.ErrNoContent) {
				o.logger.Info("source has no content, ending cycle")
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("fetch content: %w", err)
		}
		if len(items) == 0 {
			return nil, false, nil
		}

		item := items[0]
		if pctx.Dedup.MarkIfNew(item.Identity()) {
			return &item, true, nil
		}

		o.logger.Debug("duplicate content",
			zap.String("state", string(StateDedupCheck)),
			zap.String("identity", item.Identity()))

		if attempt == 1 {
			return &item, false, nil
		}
	}
	return nil, false, nil
}

// retrieve fetches evidence for the claim. Retrieval failures degrade to no
// evidence rather than aborting the cycle.
func (o *Orchestrator) retrieve(ctx context.Context, claim string) []model.EvidenceDocument {
	o.logger.Debug("retrieving evidence",
		zap.String("state", string(StateRetrieval)),
		zap.Int("top_k", o.topK))

	evidence, err := o.index.Retrieve(ctx, claim, o.topK)
	if err != nil {
		o.logger.Warn("evidence retrieval failed, verifying without evidence", zap.Error(err))
		return nil
	}
	return evidence
}

// record appends the decision to the audit log. An append failure aborts the
// cycle: a decision that is not durable did not happen.
func (o *Orchestrator) record(ctx context.Context, pctx *Context, rec model.DecisionRecord) (*model.DecisionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.logger.Debug("recording decision",
		zap.String("state", string(StateRecording)),
		zap.String("record_id", rec.ID),
		zap.String("action", string(rec.Action)))

	if err := o.audit.Append(&rec); err != nil {
		return nil, fmt.Errorf("append audit record: %w", err)
	}

	pctx.RecordScan()
	o.logger.Info("cycle complete",
		zap.String("state", string(StateDone)),
		zap.String("record_id", rec.ID),
		zap.String("action", string(rec.Action)))
	return &rec, nil
}

// notify delivers the alert for a FALSE verdict. Delivery failures are
// logged; the decision record already stands.
func (o *Orchestrator) notify(ctx context.Context, pctx *Context, rec *model.DecisionRecord) {
	pctx.AddAlert(alert.FormatAlert(rec.Content, *rec.Verification))

	if o.sink == nil {
		return
	}
	if err := o.sink.Notify(ctx, rec.Content, *rec.Verification); err != nil {
		o.logger.Warn("alert delivery failed",
			zap.String("sink", o.sink.Name()),
			zap.String("record_id", rec.ID),
			zap.Error(err))
	}
}

// DeriveAction maps a cycle's outcomes to the terminal action: benign items
// take no action, a FALSE verdict raises an alert, anything else flagged is
// logged.
func DeriveAction(detection model.DetectionResult, verification *model.VerificationResult) model.Action {
	if !detection.Flagged {
		return model.ActionNone
	}
	if verification != nil && verification.Verdict == model.VerdictFalse {
		return model.ActionAlertSent
	}
	return model.ActionLogged
}
