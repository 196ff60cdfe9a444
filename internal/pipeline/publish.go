package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/folio/internal/content"
	"github.com/MrSnakeDoc/folio/internal/drafts"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/remote"
)

// DraftOutcome reports how the local save step went.
type DraftOutcome string

const (
	DraftSaved   DraftOutcome = "ok"
	DraftReduced DraftOutcome = "reduced"
	DraftFailed  DraftOutcome = "failed"
)

// Activity steps.
const (
	StepDraft   = "draft"
	StepPublish = "publish"
	StepReload  = "reload"
)

// PublishResult is returned by a successful publish.
type PublishResult struct {
	Revision string       `json:"revision"`
	Draft    DraftOutcome `json:"draft"`
}

// Publisher runs the two-phase publish: local draft save, then remote commit.
type Publisher struct {
	drafts   drafts.Store
	remote   remote.Store
	activity *ActivityLog
	reload   chan<- struct{}
	log      logger.Logger
}

// NewPublisher creates a publisher. reload may be nil; when set it receives a
// non-blocking signal after every successful remote write.
func NewPublisher(d drafts.Store, r remote.Store, activity *ActivityLog, reload chan<- struct{}, log logger.Logger) *Publisher {
	if activity == nil {
		activity = NewActivityLog(0)
	}
	return &Publisher{drafts: d, remote: r, activity: activity, reload: reload, log: log}
}

// Activity returns the publisher's activity log.
func (p *Publisher) Activity() *ActivityLog { return p.activity }

// SaveDraft encodes doc into the draft store. When the store refuses the
// payload for size, it retries exactly once with embedded images cleared.
func (p *Publisher) SaveDraft(ctx context.Context, doc *content.Document) (DraftOutcome, error) {
	data, err := content.Encode(doc)
	if err != nil {
		return p.draftFailed(err)
	}

	err = p.drafts.Put(ctx, data)
	if err == nil {
		metrics.DraftSaveTotal.WithLabelValues(string(DraftSaved)).Inc()
		p.activity.Record(StepDraft, true, fmt.Sprintf("draft saved (%d bytes)", len(data)))
		return DraftSaved, nil
	}
	if !errors.Is(err, drafts.ErrQuotaExceeded) {
		return p.draftFailed(err)
	}

	p.log.Warn("draft exceeds storage quota, retrying without embedded images",
		logger.Int("bytes", len(data)))

	reduced, cleared, err := content.Reduce(doc)
	if err != nil {
		return p.draftFailed(err)
	}
	data, err = content.Encode(reduced)
	if err != nil {
		return p.draftFailed(err)
	}
	if err := p.drafts.Put(ctx, data); err != nil {
		return p.draftFailed(err)
	}

	metrics.DraftSaveTotal.WithLabelValues(string(DraftReduced)).Inc()
	p.activity.Record(StepDraft, true,
		fmt.Sprintf("draft saved without %d embedded image(s) (%d bytes)", cleared, len(data)))
	return DraftReduced, nil
}

func (p *Publisher) draftFailed(err error) (DraftOutcome, error) {
	metrics.DraftSaveTotal.WithLabelValues(string(DraftFailed)).Inc()
	p.activity.Record(StepDraft, false, err.Error())
	return DraftFailed, fmt.Errorf("failed to save draft: %w", err)
}

// Publish saves the draft (best effort) and then writes the full document to
// the remote store. Only a remote failure fails the call.
func (p *Publisher) Publish(ctx context.Context, doc *content.Document, message string) (*PublishResult, error) {
	outcome, err := p.SaveDraft(ctx, doc)
	if err != nil {
		p.log.Error("local draft save failed, publishing anyway", logger.Error(err))
	}

	data, err := content.Encode(doc)
	if err != nil {
		metrics.PublishTotal.WithLabelValues("error").Inc()
		p.activity.Record(StepPublish, false, err.Error())
		return nil, err
	}

	start := time.Now()
	rev, err := p.remote.Publish(ctx, data, message)
	metrics.PublishDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		result := "error"
		if errors.Is(err, remote.ErrStaleRevision) {
			result = "stale"
		}
		metrics.PublishTotal.WithLabelValues(result).Inc()
		p.activity.Record(StepPublish, false, err.Error())
		p.log.Error("publish failed",
			logger.String("remote", p.remote.Name()),
			logger.Error(err))
		return nil, err
	}

	metrics.PublishTotal.WithLabelValues("success").Inc()
	p.activity.Record(StepPublish, true,
		fmt.Sprintf("published to %s at revision %s", p.remote.Name(), rev))
	p.log.Info("content published",
		logger.String("remote", p.remote.Name()),
		logger.String("revision", rev),
		logger.Int("bytes", len(data)))

	p.triggerReload()

	return &PublishResult{Revision: rev, Draft: outcome}, nil
}

func (p *Publisher) triggerReload() {
	if p.reload == nil {
		return
	}
	select {
	case p.reload <- struct{}{}:
		p.activity.Record(StepReload, true, "snapshot reload triggered")
	default:
		p.activity.Record(StepReload, true, "snapshot reload already pending")
	}
}
