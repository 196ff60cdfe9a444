// Package pipeline loads the editable document and runs the two-phase publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/folio/internal/content"
	"github.com/MrSnakeDoc/folio/internal/drafts"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/remote"
)

// Source names where a loaded document came from.
type Source string

const (
	SourceDraft    Source = "draft"
	SourceRemote   Source = "remote"
	SourceScaffold Source = "scaffold"
)

// ScaffoldFunc builds the document used when the remote has none yet.
type ScaffoldFunc func() (*content.Document, error)

// Loaded is the outcome of Load.
type Loaded struct {
	Document *content.Document
	Source   Source
	Revision string   // remote revision marker, empty for drafts
	Applied  []string // names of migration patches that changed something
}

// Loader resolves the document the admin console edits.
type Loader struct {
	drafts   drafts.Store
	remote   remote.Store
	scaffold ScaffoldFunc
	log      logger.Logger
}

// NewLoader creates a loader. scaffold may be nil, in which case a missing
// remote document yields an empty migrated document.
func NewLoader(d drafts.Store, r remote.Store, scaffold ScaffoldFunc, log logger.Logger) *Loader {
	return &Loader{drafts: d, remote: r, scaffold: scaffold, log: log}
}

// Load prefers the saved draft, falls back to the remote copy and then to the
// scaffold, and always returns a migrated document. A draft that does not
// parse is deleted.
func (l *Loader) Load(ctx context.Context) (*Loaded, error) {
	if doc, ok := l.loadDraft(ctx); ok {
		return &Loaded{
			Document: doc,
			Source:   SourceDraft,
			Applied:  content.Migrate(doc),
		}, nil
	}
	return l.LoadPublished(ctx)
}

// LoadPublished ignores the draft and reads the remote copy.
func (l *Loader) LoadPublished(ctx context.Context) (*Loaded, error) {
	data, rev, err := l.remote.Fetch(ctx)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		doc, err := l.seed()
		if err != nil {
			return nil, err
		}
		l.log.Info("remote document not found, using scaffold",
			logger.String("remote", l.remote.Name()))
		return &Loaded{
			Document: doc,
			Source:   SourceScaffold,
			Applied:  content.Migrate(doc),
		}, nil
	case err != nil:
		return nil, fmt.Errorf("failed to fetch remote document: %w", err)
	}

	doc, err := content.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("remote document at revision %s: %w", rev, err)
	}
	return &Loaded{
		Document: doc,
		Source:   SourceRemote,
		Revision: rev,
		Applied:  content.Migrate(doc),
	}, nil
}

func (l *Loader) loadDraft(ctx context.Context) (*content.Document, bool) {
	data, err := l.drafts.Get(ctx)
	if err != nil {
		if !errors.Is(err, drafts.ErrNoDraft) {
			l.log.Warn("failed to read draft, falling back to remote", logger.Error(err))
		}
		return nil, false
	}

	doc, err := content.Decode(data)
	if err != nil {
		metrics.DraftDiscardedTotal.Inc()
		l.log.Warn("discarding unparsable draft", logger.Error(err))
		if err := l.drafts.Delete(ctx); err != nil {
			l.log.Warn("failed to delete unparsable draft", logger.Error(err))
		}
		return nil, false
	}
	return doc, true
}

func (l *Loader) seed() (*content.Document, error) {
	if l.scaffold == nil {
		return &content.Document{}, nil
	}
	doc, err := l.scaffold()
	if err != nil {
		return nil, fmt.Errorf("failed to build scaffold document: %w", err)
	}
	return doc, nil
}
