package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/config"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/reconcile"
	"golang.org/x/net/html"
)

// ErrSuperseded is returned by Refresh when a newer refresh started before
// this one's response could be applied.
var ErrSuperseded = errors.New("superseded by a newer comparison")

// Comparer renders a comparison request. *Client implements it.
type Comparer interface {
	Compare(ctx context.Context, req models.CompareRequest) (*models.CompareResponse, error)
}

// LiveComparison holds a selection session and the document showing it.
// Every change refreshes the comparison and reconciles the document row by
// row, so rows that did not change keep their nodes and state. It is safe
// for concurrent use.
type LiveComparison struct {
	mu      sync.Mutex
	source  Comparer
	session *compare.Session
	doc     *html.Node
	fill    bool
	seq     reconcile.Sequencer
	updater *reconcile.Updater
	logger  *slog.Logger
}

// LiveOptions configures a LiveComparison.
type LiveOptions struct {
	Limit  int  // selection cap; 0 uses compare.DefaultCap
	Fill   bool // ask the server to fill every selected field
	Logger *slog.Logger
}

// NewLiveComparison binds a new session to doc.
func NewLiveComparison(source Comparer, doc *html.Node, opts LiveOptions) *LiveComparison {
	logger := config.Component(opts.Logger, "live")
	return &LiveComparison{
		source:  source,
		session: compare.NewSession(opts.Limit),
		doc:     doc,
		fill:    opts.Fill,
		updater: reconcile.NewUpdater(logger),
		logger:  logger,
	}
}

// Toggle selects or deselects sel and refreshes. It reports whether sel is
// selected afterwards. A rejected selection leaves the document untouched.
func (l *LiveComparison) Toggle(ctx context.Context, sel models.Selection) (bool, error) {
	l.mu.Lock()
	on, err := l.session.Toggle(sel)
	l.mu.Unlock()
	if err != nil {
		return false, err
	}
	_, err = l.Refresh(ctx)
	return on, err
}

// DeselectEntity drops every selection of an entity and refreshes.
func (l *LiveComparison) DeselectEntity(ctx context.Context, entityID string) error {
	l.mu.Lock()
	n := l.session.DeselectEntity(entityID)
	l.mu.Unlock()
	if n == 0 {
		return nil
	}
	_, err := l.Refresh(ctx)
	return err
}

// Clear drops the selection and removes the comparison from the document.
func (l *LiveComparison) Clear() {
	// Claiming a sequence number makes any response in flight stale.
	_, seq := l.seq.Begin(context.Background())
	l.seq.Accept(seq)
	l.seq.Stop()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session.Clear()
	removeRoot(l.doc)
}

// Refresh requests the current selection and reconciles the document.
// Starting a refresh cancels the one in flight; a response that arrives
// after a newer one was applied is dropped with ErrSuperseded.
func (l *LiveComparison) Refresh(ctx context.Context) (reconcile.Plan, error) {
	l.mu.Lock()
	empty := l.session.Len() == 0
	req := l.session.Wire(l.fill)
	id := l.session.ID()
	l.mu.Unlock()

	ctx, seq := l.seq.Begin(ctx)
	if empty {
		if !l.seq.Accept(seq) {
			return reconcile.Plan{}, ErrSuperseded
		}
		l.mu.Lock()
		removeRoot(l.doc)
		l.mu.Unlock()
		return reconcile.Plan{Replaced: true}, nil
	}

	resp, err := l.source.Compare(ctx, req)
	if err != nil {
		if ctx.Err() != nil && seq != l.seq.Latest() {
			return reconcile.Plan{}, ErrSuperseded
		}
		return reconcile.Plan{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.seq.Accept(seq) {
		l.logger.Debug("dropping stale comparison", "session", id, "seq", seq)
		return reconcile.Plan{}, ErrSuperseded
	}
	return l.updater.Reconcile(l.doc, resp.Markup)
}

// Selections returns the current selections.
func (l *LiveComparison) Selections() []models.Selection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.Selections()
}

// Color returns the entity's color in the session, or "" for entities that
// were never selected since the last Clear.
func (l *LiveComparison) Color(entityID string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.Color(entityID)
}

// Markup serializes the document.
func (l *LiveComparison) Markup() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return reconcile.Render(l.doc)
}

// Close cancels any refresh in flight.
func (l *LiveComparison) Close() {
	l.seq.Stop()
}

func removeRoot(doc *html.Node) {
	if root := reconcile.Root(doc); root != nil && root.Parent != nil {
		root.Parent.RemoveChild(root)
	}
}
