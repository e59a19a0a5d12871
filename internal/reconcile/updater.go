package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	rootAttr   = "data-compare-root"
	headerAttr = "data-compare-header"
)

// ErrNoComparison is returned when the incoming fragment has no comparison
// container.
var ErrNoComparison = errors.New("fragment has no comparison container")

// Updater applies freshly rendered comparisons to a live document.
type Updater struct {
	logger *slog.Logger
}

// NewUpdater creates an Updater; a nil logger uses slog.Default().
func NewUpdater(logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{logger: logger}
}

// Reconcile merges incoming comparison markup into doc. When doc has no
// comparison container yet, the incoming container is appended to the body
// and the plan is marked Replaced. Otherwise only rows whose key is gone are
// removed and only rows with a new key are appended; the header is swapped
// when the entity set changed.
func (u *Updater) Reconcile(doc *html.Node, incoming string) (Plan, error) {
	if doc == nil {
		return Plan{}, errors.New("nil document")
	}
	nodes, err := html.ParseFragment(strings.NewReader(incoming), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("parse fragment: %w", err)
	}
	var next *html.Node
	for _, n := range nodes {
		if next = find(n, rootAttr); next != nil {
			break
		}
	}
	if next == nil {
		return Plan{}, ErrNoComparison
	}

	current := find(doc, rootAttr)
	if current == nil {
		parent := body(doc)
		if next.Parent != nil {
			next.Parent.RemoveChild(next)
		}
		parent.AppendChild(next)
		plan := Plan{Added: Rows(next), Replaced: true}
		u.logger.Debug("comparison inserted", "rows", len(plan.Added))
		return plan, nil
	}

	plan := Diff(Rows(current), Rows(next))
	if replaceHeader(current, next) {
		plan.HeaderReplaced = true
	}
	if ents, ok := attr(next, "data-entities"); ok {
		setAttr(current, "data-entities", ents)
	}
	if err := Apply(plan, TreeApplier{Container: current}); err != nil {
		return plan, err
	}
	u.logger.Debug("comparison reconciled",
		"added", len(plan.Added), "removed", len(plan.Removed), "kept", len(plan.Kept),
		"header_replaced", plan.HeaderReplaced)
	return plan, nil
}

// replaceHeader swaps current's header for next's when their entity lists
// differ. It reports whether a swap happened.
func replaceHeader(current, next *html.Node) bool {
	newHeader := find(next, headerAttr)
	oldHeader := find(current, headerAttr)
	if newHeader == nil {
		return false
	}
	if oldHeader != nil {
		oldEnts, _ := attr(oldHeader, "data-entities")
		newEnts, _ := attr(newHeader, "data-entities")
		if oldEnts == newEnts {
			return false
		}
	}
	newHeader.Parent.RemoveChild(newHeader)
	if oldHeader == nil {
		current.InsertBefore(newHeader, current.FirstChild)
		return true
	}
	oldHeader.Parent.InsertBefore(newHeader, oldHeader)
	oldHeader.Parent.RemoveChild(oldHeader)
	return true
}

// body returns the body element of doc, or doc itself for fragments.
func body(doc *html.Node) *html.Node {
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	if b := walk(doc); b != nil {
		return b
	}
	return doc
}

// Parse parses a full document.
func Parse(markup string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// Render serializes n.
func Render(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Root returns the comparison container of doc, or nil.
func Root(doc *html.Node) *html.Node {
	return find(doc, rootAttr)
}
