package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// EnterClass marks rows appended by a reconcile so they can animate in.
const EnterClass = "amorph-enter"

// Applier performs the mutations of a Plan on some concrete view.
type Applier interface {
	Remove(Row) error
	Append(Row) error
}

// Apply runs removals first, then additions in order.
func Apply(p Plan, a Applier) error {
	for _, r := range p.Removed {
		if err := a.Remove(r); err != nil {
			return fmt.Errorf("remove %q: %w", r.Key, err)
		}
	}
	for _, r := range p.Added {
		if err := a.Append(r); err != nil {
			return fmt.Errorf("append %q: %w", r.Key, err)
		}
	}
	return nil
}

// TreeApplier mutates an x/net/html tree: removed rows are detached and
// added rows are moved under Container with the enter class.
type TreeApplier struct {
	Container *html.Node
}

// Remove detaches the row from its parent.
func (t TreeApplier) Remove(r Row) error {
	if r.Node == nil || r.Node.Parent == nil {
		return errors.New("row is not attached")
	}
	r.Node.Parent.RemoveChild(r.Node)
	return nil
}

// Append moves the row, taken from the incoming tree, under the container.
func (t TreeApplier) Append(r Row) error {
	if t.Container == nil {
		return errors.New("no container")
	}
	if r.Node == nil {
		return errors.New("row has no node")
	}
	if r.Node.Parent != nil {
		r.Node.Parent.RemoveChild(r.Node)
	}
	addClass(r.Node, EnterClass)
	t.Container.AppendChild(r.Node)
	return nil
}

func addClass(n *html.Node, class string) {
	current, _ := attr(n, "class")
	for _, c := range strings.Fields(current) {
		if c == class {
			return
		}
	}
	setAttr(n, "class", strings.TrimSpace(current+" "+class))
}
