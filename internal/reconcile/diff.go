// Package reconcile updates an already rendered comparison in place. Rows
// are matched by their data-field-key; rows present on both sides are never
// touched, so interaction state inside them survives an update.
package reconcile

import (
	"golang.org/x/net/html"
)

// Row is one rendered comparison row and its identity key.
type Row struct {
	Key  string
	Node *html.Node
}

// Plan is the outcome of diffing two sets of rows.
type Plan struct {
	Added   []Row
	Removed []Row
	Kept    []string
	// Replaced is set when no existing container was found and the incoming
	// fragment was inserted whole.
	Replaced bool
	// HeaderReplaced is set when the entity header changed.
	HeaderReplaced bool
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0 && !p.Replaced && !p.HeaderReplaced
}

// Rows collects the elements under root that carry data-field-key, in
// document order. Rows nested inside a row are not collected.
func Rows(root *html.Node) []Row {
	var rows []Row
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if key, ok := attr(n, "data-field-key"); ok {
				rows = append(rows, Row{Key: key, Node: n})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return rows
}

// Diff computes which rows to remove and which to add, in O(len(existing) +
// len(incoming)). Added keeps incoming order, Removed keeps existing order.
// A key repeated in incoming counts once.
func Diff(existing, incoming []Row) Plan {
	have := make(map[string]bool, len(existing))
	for _, r := range existing {
		have[r.Key] = true
	}
	want := make(map[string]bool, len(incoming))
	var p Plan
	for _, r := range incoming {
		if want[r.Key] {
			continue
		}
		want[r.Key] = true
		if have[r.Key] {
			p.Kept = append(p.Kept, r.Key)
		} else {
			p.Added = append(p.Added, r)
		}
	}
	for _, r := range existing {
		if !want[r.Key] {
			p.Removed = append(p.Removed, r)
		}
	}
	return p
}

// Keys returns the keys of rows.
func Keys(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key
	}
	return out
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

// find returns the first element under n carrying attribute name.
func find(n *html.Node, name string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode {
		if _, ok := attr(n, name); ok {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, name); found != nil {
			return found
		}
	}
	return nil
}
