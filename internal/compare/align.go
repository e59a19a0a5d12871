package compare

import (
	"fmt"
	"strings"

	"github.com/Shadojus/amorph/internal/morph"
	"github.com/Shadojus/amorph/internal/render"
)

// Strategy is how one field of a comparison is drawn.
type Strategy uint8

const (
	// StrategyNone renders nothing: no entity has a value.
	StrategyNone Strategy = iota
	// StrategySingle renders the only value with the single renderer.
	StrategySingle
	// StrategyOverlay hands every value to the tag's compare renderer.
	StrategyOverlay
	// StrategySideBySide renders each value on its own, in entity order.
	StrategySideBySide
)

func (s Strategy) String() string {
	switch s {
	case StrategySingle:
		return "single"
	case StrategyOverlay:
		return "overlay"
	case StrategySideBySide:
		return "side-by-side"
	default:
		return "none"
	}
}

// Decide picks the strategy for n entities with a value.
func Decide(n int, hasOverlay bool) Strategy {
	switch {
	case n <= 0:
		return StrategyNone
	case n == 1:
		return StrategySingle
	case hasOverlay:
		return StrategyOverlay
	default:
		return StrategySideBySide
	}
}

// Alignment is one field across the entities that have a value for it.
type Alignment struct {
	Field    string
	Tag      morph.Tag
	Items    []render.Item
	Strategy Strategy
}

// Entities returns the participating entities in order.
func (a Alignment) Entities() []render.Entity {
	out := make([]render.Entity, len(a.Items))
	for i, it := range a.Items {
		out[i] = it.Entity
	}
	return out
}

// Colors returns the participating entities' colors in order.
func (a Alignment) Colors() []string {
	out := make([]string, len(a.Items))
	for i, it := range a.Items {
		out[i] = it.Color
	}
	return out
}

// Key returns the row identity of this alignment.
func (a Alignment) Key() string {
	ids := make([]string, len(a.Items))
	for i, it := range a.Items {
		ids[i] = it.Entity.ID
	}
	return FieldKey(a.Field, ids)
}

// Lookup returns an entity's value for the field being aligned.
type Lookup func(entityID string) (any, bool)

// Colorer resolves an entity's stable color. *ColorMap implements it.
type Colorer interface {
	Color(entityID string) string
}

// ColorFunc adapts a function to Colorer.
type ColorFunc func(entityID string) string

// Color calls f.
func (f ColorFunc) Color(entityID string) string {
	return f(entityID)
}

// Align gathers field's values across entities, dropping entities whose
// value is missing or empty. The tag is classified from the first remaining
// value. Colors come from colors, which reflects the global entity order, so
// an entity's color never depends on which other entities have this field.
// With nil colors the order of entities is used.
//
// hasOverlay reports whether a compare renderer exists for a tag; nil means
// none do.
func Align(field string, entities []render.Entity, lookup Lookup, colors Colorer, hasOverlay func(morph.Tag) bool) Alignment {
	if colors == nil {
		ids := make([]string, len(entities))
		for i, e := range entities {
			ids[i] = e.ID
		}
		colors = FromOrder(ids)
	}
	a := Alignment{Field: field, Tag: morph.TagNull}
	for _, e := range entities {
		v, ok := lookup(e.ID)
		if !ok || morph.IsEmpty(v) {
			continue
		}
		if a.Tag == morph.TagNull {
			a.Tag = morph.Classify(v, field)
		}
		a.Items = append(a.Items, render.Item{Entity: e, Value: v, Color: colors.Color(e.ID)})
	}
	overlay := hasOverlay != nil && a.Tag != morph.TagNull && hasOverlay(a.Tag)
	a.Strategy = Decide(len(a.Items), overlay)
	return a
}

// Render draws the alignment with reg according to its strategy. ctx is the
// comparison context; it is narrowed per strategy and never modified.
func (a Alignment) Render(reg *render.Registry, ctx render.Context) string {
	ctx = ctx.WithField(a.Field)
	switch a.Strategy {
	case StrategySingle:
		it := a.Items[0]
		inner := reg.Render(a.Tag, it.Value, ctx.ForSingle(it.Entity, it.Color))
		if inner == "" {
			return ""
		}
		return cell("amorph-compare-single", it, inner)
	case StrategyOverlay:
		cr, ok := reg.CompareFor(a.Tag)
		if !ok {
			return a.sideBySide(reg, ctx)
		}
		if out := cr.RenderCompare(a.Items, ctx.ForCompare(a.Entities(), a.Colors())); out != "" {
			return out
		}
		// The overlay could not read the values; draw them one by one.
		return a.sideBySide(reg, ctx)
	case StrategySideBySide:
		return a.sideBySide(reg, ctx)
	}
	return ""
}

func (a Alignment) sideBySide(reg *render.Registry, ctx render.Context) string {
	var b strings.Builder
	b.WriteString(`<div class="amorph-compare-cells">`)
	n := 0
	for _, it := range a.Items {
		inner := reg.Render(a.Tag, it.Value, ctx.ForSingle(it.Entity, it.Color))
		if inner == "" {
			continue
		}
		b.WriteString(cell("amorph-compare-cell", it, inner))
		n++
	}
	b.WriteString(`</div>`)
	if n == 0 {
		return ""
	}
	return b.String()
}

func cell(class string, it render.Item, inner string) string {
	color := it.Color
	if color == "" {
		color = "var(--amorph-accent)"
	}
	return fmt.Sprintf(`<div class="%s" style="--entity-color:%s" data-entity="%s"><span class="amorph-entity-name">%s</span>%s</div>`,
		class, render.SafeColor(color), render.Escape(it.Entity.ID), render.Escape(it.Entity.Name), inner)
}
