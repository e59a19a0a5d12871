// Package render turns classified values into HTML markup. Each morph.Tag
// has one Renderer; chart-like tags also implement CompareRenderer to draw
// several entities in a single overlay.
package render

// Mode selects how much room and which affordances a rendering gets.
type Mode uint8

const (
	// ModeSingle renders one entity's detail page.
	ModeSingle Mode = iota
	// ModeGrid renders compact cards in a result grid.
	ModeGrid
	// ModeCompare renders several entities side by side.
	ModeCompare
)

func (m Mode) String() string {
	switch m {
	case ModeGrid:
		return "grid"
	case ModeCompare:
		return "compare"
	default:
		return "single"
	}
}

// Entity identifies a record taking part in a rendering.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attribution credits the source of a field value.
type Attribution struct {
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
	License string `json:"license,omitempty"`
}

// maxDepth bounds nested object/list rendering.
const maxDepth = 4

// Context describes one render call. It is passed by value and never
// modified in place; the With* methods return adjusted copies. Slices are
// shared between copies and must be treated as read-only.
type Context struct {
	Mode            Mode
	ItemCount       int
	Entities        []Entity
	Colors          []string
	FieldName       string
	Compact         bool
	Attributions    []Attribution
	HideAttribution bool

	depth int
}

// Single returns a context for rendering one entity's detail view.
func Single() Context {
	return Context{Mode: ModeSingle, ItemCount: 1}
}

// WithField returns a copy of c scoped to field.
func (c Context) WithField(field string) Context {
	c.FieldName = field
	return c
}

// ForSingle returns a copy of c narrowed to exactly one entity. It is used
// when only one entity of a comparison has a value for the field, which is
// rendered the way grid mode renders it.
func (c Context) ForSingle(e Entity, color string) Context {
	c.Mode = ModeGrid
	c.ItemCount = 1
	c.Entities = []Entity{e}
	if color != "" {
		c.Colors = []string{color}
	} else {
		c.Colors = nil
	}
	c.Compact = true
	return c
}

// ForCompare returns a copy of c covering the given entities and colors.
func (c Context) ForCompare(entities []Entity, colors []string) Context {
	c.Mode = ModeCompare
	c.ItemCount = len(entities)
	c.Entities = entities
	c.Colors = colors
	c.HideAttribution = true
	return c
}

// Nested returns a compact copy one level deeper, used by container
// renderers when they render their children.
func (c Context) Nested(field string) Context {
	c.FieldName = field
	c.Compact = true
	c.depth++
	return c
}

// Depth reports the nesting level of the context.
func (c Context) Depth() int {
	return c.depth
}

// AttributionHidden reports whether the attribution affordance is suppressed.
// Compare mode always hides it.
func (c Context) AttributionHidden() bool {
	return c.HideAttribution || c.Mode == ModeCompare
}

// accent returns the single-entity drawing color.
func (c Context) accent() string {
	if len(c.Colors) > 0 && c.Colors[0] != "" {
		return safeColor(c.Colors[0])
	}
	return "var(--amorph-accent)"
}
