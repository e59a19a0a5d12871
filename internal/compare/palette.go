// Package compare aligns several entities' values for one field, keeps the
// per-entity color assignment stable across a comparison, and holds the
// user's field selection.
package compare

// Palette is the fixed entity color order. Server markup and client chrome
// both read colors from here so index i means the same color everywhere.
var Palette = [8]string{
	"#6366f1",
	"#ec4899",
	"#14b8a6",
	"#f59e0b",
	"#8b5cf6",
	"#10b981",
	"#ef4444",
	"#3b82f6",
}

// PaletteColor returns the color for a palette index, wrapping around in
// both directions.
func PaletteColor(i int) string {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}

// ColorMap is an append-only ordered mapping from entity id to palette
// index. An entity keeps its color for as long as the map lives, even when
// it is absent from some fields.
type ColorMap struct {
	ids   []string
	index map[string]int
}

// NewColorMap returns an empty map.
func NewColorMap() *ColorMap {
	return &ColorMap{index: make(map[string]int)}
}

// FromOrder builds a map from a global entity ordering. Duplicate ids keep
// their first position.
func FromOrder(ids []string) *ColorMap {
	m := NewColorMap()
	for _, id := range ids {
		m.Add(id)
	}
	return m
}

// Add assigns the next palette index to id if it has none and returns its
// index.
func (m *ColorMap) Add(id string) int {
	if i, ok := m.index[id]; ok {
		return i
	}
	i := len(m.ids)
	m.ids = append(m.ids, id)
	m.index[id] = i
	return i
}

// Index returns id's position in the order.
func (m *ColorMap) Index(id string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[id]
	return i, ok
}

// Color returns id's color, or "" if id was never added.
func (m *ColorMap) Color(id string) string {
	i, ok := m.Index(id)
	if !ok {
		return ""
	}
	return PaletteColor(i)
}

// Colors returns the colors of ids in the given order.
func (m *ColorMap) Colors(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.Color(id)
	}
	return out
}

// IDs returns every id in assignment order.
func (m *ColorMap) IDs() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.ids...)
}

// Len returns the number of assigned ids.
func (m *ColorMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}
