package render

import (
	"sync"

	"github.com/Shadojus/amorph/internal/morph"
)

// Renderer renders one value.
type Renderer interface {
	Render(v any, ctx Context) string
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(v any, ctx Context) string

// Render calls f.
func (f RendererFunc) Render(v any, ctx Context) string {
	return f(v, ctx)
}

// Item is one entity's value in a comparison, with its stable color.
type Item struct {
	Entity Entity
	Value  any
	Color  string
}

// CompareRenderer draws several entities' values as one combined visual.
type CompareRenderer interface {
	RenderCompare(items []Item, ctx Context) string
}

// Registry maps tags to renderers. It is built at startup and read
// concurrently afterwards; Register may still be called at runtime.
type Registry struct {
	mu        sync.RWMutex
	renderers map[morph.Tag]Renderer
	fallback  Renderer
}

// NewRegistry returns an empty registry whose lookups fall back to text.
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[morph.Tag]Renderer)}
	r.fallback = textRenderer{}
	return r
}

// DefaultRegistry returns a registry with a built-in renderer for every tag.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, tag := range morph.All() {
		r.renderers[tag] = builtin(tag, r)
	}
	return r
}

// Register installs or replaces the renderer for tag.
func (r *Registry) Register(tag morph.Tag, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[tag] = renderer
}

// Lookup returns the renderer for tag, or the text fallback. It never
// returns nil.
func (r *Registry) Lookup(tag morph.Tag) Renderer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[tag]; ok && renderer != nil {
		return renderer
	}
	return r.fallback
}

// CompareFor returns the overlay renderer for tag when the registered
// renderer provides one.
func (r *Registry) CompareFor(tag morph.Tag) (CompareRenderer, bool) {
	cr, ok := r.Lookup(tag).(CompareRenderer)
	return cr, ok
}

// Has reports whether tag has an explicitly registered renderer.
func (r *Registry) Has(tag morph.Tag) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[tag]
	return ok
}

// Clone returns an independent copy, so tests can override renderers
// without touching a shared registry. Container renderers in the copy
// recurse through the copy.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for tag, renderer := range r.renderers {
		if rebinder, ok := renderer.(interface{ rebind(*Registry) Renderer }); ok {
			renderer = rebinder.rebind(c)
		}
		c.renderers[tag] = renderer
	}
	return c
}

// DegradedAttr marks markup produced by the generic fallback. Its value is
// the tag whose renderer could not read the value.
const DegradedAttr = "data-degraded"

// Render renders v with the renderer registered for tag. When that renderer
// cannot read a non-empty value, v is drawn by the generic renderer for its
// kind instead, wrapped in a DegradedAttr marker, so the field never
// disappears. TagNull always renders nothing.
func (r *Registry) Render(tag morph.Tag, v any, ctx Context) string {
	if tag == morph.TagNull {
		return r.Lookup(tag).Render(v, ctx)
	}
	if out := r.Lookup(tag).Render(v, ctx); out != "" {
		return out
	}
	return r.degrade(tag, v, ctx)
}

func (r *Registry) degrade(tag morph.Tag, v any, ctx Context) string {
	generic := GenericTag(v)
	if generic == tag || generic == morph.TagNull {
		return ""
	}
	out := r.Lookup(generic).Render(v, ctx)
	if out == "" {
		return ""
	}
	return `<div class="amorph-degraded" ` + DegradedAttr + `="` + tag.String() + `">` + out + `</div>`
}

// GenericTag returns the shape-only representation of v: object for
// mappings, list for arrays, text for scalars and null for empty values.
func GenericTag(v any) morph.Tag {
	if morph.IsEmpty(v) {
		return morph.TagNull
	}
	switch morph.Normalize(v).(type) {
	case map[string]any:
		return morph.TagObject
	case []any:
		return morph.TagList
	default:
		return morph.TagText
	}
}
