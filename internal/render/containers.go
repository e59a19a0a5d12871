package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Shadojus/amorph/internal/morph"
)

// nested renders a child value of a container by classifying it on its own.
// Past maxDepth the value is shown as raw JSON.
func nested(reg *Registry, v any, ctx Context) string {
	if ctx.Depth() > maxDepth {
		b, err := json.Marshal(morph.Normalize(v))
		if err != nil {
			return ""
		}
		return `<code class="amorph-raw">` + esc(string(b)) + `</code>`
	}
	tag := morph.Classify(v, ctx.FieldName)
	if tag == morph.TagNull {
		return ""
	}
	return reg.Render(tag, v, ctx)
}

type listRenderer struct {
	reg *Registry
}

func (r listRenderer) rebind(c *Registry) Renderer {
	return listRenderer{reg: c}
}

func (r listRenderer) Render(v any, ctx Context) string {
	elems := arrayOf(v)
	if len(elems) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="amorph-list">`)
	for i, e := range elems {
		if ctx.Compact && i == compactListLimit {
			fmt.Fprintf(&b, `<li class="amorph-more">+%d</li>`, len(elems)-i)
			break
		}
		var inner string
		switch x := e.(type) {
		case string:
			inner = esc(strings.TrimSpace(x))
		case float64, bool:
			inner = esc(morph.String(x))
		default:
			inner = nested(r.reg, e, ctx.Nested(""))
		}
		if inner == "" {
			continue
		}
		b.WriteString("<li>" + inner + "</li>")
	}
	b.WriteString(`</ul>`)
	return b.String()
}

type objectRenderer struct {
	reg *Registry
}

func (r objectRenderer) rebind(c *Registry) Renderer {
	return objectRenderer{reg: c}
}

func (r objectRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return textRenderer{}.Render(v, ctx)
	}
	var b strings.Builder
	b.WriteString(`<dl class="amorph-object">`)
	rows := 0
	for _, k := range sortedKeys(obj) {
		if morph.IsEmpty(obj[k]) {
			continue
		}
		inner := nested(r.reg, obj[k], ctx.Nested(k))
		if inner == "" {
			continue
		}
		fmt.Fprintf(&b, `<dt>%s</dt><dd>%s</dd>`, esc(Humanize(k)), inner)
		rows++
	}
	b.WriteString(`</dl>`)
	if rows == 0 {
		return ""
	}
	return b.String()
}

type hierarchyRenderer struct{}

func (hierarchyRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="amorph-hierarchy">`)
	if parent := stringField(obj, "parent"); parent != "" {
		b.WriteString(`<span class="amorph-parent">` + esc(parent) + `</span>`)
	}
	b.WriteString(`<ul>`)
	writeTree(&b, obj, 0, ctx.Compact)
	b.WriteString(`</ul></div>`)
	return b.String()
}

func nodeName(obj map[string]any) string {
	return stringField(obj, "name", "label", "title", "id")
}

func writeTree(b *strings.Builder, node map[string]any, depth int, compact bool) {
	b.WriteString("<li>" + esc(nodeName(node)))
	children, _ := morph.Field(node, "children")
	kids := arrayOf(children)
	if len(kids) > 0 && depth < maxDepth && !(compact && depth >= 1) {
		b.WriteString("<ul>")
		for _, k := range kids {
			switch child := k.(type) {
			case map[string]any:
				writeTree(b, child, depth+1, compact)
			default:
				b.WriteString("<li>" + esc(morph.String(child)) + "</li>")
			}
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</li>")
}

type networkRenderer struct{}

func (networkRenderer) Render(v any, ctx Context) string {
	edges := arrayOf(v)
	if len(edges) == 0 {
		return ""
	}
	nodes := make(map[string]bool)
	var b strings.Builder
	b.WriteString(`<ul class="amorph-network-edges">`)
	for i, e := range edges {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		from := stringField(obj, "from", "source")
		to := stringField(obj, "to", "target")
		nodes[from], nodes[to] = true, true
		if ctx.Compact && i >= compactListLimit {
			continue
		}
		rel := stringField(obj, "type", "relation", "label")
		fmt.Fprintf(&b, `<li><span class="amorph-node">%s</span><span class="amorph-edge">%s</span><span class="amorph-node">%s</span></li>`,
			esc(from), esc(rel), esc(to))
	}
	b.WriteString(`</ul>`)
	return fmt.Sprintf(`<div class="amorph-network" data-nodes="%d" data-edges="%d">%s</div>`,
		len(nodes), len(edges), b.String())
}
