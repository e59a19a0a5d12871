// Package engine renders records and comparisons: it classifies every field,
// dispatches to the render registry, isolates failing renderers and wraps
// the results in field containers.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/morph"
	"github.com/Shadojus/amorph/internal/render"
)

// Engine renders fields, records and comparisons. It is safe for concurrent
// use.
type Engine struct {
	registry   *render.Registry
	labels     *Labeler
	payloadCap int
	reserved   map[string]bool
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default renderer registry.
func WithRegistry(r *render.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithUnits extends the unit suffix table used for labels.
func WithUnits(units map[string]string) Option {
	return func(e *Engine) { e.labels = NewLabeler(units) }
}

// WithPayloadCap sets the raw payload limit in bytes. Zero or less disables
// payloads.
func WithPayloadCap(n int) Option {
	return func(e *Engine) { e.payloadCap = n }
}

// WithReserved adds field names that are never rendered, on top of
// models.IsReserved.
func WithReserved(names ...string) Option {
	return func(e *Engine) {
		for _, n := range names {
			e.reserved[strings.ToLower(n)] = true
		}
	}
}

// WithMetrics records timings and per-tag counters into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithLogger sets the logger; nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine with the default registry and unit table.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:   render.DefaultRegistry(),
		labels:     NewLabeler(nil),
		payloadCap: DefaultPayloadCap,
		reserved:   make(map[string]bool),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's renderer registry.
func (e *Engine) Registry() *render.Registry {
	return e.registry
}

// Label returns the display label of a field name.
func (e *Engine) Label(field string) Label {
	return e.labels.Label(field)
}

// Classify exposes the classifier used by the engine.
func (e *Engine) Classify(value any, field string) morph.Tag {
	return morph.Classify(value, field)
}

func (e *Engine) isReserved(field string) bool {
	return models.IsReserved(field) || e.reserved[strings.ToLower(field)]
}

// RenderField renders one value in a field container. Empty values, and
// values whose renderer fails, produce "" in every mode; callers skip them.
func (e *Engine) RenderField(value any, field string, ctx render.Context) string {
	start := time.Now()
	defer func() { e.metrics.RecordTiming(metrics.OpRenderField, time.Since(start)) }()

	if morph.IsEmpty(value) {
		return ""
	}
	tag := morph.Classify(value, field)
	if tag == morph.TagNull {
		return ""
	}
	ctx = ctx.WithField(field)
	if ctx.Mode == render.ModeGrid {
		ctx.Compact = true
	}
	inner := e.guard(tag, field, func() string {
		return e.registry.Render(tag, value, ctx)
	})
	if inner == "" {
		return ""
	}
	return e.container(tag, field, value, inner, ctx)
}

// RenderRecord renders every non-reserved, non-empty field of rec in order.
func (e *Engine) RenderRecord(rec models.Record, ctx render.Context) string {
	var b strings.Builder
	for _, f := range rec.Fields {
		if e.isReserved(f.Name) {
			continue
		}
		b.WriteString(e.RenderField(f.Value, f.Name, ctx))
	}
	return b.String()
}

// Comparison is a rendered comparison with its row identities.
type Comparison struct {
	Markup   string
	Entities int
	Fields   int
	Keys     []string
}

// RenderComparison renders records side by side. See Compare.
func (e *Engine) RenderComparison(records []models.Record, ctx render.Context) string {
	return e.Compare(records, ctx).Markup
}

// Compare renders a header with one color-tagged label per record, then one
// row per field name found in any record, in first-appearance order. Each
// row carries a data-field-key built from the entities that contributed a
// value. Entity colors come from ctx.Entities/ctx.Colors when given; other
// records take the first palette colors the caller has not used.
func (e *Engine) Compare(records []models.Record, ctx render.Context) Comparison {
	start := time.Now()
	defer func() { e.metrics.RecordTiming(metrics.OpRenderComparison, time.Since(start)) }()

	if len(records) == 0 {
		return Comparison{}
	}

	entities := make([]render.Entity, len(records))
	byID := make(map[string]models.Record, len(records))
	ids := make([]string, len(records))
	for i, rec := range records {
		entities[i] = render.Entity{ID: rec.Key(), Name: rec.DisplayName()}
		ids[i] = rec.Key()
		byID[rec.Key()] = rec
	}
	colors := comparisonColors(ids, ctx)
	ctx = ctx.ForCompare(entities, colorsOf(ids, colors))

	var rows strings.Builder
	var keys []string
	for _, field := range e.fieldUnion(records) {
		a := compare.Align(field, entities, func(id string) (any, bool) {
			return byID[id].Get(field)
		}, colors, func(tag morph.Tag) bool {
			_, ok := e.registry.CompareFor(tag)
			return ok
		})
		if a.Strategy == compare.StrategyNone {
			continue
		}
		inner := e.guard(a.Tag, field, func() string {
			return a.Render(e.registry, ctx)
		})
		if inner == "" {
			continue
		}
		key := a.Key()
		keys = append(keys, key)
		raw := make(map[string]any, len(a.Items))
		for _, it := range a.Items {
			raw[it.Entity.ID] = it.Value
		}
		fmt.Fprintf(&rows, `<div class="amorph-compare-row" data-field-key="%s" data-strategy="%s">`,
			render.Escape(key), a.Strategy)
		rows.WriteString(e.container(a.Tag, field, raw, inner, ctx))
		rows.WriteString(`</div>`)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-compare" data-compare-root data-entities="%s">`,
		render.Escape(strings.Join(ids, "|")))
	b.WriteString(header(entities, colors))
	b.WriteString(rows.String())
	b.WriteString(`</div>`)

	return Comparison{
		Markup:   b.String(),
		Entities: len(records),
		Fields:   len(keys),
		Keys:     keys,
	}
}

// fieldUnion lists every renderable field name of records in first-appearance
// order.
func (e *Engine) fieldUnion(records []models.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		for _, f := range rec.Fields {
			if seen[f.Name] || e.isReserved(f.Name) {
				continue
			}
			seen[f.Name] = true
			out = append(out, f.Name)
		}
	}
	return out
}

func comparisonColors(ids []string, ctx render.Context) compare.Colorer {
	table := make(map[string]string)
	if len(ctx.Entities) > 0 {
		for i, ent := range ctx.Entities {
			if i < len(ctx.Colors) && ctx.Colors[i] != "" {
				table[ent.ID] = ctx.Colors[i]
			}
		}
	} else {
		for i, id := range ids {
			if i < len(ctx.Colors) && ctx.Colors[i] != "" {
				table[id] = ctx.Colors[i]
			}
		}
	}
	used := make(map[string]bool, len(table))
	for _, c := range table {
		used[c] = true
	}
	next := 0
	for _, id := range ids {
		if _, ok := table[id]; ok {
			continue
		}
		table[id] = unusedColor(used, next)
		used[table[id]] = true
		next++
	}
	return compare.ColorFunc(func(id string) string {
		return table[id]
	})
}

// unusedColor returns the first palette color not in used. Once the palette
// is exhausted colors repeat in palette order, offset by n.
func unusedColor(used map[string]bool, n int) string {
	for _, c := range compare.Palette {
		if !used[c] {
			return c
		}
	}
	return compare.PaletteColor(n)
}

func colorsOf(ids []string, colors compare.Colorer) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = colors.Color(id)
	}
	return out
}

func header(entities []render.Entity, colors compare.Colorer) string {
	var b strings.Builder
	ids := make([]string, len(entities))
	for i, ent := range entities {
		ids[i] = ent.ID
	}
	fmt.Fprintf(&b, `<div class="amorph-compare-header" data-compare-header data-entities="%s">`,
		render.Escape(strings.Join(ids, "|")))
	for _, ent := range entities {
		fmt.Fprintf(&b, `<span class="amorph-entity-label" data-entity="%s" style="--entity-color:%s"><span class="amorph-dot"></span>%s</span>`,
			render.Escape(ent.ID), render.SafeColor(colors.Color(ent.ID)), render.Escape(ent.Name))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// guard runs a renderer, turning panics and malformed markup into "" so one
// field never breaks its siblings.
func (e *Engine) guard(tag morph.Tag, field string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("renderer panicked", "field", field, "tag", tag.String(), "panic", r)
			e.metrics.RecordFailure(tag.String())
			out = ""
		}
	}()
	out = fn()
	if out == "" {
		return ""
	}
	if err := checkMarkup(out); err != nil {
		e.logger.Warn("renderer produced malformed markup", "field", field, "tag", tag.String(), "error", err)
		e.metrics.RecordFailure(tag.String())
		return ""
	}
	if strings.Contains(out, render.DegradedAttr+`="`+tag.String()+`"`) {
		e.logger.Debug("renderer could not read value, used generic rendering", "field", field, "tag", tag.String())
		e.metrics.RecordDegraded(tag.String())
	}
	e.metrics.RecordRender(tag.String())
	return out
}

// container wraps rendered markup with the field's tag, name, label,
// attribution slot and raw payload.
func (e *Engine) container(tag morph.Tag, field string, raw any, inner string, ctx render.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-field" data-morph="%s" data-field="%s"`, tag, render.Escape(field))
	if e.payloadCap > 0 {
		if payload, ok := encodePayload(raw, e.payloadCap); ok {
			fmt.Fprintf(&b, ` data-raw="%s"`, payload)
		} else {
			e.metrics.RecordPayloadOmitted()
		}
	}
	b.WriteString(`>`)

	label := e.labels.Label(field)
	b.WriteString(`<div class="amorph-field-header">`)
	b.WriteString(`<span class="amorph-label">` + render.Escape(label.Text) + `</span>`)
	if label.Unit != "" {
		b.WriteString(`<span class="amorph-unit">` + render.Escape(label.Unit) + `</span>`)
	}
	if !ctx.AttributionHidden() {
		b.WriteString(attributionSlot(ctx.Attributions))
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="amorph-field-body">`)
	b.WriteString(inner)
	b.WriteString(`</div></div>`)
	return b.String()
}

func attributionSlot(attrs []render.Attribution) string {
	var b strings.Builder
	b.WriteString(`<span class="amorph-attribution">`)
	for i, a := range attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		if href, ok := safeHref(a.URL); ok {
			fmt.Fprintf(&b, `<a href="%s" rel="noopener nofollow" target="_blank">%s</a>`,
				render.Escape(href), render.Escape(a.Source))
		} else {
			b.WriteString(render.Escape(a.Source))
		}
		if a.License != "" {
			b.WriteString(` <small>` + render.Escape(a.License) + `</small>`)
		}
	}
	b.WriteString(`</span>`)
	return b.String()
}

func safeHref(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return raw, true
	}
	return "", false
}
