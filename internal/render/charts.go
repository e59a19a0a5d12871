package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/Shadojus/amorph/internal/morph"
)

type barRenderer struct{}

func (barRenderer) Render(v any, ctx Context) string {
	series := pairs(v, "label", "name", "category")
	if len(series) == 0 {
		return ""
	}
	_, peak := bounds(values(series))
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-bar-chart" id="%s">`, chartID("bar", ctx))
	for i, p := range series {
		if ctx.Compact && i == compactListLimit {
			fmt.Fprintf(&b, `<div class="amorph-more">+%d</div>`, len(series)-i)
			break
		}
		fmt.Fprintf(&b, `<div class="amorph-bar-row"><span class="amorph-bar-label">%s</span>`, esc(p.Label))
		fmt.Fprintf(&b, `<span class="amorph-bar" style="width:%s;background:%s"></span>`,
			pct(scale(p.Value, 0, math.Max(peak, 0))), ctx.accent())
		fmt.Fprintf(&b, `<span class="amorph-value">%s</span></div>`, esc(morph.FormatNumber(p.Value)))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderCompare groups bars by label with one bar per entity, all on the
// same scale.
func (barRenderer) RenderCompare(items []Item, ctx Context) string {
	all := make([][]labeledValue, len(items))
	peak := 0.0
	for i, it := range items {
		all[i] = pairs(it.Value, "label", "name", "category")
		_, hi := bounds(values(all[i]))
		peak = math.Max(peak, hi)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-bar-chart amorph-bar-compare" id="%s">`, chartID("bar", ctx, itemIDs(items)...))
	for _, label := range unionLabels(all) {
		fmt.Fprintf(&b, `<div class="amorph-bar-group"><span class="amorph-bar-label">%s</span>`, esc(label))
		for i, it := range items {
			val, ok := lookupValue(all[i], label)
			if !ok {
				continue
			}
			b.WriteString(entityRowOpen("amorph-bar-row", it))
			fmt.Fprintf(&b, `<span class="amorph-bar" style="width:%s;background:%s" title="%s"></span>`,
				pct(scale(val, 0, peak)), safeColor(it.Color), esc(it.Entity.Name))
			fmt.Fprintf(&b, `<span class="amorph-value">%s</span></div>`, esc(morph.FormatNumber(val)))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func values(series []labeledValue) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Value
	}
	return out
}

type pieRenderer struct{}

// pieRadius gives a circumference of 100 so dash lengths equal percentages.
const pieRadius = 15.915

func (pieRenderer) Render(v any, ctx Context) string {
	series := pairs(v, "label", "name", "category")
	if len(series) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-pie" id="%s"><svg viewBox="0 0 42 42" role="img">`, chartID("pie", ctx))
	writeRing(&b, series, pieRadius, "")
	b.WriteString(`</svg>`)
	writeLegend(&b, series)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderCompare draws one concentric ring per entity; the ring outline
// carries the entity color.
func (pieRenderer) RenderCompare(items []Item, ctx Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-pie amorph-pie-compare" id="%s"><svg viewBox="0 0 42 42" role="img">`,
		chartID("pie", ctx, itemIDs(items)...))
	step := (pieRadius - 4) / float64(len(items))
	var legend []labeledValue
	for i, it := range items {
		series := pairs(it.Value, "label", "name", "category")
		if i == 0 {
			legend = series
		}
		writeRing(&b, series, pieRadius-float64(i)*step, safeColor(it.Color))
	}
	b.WriteString(`</svg>`)
	writeLegend(&b, legend)
	for _, it := range items {
		b.WriteString(entityCaption(it))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeRing(b *strings.Builder, series []labeledValue, r float64, outline string) {
	total := 0.0
	for _, p := range series {
		total += math.Max(p.Value, 0)
	}
	if total == 0 {
		return
	}
	offset := 25.0
	// Dash lengths are fractions of this ring's own circumference.
	circ := 2 * math.Pi * r
	for i, p := range series {
		share := math.Max(p.Value, 0) / total * circ
		fmt.Fprintf(b, `<circle cx="21" cy="21" r="%s" fill="transparent" stroke="%s" stroke-width="3" stroke-dasharray="%s %s" stroke-dashoffset="%s"><title>%s</title></circle>`,
			coord(r), seriesColor(i), coord(share), coord(circ-share), coord(offset), esc(p.Label))
		offset -= share
	}
	if outline != "" {
		fmt.Fprintf(b, `<circle cx="21" cy="21" r="%s" fill="transparent" stroke="%s" stroke-width="0.4"></circle>`,
			coord(r+1.7), outline)
	}
}

func writeLegend(b *strings.Builder, series []labeledValue) {
	b.WriteString(`<ul class="amorph-legend">`)
	for i, p := range series {
		fmt.Fprintf(b, `<li><span class="amorph-swatch" style="background:%s"></span>%s <span class="amorph-value">%s</span></li>`,
			seriesColor(i), esc(p.Label), esc(morph.FormatNumber(p.Value)))
	}
	b.WriteString(`</ul>`)
}

type radarRenderer struct{}

const radarCenter, radarRadius = 50.0, 40.0

func (radarRenderer) Render(v any, ctx Context) string {
	series := pairs(v, "axis", "label", "name")
	if len(series) == 0 {
		return ""
	}
	axes := unionLabels([][]labeledValue{series})
	peak := radarPeak([][]labeledValue{series})
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-radar" id="%s"><svg viewBox="0 0 100 100" role="img">`, chartID("radar", ctx))
	writeRadarGrid(&b, axes)
	writePolygon(&b, series, axes, peak, ctx.accent(), "")
	b.WriteString(`</svg></div>`)
	return b.String()
}

// RenderCompare overlays one polygon per entity on shared axes.
func (radarRenderer) RenderCompare(items []Item, ctx Context) string {
	all := make([][]labeledValue, len(items))
	for i, it := range items {
		all[i] = pairs(it.Value, "axis", "label", "name")
	}
	axes := unionLabels(all)
	peak := radarPeak(all)
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-radar amorph-radar-compare" id="%s"><svg viewBox="0 0 100 100" role="img">`,
		chartID("radar", ctx, itemIDs(items)...))
	writeRadarGrid(&b, axes)
	for i, it := range items {
		writePolygon(&b, all[i], axes, peak, safeColor(it.Color), it.Entity.ID)
	}
	b.WriteString(`</svg>`)
	for _, it := range items {
		b.WriteString(entityCaption(it))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// radarPeak uses 100 as the outer ring for percentage-like data.
func radarPeak(all [][]labeledValue) float64 {
	peak := 0.0
	for _, s := range all {
		for _, p := range s {
			peak = math.Max(peak, p.Value)
		}
	}
	if peak <= 100 && peak > 10 {
		return 100
	}
	if peak <= 0 {
		return 1
	}
	return peak
}

func radarPoint(i, n int, frac float64) (float64, float64) {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return radarCenter + radarRadius*frac*math.Cos(angle), radarCenter + radarRadius*frac*math.Sin(angle)
}

func writeRadarGrid(b *strings.Builder, axes []string) {
	n := len(axes)
	for i, axis := range axes {
		x, y := radarPoint(i, n, 1)
		fmt.Fprintf(b, `<line x1="50" y1="50" x2="%s" y2="%s" class="amorph-axis"></line>`, coord(x), coord(y))
		lx, ly := radarPoint(i, n, 1.12)
		fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="middle" class="amorph-axis-label">%s</text>`,
			coord(lx), coord(ly), esc(axis))
	}
}

func writePolygon(b *strings.Builder, series []labeledValue, axes []string, peak float64, color, entity string) {
	pts := make([]string, len(axes))
	for i, axis := range axes {
		val, _ := lookupValue(series, axis)
		x, y := radarPoint(i, len(axes), math.Min(math.Max(val/peak, 0), 1))
		pts[i] = coord(x) + "," + coord(y)
	}
	attr := ""
	if entity != "" {
		attr = fmt.Sprintf(` data-entity="%s"`, esc(entity))
	}
	fmt.Fprintf(b, `<polygon points="%s" fill="%s" fill-opacity="0.2" stroke="%s" stroke-width="1"%s></polygon>`,
		strings.Join(pts, " "), color, color, attr)
}

type sparklineRenderer struct{}

func (sparklineRenderer) Render(v any, ctx Context) string {
	series := numbers(v)
	if len(series) == 0 {
		return ""
	}
	lo, hi := bounds(series)
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-sparkline" id="%s"><svg viewBox="0 0 100 30" preserveAspectRatio="none" role="img">`,
		chartID("sparkline", ctx))
	writePolyline(&b, series, lo, hi, ctx.accent(), "")
	b.WriteString(`</svg>`)
	if !ctx.Compact {
		fmt.Fprintf(&b, `<span class="amorph-range-min">%s</span><span class="amorph-range-max">%s</span>`,
			esc(morph.FormatNumber(lo)), esc(morph.FormatNumber(hi)))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderCompare draws one line per entity on a shared vertical scale.
func (sparklineRenderer) RenderCompare(items []Item, ctx Context) string {
	all := make([][]float64, len(items))
	var flat []float64
	for i, it := range items {
		all[i] = numbers(it.Value)
		flat = append(flat, all[i]...)
	}
	lo, hi := bounds(flat)
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-sparkline amorph-sparkline-compare" id="%s"><svg viewBox="0 0 100 30" preserveAspectRatio="none" role="img">`,
		chartID("sparkline", ctx, itemIDs(items)...))
	for i, it := range items {
		writePolyline(&b, all[i], lo, hi, safeColor(it.Color), it.Entity.ID)
	}
	b.WriteString(`</svg>`)
	for _, it := range items {
		b.WriteString(entityCaption(it))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writePolyline(b *strings.Builder, series []float64, lo, hi float64, color, entity string) {
	if len(series) == 0 {
		return
	}
	pts := make([]string, len(series))
	for i, v := range series {
		x := 50.0
		if len(series) > 1 {
			x = float64(i) / float64(len(series)-1) * 100
		}
		y := 28 - scale(v, lo, hi)/100*26
		if hi == lo {
			y = 15
		}
		pts[i] = coord(x) + "," + coord(y)
	}
	attr := ""
	if entity != "" {
		attr = fmt.Sprintf(` data-entity="%s"`, esc(entity))
	}
	fmt.Fprintf(b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="1.5"%s></polyline>`,
		strings.Join(pts, " "), color, attr)
}

type gaugeRenderer struct{}

type gaugeZone struct {
	To    float64
	Color string
	Label string
}

type gaugeData struct {
	Value, Min, Max float64
	Zones           []gaugeZone
}

func parseGauge(v any) (gaugeData, bool) {
	obj, ok := objectOf(v)
	if !ok {
		f, ok := morph.Float(v)
		return gaugeData{Value: f, Max: 100}, ok
	}
	val, ok := numberField(obj, "value")
	if !ok {
		return gaugeData{}, false
	}
	g := gaugeData{Value: val, Max: 100}
	if f, ok := numberField(obj, "min"); ok {
		g.Min = f
	}
	if f, ok := numberField(obj, "max"); ok {
		g.Max = f
	}
	zones, _ := morph.Field(obj, "zones", "thresholds")
	for _, z := range arrayOf(zones) {
		zo, ok := z.(map[string]any)
		if !ok {
			continue
		}
		to, ok := numberField(zo, "to", "max", "value", "upto")
		if !ok {
			continue
		}
		g.Zones = append(g.Zones, gaugeZone{
			To:    to,
			Color: safeToken(stringField(zo, "color", "variant"), "neutral"),
			Label: stringField(zo, "label", "name"),
		})
	}
	if g.Max <= g.Min {
		g.Max = g.Min + 1
	}
	return g, true
}

func (gaugeRenderer) Render(v any, ctx Context) string {
	g, ok := parseGauge(v)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-gauge" id="%s"><svg viewBox="0 0 100 60" role="img">`, chartID("gauge", ctx))
	writeDial(&b, g)
	writeNeedle(&b, g, g.Value, ctx.accent(), "")
	b.WriteString(`</svg>`)
	fmt.Fprintf(&b, `<span class="amorph-value">%s</span></div>`, esc(morph.FormatNumber(g.Value)))
	return b.String()
}

// RenderCompare draws one needle per entity on the first entity's dial.
func (gaugeRenderer) RenderCompare(items []Item, ctx Context) string {
	var dial gaugeData
	found := false
	for _, it := range items {
		if g, ok := parseGauge(it.Value); ok {
			if !found {
				dial = g
				found = true
			}
			dial.Min = math.Min(dial.Min, g.Min)
			dial.Max = math.Max(dial.Max, g.Max)
		}
	}
	if !found {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-gauge amorph-gauge-compare" id="%s"><svg viewBox="0 0 100 60" role="img">`,
		chartID("gauge", ctx, itemIDs(items)...))
	writeDial(&b, dial)
	for _, it := range items {
		if g, ok := parseGauge(it.Value); ok {
			writeNeedle(&b, dial, g.Value, safeColor(it.Color), it.Entity.ID)
		}
	}
	b.WriteString(`</svg>`)
	for _, it := range items {
		b.WriteString(entityCaption(it))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func dialPoint(g gaugeData, v, r float64) (float64, float64) {
	frac := math.Min(math.Max((v-g.Min)/(g.Max-g.Min), 0), 1)
	angle := math.Pi * (1 - frac)
	return 50 + r*math.Cos(angle), 55 - r*math.Sin(angle)
}

func writeDial(b *strings.Builder, g gaugeData) {
	b.WriteString(`<path d="M 10 55 A 40 40 0 0 1 90 55" class="amorph-dial" fill="none" stroke-width="6"></path>`)
	from := g.Min
	for _, z := range g.Zones {
		x1, y1 := dialPoint(g, from, 40)
		x2, y2 := dialPoint(g, z.To, 40)
		fmt.Fprintf(b, `<path d="M %s %s A 40 40 0 0 1 %s %s" class="amorph-zone amorph-zone-%s" fill="none" stroke-width="6"><title>%s</title></path>`,
			coord(x1), coord(y1), coord(x2), coord(y2), z.Color, esc(z.Label))
		from = z.To
	}
}

func writeNeedle(b *strings.Builder, g gaugeData, v float64, color, entity string) {
	x, y := dialPoint(g, v, 34)
	attr := ""
	if entity != "" {
		attr = fmt.Sprintf(` data-entity="%s"`, esc(entity))
	}
	fmt.Fprintf(b, `<line x1="50" y1="55" x2="%s" y2="%s" stroke="%s" stroke-width="2"%s></line>`,
		coord(x), coord(y), color, attr)
}

type heatmapRenderer struct{}

func (heatmapRenderer) Render(v any, ctx Context) string {
	cells := make(map[[2]string]float64)
	var xs, ys []string
	seenX, seenY := make(map[string]bool), make(map[string]bool)
	peak := 0.0
	for _, e := range arrayOf(v) {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		x := stringField(obj, "x", "col", "column")
		y := stringField(obj, "y", "row")
		val, ok := numberField(obj, "value")
		if !ok {
			continue
		}
		if !seenX[x] {
			seenX[x] = true
			xs = append(xs, x)
		}
		if !seenY[y] {
			seenY[y] = true
			ys = append(ys, y)
		}
		cells[[2]string{x, y}] = val
		peak = math.Max(peak, math.Abs(val))
	}
	if len(cells) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<table class="amorph-heatmap" id="%s"><thead><tr><th></th>`, chartID("heatmap", ctx))
	for _, x := range xs {
		b.WriteString("<th>" + esc(x) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, y := range ys {
		b.WriteString("<tr><th>" + esc(y) + "</th>")
		for _, x := range xs {
			val, ok := cells[[2]string{x, y}]
			if !ok {
				b.WriteString("<td></td>")
				continue
			}
			fmt.Fprintf(&b, `<td style="--intensity:%s" title="%s">%s</td>`,
				coord(scale(math.Abs(val), 0, peak)/100), esc(morph.FormatNumber(val)), esc(morph.FormatNumber(val)))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

type boxplotRenderer struct{}

type fiveNumbers struct {
	Min, Q1, Median, Q3, Max float64
}

func parseBox(v any) (fiveNumbers, bool) {
	obj, ok := objectOf(v)
	if !ok {
		return fiveNumbers{}, false
	}
	var f fiveNumbers
	var okQ1, okMed, okQ3 bool
	f.Q1, okQ1 = numberField(obj, "q1")
	f.Median, okMed = numberField(obj, "median")
	f.Q3, okQ3 = numberField(obj, "q3")
	if !okQ1 || !okMed || !okQ3 {
		return fiveNumbers{}, false
	}
	var ok1, ok2 bool
	if f.Min, ok1 = numberField(obj, "min"); !ok1 {
		f.Min = f.Q1
	}
	if f.Max, ok2 = numberField(obj, "max"); !ok2 {
		f.Max = f.Q3
	}
	return f, true
}

func (boxplotRenderer) Render(v any, ctx Context) string {
	f, ok := parseBox(v)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-boxplot" id="%s"><svg viewBox="0 0 100 20" preserveAspectRatio="none" role="img">`,
		chartID("boxplot", ctx))
	writeBox(&b, f, f.Min, f.Max, 10, ctx.accent(), "")
	b.WriteString(`</svg>`)
	fmt.Fprintf(&b, `<span class="amorph-range-min">%s</span><span class="amorph-value">%s</span><span class="amorph-range-max">%s</span></div>`,
		esc(morph.FormatNumber(f.Min)), esc(morph.FormatNumber(f.Median)), esc(morph.FormatNumber(f.Max)))
	return b.String()
}

// RenderCompare stacks one box per entity on a shared axis.
func (boxplotRenderer) RenderCompare(items []Item, ctx Context) string {
	var boxes []fiveNumbers
	var owners []Item
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, it := range items {
		if f, ok := parseBox(it.Value); ok {
			boxes = append(boxes, f)
			owners = append(owners, it)
			lo, hi = math.Min(lo, f.Min), math.Max(hi, f.Max)
		}
	}
	if len(boxes) == 0 {
		return ""
	}
	height := 14 * len(boxes)
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-boxplot amorph-boxplot-compare" id="%s"><svg viewBox="0 0 100 %d" preserveAspectRatio="none" role="img">`,
		chartID("boxplot", ctx, itemIDs(items)...), height)
	for i, f := range boxes {
		writeBox(&b, f, lo, hi, float64(i*14+7), safeColor(owners[i].Color), owners[i].Entity.ID)
	}
	b.WriteString(`</svg>`)
	for _, it := range owners {
		b.WriteString(entityCaption(it))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeBox(b *strings.Builder, f fiveNumbers, lo, hi, cy float64, color, entity string) {
	x := func(v float64) string { return coord(scale(v, lo, hi)) }
	attr := ""
	if entity != "" {
		attr = fmt.Sprintf(` data-entity="%s"`, esc(entity))
	}
	fmt.Fprintf(b, `<g%s stroke="%s">`, attr, color)
	fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s"></line>`, x(f.Min), coord(cy), x(f.Max), coord(cy))
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="8" fill="%s" fill-opacity="0.25"></rect>`,
		x(f.Q1), coord(cy-4), coord(scale(f.Q3, lo, hi)-scale(f.Q1, lo, hi)), color)
	fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke-width="2"></line>`, x(f.Median), coord(cy-4), x(f.Median), coord(cy+4))
	b.WriteString(`</g>`)
}

type treemapRenderer struct{}

func (treemapRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	children, _ := morph.Field(obj, "children")
	series := pairs(children, "name", "label", "title")
	if len(series) == 0 {
		return ""
	}
	total := 0.0
	for _, p := range series {
		total += math.Max(p.Value, 0)
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-treemap" id="%s">`, chartID("treemap", ctx))
	if name := nodeName(obj); name != "" {
		b.WriteString(`<span class="amorph-treemap-root">` + esc(name) + `</span>`)
	}
	b.WriteString(`<div class="amorph-treemap-tiles">`)
	for i, p := range series {
		fmt.Fprintf(&b, `<div class="amorph-tile" style="flex-basis:%s;background:%s" title="%s">%s</div>`,
			pct(scale(math.Max(p.Value, 0), 0, total)), seriesColor(i), esc(morph.FormatNumber(p.Value)), esc(p.Label))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

type sunburstRenderer struct{}

// Render draws the tree as an icicle: each level is a row of segments whose
// widths are proportional to their subtree weight.
func (sunburstRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-sunburst" id="%s">`, chartID("sunburst", ctx))
	writeIcicle(&b, obj, 0)
	b.WriteString(`</div>`)
	return b.String()
}

func subtreeWeight(obj map[string]any) float64 {
	if f, ok := numberField(obj, "value", "size", "count"); ok {
		return math.Max(f, 0)
	}
	children, _ := morph.Field(obj, "children")
	total := 0.0
	for _, c := range arrayOf(children) {
		if child, ok := c.(map[string]any); ok {
			total += subtreeWeight(child)
		}
	}
	return total
}

func writeIcicle(b *strings.Builder, node map[string]any, depth int) {
	fmt.Fprintf(b, `<div class="amorph-segment" data-depth="%d"><span style="background:%s">%s</span>`,
		depth, seriesColor(depth), esc(nodeName(node)))
	children, _ := morph.Field(node, "children")
	kids := arrayOf(children)
	if len(kids) > 0 && depth < maxDepth {
		total := 0.0
		for _, k := range kids {
			if child, ok := k.(map[string]any); ok {
				total += subtreeWeight(child)
			}
		}
		b.WriteString(`<div class="amorph-segment-children">`)
		for _, k := range kids {
			child, ok := k.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(b, `<div style="flex-basis:%s">`, pct(scale(subtreeWeight(child), 0, total)))
			writeIcicle(b, child, depth+1)
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
}
