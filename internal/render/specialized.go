package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/Shadojus/amorph/internal/morph"
)

type rangeData struct {
	Min, Max float64
	Avg      float64
	HasAvg   bool
	Unit     string
}

func parseRange(v any) (rangeData, bool) {
	obj, ok := objectOf(v)
	if !ok {
		return rangeData{}, false
	}
	lo, okLo := numberField(obj, "min")
	hi, okHi := numberField(obj, "max")
	if !okLo || !okHi {
		return rangeData{}, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	r := rangeData{Min: lo, Max: hi, Unit: stringField(obj, "unit", "einheit")}
	r.Avg, r.HasAvg = numberField(obj, "avg", "mean", "average", "median", "durchschnitt", "mittel")
	return r, true
}

func withUnit(f float64, unit string) string {
	if unit == "" {
		return morph.FormatNumber(f)
	}
	return morph.FormatNumber(f) + " " + unit
}

type rangeRenderer struct{}

func (rangeRenderer) Render(v any, ctx Context) string {
	r, ok := parseRange(v)
	if !ok {
		return ""
	}
	return fmt.Sprintf(`<div class="amorph-range"><span class="amorph-range-min">%s</span><span class="amorph-range-track"><span class="amorph-range-fill" style="left:0;width:100%%;background:%s"></span></span><span class="amorph-range-max">%s</span></div>`,
		esc(withUnit(r.Min, r.Unit)), ctx.accent(), esc(withUnit(r.Max, r.Unit)))
}

// RenderCompare places every entity's interval on one shared axis.
func (rangeRenderer) RenderCompare(items []Item, ctx Context) string {
	return compareIntervals("range", items, ctx)
}

func compareIntervals(kind string, items []Item, ctx Context) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	parsed := make([]rangeData, len(items))
	valid := make([]bool, len(items))
	for i, it := range items {
		if r, ok := parseRange(it.Value); ok {
			parsed[i], valid[i] = r, true
			lo, hi = math.Min(lo, r.Min), math.Max(hi, r.Max)
		}
	}
	if math.IsInf(lo, 1) {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-%s amorph-%s-compare" id="%s">`, kind, kind, chartID(kind, ctx, itemIDs(items)...))
	fmt.Fprintf(&b, `<div class="amorph-axis"><span>%s</span><span>%s</span></div>`,
		esc(morph.FormatNumber(lo)), esc(morph.FormatNumber(hi)))
	for i, it := range items {
		if !valid[i] {
			continue
		}
		r := parsed[i]
		b.WriteString(entityRowOpen("amorph-range-row", it))
		b.WriteString(entityCaption(it))
		fmt.Fprintf(&b, `<span class="amorph-range-track"><span class="amorph-range-fill" style="left:%s;width:%s;background:%s"></span>`,
			pct(scale(r.Min, lo, hi)), pct(scale(r.Max, lo, hi)-scale(r.Min, lo, hi)), safeColor(it.Color))
		if r.HasAvg {
			fmt.Fprintf(&b, `<span class="amorph-range-mark" style="left:%s"></span>`, pct(scale(r.Avg, lo, hi)))
		}
		fmt.Fprintf(&b, `</span><span class="amorph-value">%s – %s</span></div>`,
			esc(morph.FormatNumber(r.Min)), esc(withUnit(r.Max, r.Unit)))
	}
	b.WriteString(`</div>`)
	return b.String()
}

type statsRenderer struct{}

var statKeys = []struct{ Key, Label string }{
	{"min", "Min"},
	{"avg", "Avg"},
	{"mean", "Mean"},
	{"median", "Median"},
	{"std", "Std"},
	{"max", "Max"},
	{"count", "n"},
}

func (statsRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	unit := stringField(obj, "unit", "einheit")
	var b strings.Builder
	b.WriteString(`<dl class="amorph-stats">`)
	n := 0
	for _, sk := range statKeys {
		f, ok := numberField(obj, sk.Key)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<div><dt>%s</dt><dd>%s</dd></div>`, sk.Label, esc(withUnit(f, unit)))
		n++
	}
	b.WriteString(`</dl>`)
	if n == 0 {
		return ""
	}
	if r, ok := parseRange(obj); ok && r.HasAvg && !ctx.Compact {
		fmt.Fprintf(&b, `<span class="amorph-range-track"><span class="amorph-range-mark" style="left:%s;background:%s"></span></span>`,
			pct(scale(r.Avg, r.Min, r.Max)), ctx.accent())
	}
	return b.String()
}

// RenderCompare reuses the interval overlay with the central value marked.
func (statsRenderer) RenderCompare(items []Item, ctx Context) string {
	return compareIntervals("stats", items, ctx)
}

type mapRenderer struct{}

func (mapRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	lat, okLat := numberField(obj, "lat", "latitude")
	lng, okLng := numberField(obj, "lng", "lon", "longitude")
	if !okLat || !okLng || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		return ""
	}
	label := stringField(obj, "label", "name", "place", "ort")
	if label == "" {
		label = fmt.Sprintf("%.4f, %.4f", lat, lng)
	}
	// Equirectangular projection onto a 360x180 viewBox.
	x, y := lng+180, 90-lat
	return fmt.Sprintf(`<figure class="amorph-map" data-lat="%s" data-lng="%s"><svg viewBox="0 0 360 180" role="img"><rect width="360" height="180" class="amorph-map-bg"></rect><circle cx="%s" cy="%s" r="3" fill="%s"></circle></svg><figcaption>%s</figcaption></figure>`,
		morph.FormatNumber(lat), morph.FormatNumber(lng), coord(x), coord(y), ctx.accent(), esc(label))
}

type citationRenderer struct{}

func (citationRenderer) Render(v any, ctx Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	authors, _ := morph.Field(obj, "authors", "author", "autoren")
	var names []string
	for _, a := range arrayOf(authors) {
		if s := strings.TrimSpace(morph.String(a)); s != "" {
			names = append(names, s)
		}
	}
	if len(names) > 3 {
		names = append(names[:3], "et al.")
	}
	var b strings.Builder
	b.WriteString(`<cite class="amorph-citation">`)
	b.WriteString(`<span class="amorph-authors">` + esc(strings.Join(names, ", ")) + `</span>`)
	if year := stringField(obj, "year", "jahr"); year != "" {
		b.WriteString(` <span class="amorph-year">(` + esc(year) + `)</span>`)
	}
	if title := stringField(obj, "title", "titel"); title != "" {
		b.WriteString(` <span class="amorph-title">` + esc(title) + `</span>`)
	}
	if journal := stringField(obj, "journal", "source", "quelle"); journal != "" && !ctx.Compact {
		b.WriteString(` <span class="amorph-journal">` + esc(journal) + `</span>`)
	}
	if doi := stringField(obj, "doi"); doi != "" {
		href := "https://doi.org/" + strings.TrimPrefix(doi, "https://doi.org/")
		if safe, ok := safeURL(href); ok {
			fmt.Fprintf(&b, ` <a class="amorph-doi" href="%s" rel="noopener nofollow" target="_blank">%s</a>`, esc(safe), esc(doi))
		}
	} else if u := stringField(obj, "url", "link"); u != "" {
		if safe, ok := safeURL(u); ok {
			fmt.Fprintf(&b, ` <a class="amorph-doi" href="%s" rel="noopener nofollow" target="_blank">%s</a>`, esc(safe), "↗")
		}
	}
	b.WriteString(`</cite>`)
	return b.String()
}

type dosageRenderer struct{}

func (dosageRenderer) Render(v any, _ Context) string {
	obj, ok := objectOf(v)
	if !ok {
		return ""
	}
	amount := stringField(obj, "dose", "dosage", "amount")
	if f, ok := numberField(obj, "dose", "dosage", "amount"); ok {
		amount = morph.FormatNumber(f)
	}
	if amount == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<span class="amorph-dosage">`)
	b.WriteString(`<span class="amorph-value">` + esc(amount) + `</span>`)
	if unit := stringField(obj, "unit", "einheit"); unit != "" {
		b.WriteString(` <span class="amorph-unit">` + esc(unit) + `</span>`)
	}
	if freq := stringField(obj, "frequency", "per", "haeufigkeit"); freq != "" {
		b.WriteString(` <span class="amorph-frequency">` + esc(freq) + `</span>`)
	}
	b.WriteString(`</span>`)
	return b.String()
}

type currencyRenderer struct{}

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
	"CHF": "CHF",
}

func parseMoney(v any) (float64, string, bool) {
	if obj, ok := objectOf(v); ok {
		amount, ok := numberField(obj, "amount", "value", "price", "preis")
		if !ok {
			return 0, "", false
		}
		return amount, strings.ToUpper(stringField(obj, "currency", "waehrung")), true
	}
	f, ok := morph.Float(v)
	return f, "", ok
}

func formatMoney(amount float64, code string) string {
	s := fmt.Sprintf("%.2f", amount)
	sym, known := currencySymbols[code]
	switch {
	case code == "":
		return s
	case known && sym != code:
		return sym + s
	default:
		return s + " " + code
	}
}

func (currencyRenderer) Render(v any, _ Context) string {
	amount, code, ok := parseMoney(v)
	if !ok {
		return ""
	}
	return fmt.Sprintf(`<span class="amorph-currency" data-currency="%s">%s</span>`,
		safeToken(code, "none"), esc(formatMoney(amount, code)))
}

// RenderCompare draws aligned bars; mixed currencies are shown without a
// shared scale claim since no conversion is done.
func (currencyRenderer) RenderCompare(items []Item, ctx Context) string {
	codes := make([]string, len(items))
	plain := make([]Item, len(items))
	for i, it := range items {
		amount, code, _ := parseMoney(it.Value)
		codes[i] = code
		plain[i] = it
		plain[i].Value = amount
	}
	out := compareMagnitudes(morph.TagCurrency, plain, ctx, func(f float64) string { return formatMoney(f, "") })
	for i := range items {
		if codes[i] != codes[0] {
			return strings.Replace(out, `class="amorph-currency-compare"`, `class="amorph-currency-compare" data-mixed="true"`, 1)
		}
	}
	if codes[0] != "" {
		sym := codes[0]
		if s, ok := currencySymbols[sym]; ok {
			sym = s
		}
		out = strings.Replace(out, `class="amorph-currency-compare"`,
			fmt.Sprintf(`class="amorph-currency-compare" data-currency="%s"`, esc(sym)), 1)
	}
	return out
}

type ratingRenderer struct{}

func parseRating(v any) (score, outOf float64, ok bool) {
	outOf = 5
	if obj, isObj := objectOf(v); isObj {
		score, ok = numberField(obj, "rating", "score", "value")
		if m, has := numberField(obj, "max", "scale", "of", "outOf"); has && m > 0 {
			outOf = m
		}
	} else {
		score, ok = morph.Float(v)
	}
	if !ok {
		return 0, 0, false
	}
	if score > outOf {
		outOf = 10
		if score > 10 {
			outOf = 100
		}
	}
	return math.Max(score, 0), outOf, true
}

func (ratingRenderer) Render(v any, _ Context) string {
	score, outOf, ok := parseRating(v)
	if !ok {
		return ""
	}
	stars := score / outOf * 5
	var b strings.Builder
	fmt.Fprintf(&b, `<span class="amorph-rating" title="%s / %s">`, morph.FormatNumber(score), morph.FormatNumber(outOf))
	for i := 0; i < 5; i++ {
		switch {
		case stars >= float64(i)+0.75:
			b.WriteString(`<span class="amorph-star amorph-star-full">★</span>`)
		case stars >= float64(i)+0.25:
			b.WriteString(`<span class="amorph-star amorph-star-half">★</span>`)
		default:
			b.WriteString(`<span class="amorph-star">☆</span>`)
		}
	}
	b.WriteString(`<span class="amorph-value">` + esc(morph.FormatNumber(score)) + `</span></span>`)
	return b.String()
}

// RenderCompare normalizes every rating to its own scale before drawing bars.
func (ratingRenderer) RenderCompare(items []Item, ctx Context) string {
	plain := make([]Item, len(items))
	for i, it := range items {
		score, outOf, ok := parseRating(it.Value)
		plain[i] = it
		plain[i].Value = 0.0
		if ok {
			plain[i].Value = score / outOf * 5
		}
	}
	return compareMagnitudes(morph.TagRating, plain, ctx, func(f float64) string { return morph.FormatNumber(f) + " / 5" })
}

type progressRenderer struct{}

func progressValue(v any) (float64, bool) {
	if obj, ok := objectOf(v); ok {
		f, ok := numberField(obj, "value", "progress", "percent")
		return f, ok
	}
	return morph.Float(v)
}

func (progressRenderer) Render(v any, ctx Context) string {
	f, ok := progressValue(v)
	if !ok {
		return ""
	}
	return fmt.Sprintf(`<div class="amorph-progress" role="progressbar" aria-valuenow="%s" aria-valuemin="0" aria-valuemax="100"><span class="amorph-progress-fill" style="width:%s;background:%s"></span><span class="amorph-value">%s%%</span></div>`,
		morph.FormatNumber(f), pct(f), ctx.accent(), esc(morph.FormatNumber(f)))
}

// RenderCompare draws one bar per entity on the fixed 0..100 scale.
func (progressRenderer) RenderCompare(items []Item, ctx Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-progress-compare" id="%s">`, chartID("progress", ctx, itemIDs(items)...))
	for _, it := range items {
		f, ok := progressValue(it.Value)
		if !ok {
			continue
		}
		b.WriteString(entityRowOpen("amorph-compare-bar", it))
		b.WriteString(entityCaption(it))
		fmt.Fprintf(&b, `<span class="amorph-bar" style="width:%s;background:%s"></span><span class="amorph-value">%s%%</span></div>`,
			pct(f), safeColor(it.Color), esc(morph.FormatNumber(f)))
	}
	b.WriteString(`</div>`)
	return b.String()
}
