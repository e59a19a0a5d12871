package render

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/Shadojus/amorph/internal/morph"
)

type textRenderer struct{}

func (textRenderer) Render(v any, ctx Context) string {
	s := strings.TrimSpace(morph.String(v))
	if s == "" {
		return ""
	}
	if ctx.Compact {
		s = truncateRunes(s, compactTextLimit)
	}
	var b strings.Builder
	b.WriteString(`<div class="amorph-text">`)
	for _, para := range strings.Split(s, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(esc(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	b.WriteString(`</div>`)
	return b.String()
}

type numberRenderer struct{}

func (numberRenderer) Render(v any, ctx Context) string {
	f, ok := morph.Float(v)
	if !ok {
		return textRenderer{}.Render(v, ctx)
	}
	return `<span class="amorph-number">` + esc(groupThousands(f)) + `</span>`
}

// RenderCompare draws one bar per entity scaled to the largest magnitude.
func (numberRenderer) RenderCompare(items []Item, ctx Context) string {
	return compareMagnitudes(morph.TagNumber, items, ctx, func(f float64) string { return groupThousands(f) })
}

// compareMagnitudes renders aligned horizontal bars, one per entity.
func compareMagnitudes(tag morph.Tag, items []Item, ctx Context, format func(float64) string) string {
	vals := make([]float64, len(items))
	peak := 0.0
	for i, it := range items {
		vals[i], _ = morph.Float(it.Value)
		peak = math.Max(peak, math.Abs(vals[i]))
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-%s-compare" id="%s">`, tag, chartID(tag.String(), ctx, itemIDs(items)...))
	for i, it := range items {
		b.WriteString(entityRowOpen("amorph-compare-bar", it))
		b.WriteString(entityCaption(it))
		fmt.Fprintf(&b, `<span class="amorph-bar" style="width:%s;background:%s"></span>`,
			pct(scale(math.Abs(vals[i]), 0, peak)), safeColor(it.Color))
		fmt.Fprintf(&b, `<span class="amorph-value">%s</span></div>`, esc(format(vals[i])))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// groupThousands formats f with thin-space thousands separators.
func groupThousands(f float64) string {
	s := morph.FormatNumber(f)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) > 4 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, " ")
	}
	if hasFrac {
		intPart += "." + frac
	}
	if neg {
		return "-" + intPart
	}
	return intPart
}

type booleanRenderer struct{}

func (booleanRenderer) Render(v any, _ Context) string {
	b, ok := morph.Normalize(v).(bool)
	if !ok {
		return ""
	}
	if b {
		return `<span class="amorph-boolean" data-value="true">✓ Yes</span>`
	}
	return `<span class="amorph-boolean" data-value="false">✗ No</span>`
}

type badgeRenderer struct{}

var badgeVariants = map[string]string{
	"least concern":         "success",
	"edible":                "success",
	"essbar":                "success",
	"safe":                  "success",
	"common":                "success",
	"near threatened":       "warning",
	"vulnerable":            "warning",
	"caution":               "warning",
	"bedingt essbar":        "warning",
	"endangered":            "danger",
	"critically endangered": "danger",
	"toxic":                 "danger",
	"poisonous":             "danger",
	"giftig":                "danger",
	"deadly":                "danger",
	"tödlich":               "danger",
	"extinct":               "danger",
}

var allowedVariants = map[string]bool{
	"success": true, "warning": true, "danger": true, "info": true, "neutral": true,
}

func (badgeRenderer) Render(v any, _ Context) string {
	text, variant := badgeParts(v)
	if text == "" {
		return ""
	}
	return fmt.Sprintf(`<span class="amorph-badge" data-variant="%s">%s</span>`, variant, esc(text))
}

func badgeParts(v any) (text, variant string) {
	if obj, ok := objectOf(v); ok {
		text = stringField(obj, "status", "label", "text")
		variant = strings.ToLower(stringField(obj, "variant"))
	} else {
		text = strings.TrimSpace(morph.String(v))
	}
	if !allowedVariants[variant] {
		variant = badgeVariants[strings.ToLower(text)]
	}
	if variant == "" {
		variant = "neutral"
	}
	return text, variant
}

type tagRenderer struct{}

func (tagRenderer) Render(v any, ctx Context) string {
	tags := tagValues(v)
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="amorph-tags">`)
	for i, t := range tags {
		if ctx.Compact && i == compactListLimit {
			fmt.Fprintf(&b, `<span class="amorph-tag amorph-more">+%d</span>`, len(tags)-i)
			break
		}
		b.WriteString(`<span class="amorph-tag">` + esc(t) + `</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderCompare merges every entity's tags into one chip list; each chip
// carries a colored dot per entity that has it.
func (tagRenderer) RenderCompare(items []Item, ctx Context) string {
	owners := make(map[string][]Item)
	var order []string
	for _, it := range items {
		for _, t := range tagValues(it.Value) {
			if _, seen := owners[t]; !seen {
				order = append(order, t)
			}
			owners[t] = append(owners[t], it)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-tags amorph-tag-compare" id="%s">`, chartID("tag", ctx, itemIDs(items)...))
	for _, t := range order {
		shared := ""
		if len(owners[t]) == len(items) {
			shared = " amorph-shared"
		}
		b.WriteString(`<span class="amorph-tag` + shared + `">` + esc(t))
		for _, it := range owners[t] {
			fmt.Fprintf(&b, `<span class="amorph-dot" style="--entity-color:%s" title="%s"></span>`,
				safeColor(it.Color), esc(it.Entity.Name))
		}
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func tagValues(v any) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range arrayOf(v) {
		s := strings.TrimSpace(morph.String(e))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

type dateRenderer struct{}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

func (dateRenderer) Render(v any, _ Context) string {
	s := strings.TrimSpace(morph.String(v))
	if s == "" {
		return ""
	}
	if t, ok := parseDate(s); ok {
		return fmt.Sprintf(`<time class="amorph-date" datetime="%s">%s</time>`,
			t.Format("2006-01-02"), esc(t.Format("2 Jan 2006")))
	}
	return `<time class="amorph-date">` + esc(s) + `</time>`
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type linkRenderer struct{}

func (linkRenderer) Render(v any, ctx Context) string {
	raw := strings.TrimSpace(morph.String(v))
	href, ok := safeURL(raw)
	if !ok {
		return textRenderer{}.Render(raw, ctx)
	}
	u, _ := url.Parse(href)
	display := u.Host + strings.TrimSuffix(u.EscapedPath(), "/")
	if ctx.Compact {
		display = u.Host
	}
	return fmt.Sprintf(`<a class="amorph-link" href="%s" rel="noopener nofollow" target="_blank">%s</a>`,
		esc(href), esc(display))
}

// safeURL accepts http(s) URLs and "www." shorthands only.
func safeURL(raw string) (string, bool) {
	if strings.HasPrefix(strings.ToLower(raw), "www.") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

type imageRenderer struct{}

func (imageRenderer) Render(v any, ctx Context) string {
	var src, alt, credit string
	if obj, ok := objectOf(v); ok {
		src = stringField(obj, "src", "url", "href")
		alt = stringField(obj, "alt", "caption", "title")
		credit = stringField(obj, "credit", "author", "license")
	} else {
		src = strings.TrimSpace(morph.String(v))
	}
	if !safeImageSrc(src) {
		return ""
	}
	if alt == "" {
		alt = Humanize(ctx.FieldName)
	}
	var b strings.Builder
	b.WriteString(`<figure class="amorph-image">`)
	fmt.Fprintf(&b, `<img src="%s" alt="%s" loading="lazy">`, esc(src), esc(alt))
	if credit != "" && !ctx.Compact {
		b.WriteString(`<figcaption>` + esc(credit) + `</figcaption>`)
	}
	b.WriteString(`</figure>`)
	return b.String()
}

func safeImageSrc(src string) bool {
	if src == "" {
		return false
	}
	if strings.HasPrefix(src, "/") && !strings.HasPrefix(src, "//") {
		return true
	}
	_, ok := safeURL(src)
	return ok
}
