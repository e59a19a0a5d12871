package render

import (
	"fmt"
	"hash/fnv"
	"html"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Shadojus/amorph/internal/morph"
)

// compactListLimit is the number of list entries shown in compact contexts.
const compactListLimit = 5

// compactTextLimit is the number of runes of free text shown in compact contexts.
const compactTextLimit = 160

var (
	reSafeColor = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|var\(--[a-z0-9-]+\))$`)
	reSafeToken = regexp.MustCompile(`^[a-z][a-z0-9-]{0,23}$`)
)

func esc(s string) string {
	return html.EscapeString(s)
}

// Escape escapes s for markup text and quoted attribute values.
func Escape(s string) string {
	return esc(s)
}

// SafeColor returns c if it is a hex color or CSS variable, otherwise the
// accent variable.
func SafeColor(c string) string {
	return safeColor(c)
}

// chartID derives an element id from the field name and the participating
// entity ids, so identical inputs always produce identical markup.
func chartID(kind string, ctx Context, ids ...string) string {
	h := fnv.New64a()
	h.Write([]byte(ctx.FieldName))
	for _, e := range ctx.Entities {
		h.Write([]byte{0})
		h.Write([]byte(e.ID))
	}
	for _, id := range ids {
		h.Write([]byte{1})
		h.Write([]byte(id))
	}
	return fmt.Sprintf("amorph-%s-%x", kind, h.Sum64())
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Entity.ID
	}
	return ids
}

// safeColor passes through palette hex colors and CSS variables only.
func safeColor(c string) string {
	if reSafeColor.MatchString(c) {
		return c
	}
	return "var(--amorph-accent)"
}

// safeToken restricts free-form values used as CSS classes or data tokens.
func safeToken(s, fallback string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	if reSafeToken.MatchString(s) {
		return s
	}
	return fallback
}

// seriesColor names the CSS variable for the i-th data series of a single
// entity chart.
func seriesColor(i int) string {
	return fmt.Sprintf("var(--amorph-series-%d)", i%8)
}

func entityCaption(it Item) string {
	return fmt.Sprintf(`<span class="amorph-entity-name"><span class="amorph-dot" style="--entity-color:%s"></span>%s</span>`,
		safeColor(it.Color), esc(it.Entity.Name))
}

func entityRowOpen(class string, it Item) string {
	return fmt.Sprintf(`<div class="%s" data-entity="%s" style="--entity-color:%s">`,
		class, esc(it.Entity.ID), safeColor(it.Color))
}

// truncateRunes shortens s to limit runes, appending an ellipsis.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimRightFunc(string(r[:limit]), unicode.IsSpace) + "…"
}

// pct formats a 0..100 percentage for inline styles.
func pct(f float64) string {
	if math.IsNaN(f) || f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return morph.FormatNumber(f) + "%"
}

// coord formats an SVG coordinate with one decimal.
func coord(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// scale maps v from [lo,hi] to [0,100].
func scale(v, lo, hi float64) float64 {
	if hi <= lo {
		return 100
	}
	return (v - lo) / (hi - lo) * 100
}

// Humanize turns a field or key name into a display label: separators and
// camelCase boundaries become spaces and every word is capitalized.
func Humanize(name string) string {
	words := SplitWords(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SplitWords splits a field name on "_", "-", ".", spaces and camelCase.
func SplitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// objectOf normalizes v and returns it as an object.
func objectOf(v any) (map[string]any, bool) {
	obj, ok := morph.Normalize(v).(map[string]any)
	return obj, ok
}

// arrayOf normalizes v and returns it as an array; scalars become a
// one-element array.
func arrayOf(v any) []any {
	switch x := morph.Normalize(v).(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}

// stringField returns the first present key of obj as display text.
func stringField(obj map[string]any, names ...string) string {
	if v, ok := morph.Field(obj, names...); ok {
		return morph.String(v)
	}
	return ""
}

// numberField returns the first present numeric key of obj.
func numberField(obj map[string]any, names ...string) (float64, bool) {
	for _, n := range names {
		if v, ok := morph.Field(obj, n); ok {
			if f, ok := morph.Float(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// sortedKeys returns obj's keys in a stable order.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// labeledValue is one (label, number) pair extracted from chart data.
type labeledValue struct {
	Label string
	Value float64
}

// pairs extracts label/value pairs from [{label,value}] arrays or from
// objects whose values are numeric (keys in sorted order).
func pairs(v any, labelKeys ...string) []labeledValue {
	if obj, ok := objectOf(v); ok {
		var out []labeledValue
		for _, k := range sortedKeys(obj) {
			if f, ok := obj[k].(float64); ok {
				out = append(out, labeledValue{Label: k, Value: f})
			}
		}
		return out
	}
	var out []labeledValue
	for i, e := range arrayOf(v) {
		obj, ok := e.(map[string]any)
		if !ok {
			if f, ok := morph.Float(e); ok {
				out = append(out, labeledValue{Label: fmt.Sprint(i + 1), Value: f})
			}
			continue
		}
		f, ok := numberField(obj, "value", "size", "count", "amount")
		if !ok {
			continue
		}
		label := stringField(obj, labelKeys...)
		if label == "" {
			label = fmt.Sprint(i + 1)
		}
		out = append(out, labeledValue{Label: label, Value: f})
	}
	return out
}

// numbers extracts a numeric series.
func numbers(v any) []float64 {
	var out []float64
	for _, e := range arrayOf(v) {
		if f, ok := morph.Float(e); ok {
			out = append(out, f)
		}
	}
	return out
}

func bounds(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// unionLabels merges labels of several series in first-appearance order.
func unionLabels(series [][]labeledValue) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, s := range series {
		for _, p := range s {
			if !seen[p.Label] {
				seen[p.Label] = true
				labels = append(labels, p.Label)
			}
		}
	}
	return labels
}

func lookupValue(s []labeledValue, label string) (float64, bool) {
	for _, p := range s {
		if p.Label == label {
			return p.Value, true
		}
	}
	return 0, false
}
