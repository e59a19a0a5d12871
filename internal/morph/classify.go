package morph

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// shortStringLimit is the longest string (in runes) still treated as a tag.
const shortStringLimit = 20

// hintedStringLimit allows hinted tag/badge values a little more room.
const hintedStringLimit = 40

// pieMaxSlices is the largest {value} array still drawn as a pie.
const pieMaxSlices = 8

var (
	reURL       = regexp.MustCompile(`^(https?://|www\.)[^\s<>"]+$`)
	reImageExt  = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp|svg|avif|bmp|tiff?)(\?[^\s]*)?$`)
	reImagePath = regexp.MustCompile(`(?i)^(/|\./)?[\w\-./]+\.(jpe?g|png|gif|webp|svg|avif)$`)
	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)
	reDMYDate   = regexp.MustCompile(`^\d{1,2}[./-]\d{1,2}[./-]\d{2,4}$`)
	reYear      = regexp.MustCompile(`^(1[5-9]|20)\d{2}$`)
	reDangerous = regexp.MustCompile(`(?i)<\s*/?\s*[a-z!]|javascript:|data:text/html|\bon[a-z]+\s*=`)
)

// Classify returns the representation tag for value, using field as a hint.
// It is a pure function of its inputs and never panics: unrecognized shapes
// resolve to TagObject or TagText, and empty values to TagNull.
//
// Rules are ordered and the first match wins. Numbers carry a known
// ambiguity: without a field-name hint, any integer in [0,100] is treated
// as progress, so small integers that are really ratings classify as
// progress. Fractional values in [0,10] fall through to rating.
func Classify(value any, field string) Tag {
	hint := normalizeHint(field)
	switch v := Normalize(value).(type) {
	case nil:
		return TagNull
	case bool:
		return TagBoolean
	case float64:
		return classifyNumber(v, hint)
	case string:
		return classifyString(v, hint)
	case []any:
		return classifyArray(v, hint)
	case map[string]any:
		return classifyObject(v)
	}
	return TagText
}

func classifyNumber(f float64, hint string) Tag {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return TagNumber
	}
	if t, ok := numberHint(hint); ok {
		return t
	}
	switch {
	case f == math.Trunc(f) && f >= 0 && f <= 100:
		return TagProgress
	case f >= 0 && f <= 10:
		return TagRating
	}
	return TagNumber
}

func classifyString(raw, hint string) Tag {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TagNull
	}

	if t, ok := stringHint(hint); ok {
		switch t {
		case TagImage:
			if isURL(s) || reImagePath.MatchString(s) {
				return TagImage
			}
		case TagLink:
			if isURL(s) {
				return TagLink
			}
		case TagDate:
			if isDate(s) || reYear.MatchString(s) {
				return TagDate
			}
		case TagBadge, TagTag:
			if isShort(s, hintedStringLimit) {
				return t
			}
		}
	}

	switch {
	case isURL(s) && reImageExt.MatchString(s):
		return TagImage
	case isURL(s):
		return TagLink
	case isDate(s):
		return TagDate
	case isShort(s, shortStringLimit):
		return TagTag
	}
	return TagText
}

func classifyArray(arr []any, hint string) Tag {
	if len(arr) == 0 {
		return TagList
	}
	switch {
	case allOf(arr, isString):
		if allOf(arr, func(v any) bool { return isShort(strings.TrimSpace(v.(string)), shortStringLimit) }) {
			return TagTag
		}
		return TagList
	case allOf(arr, isNumber):
		if len(arr) == 12 && hintCalendar.MatchString(hint) {
			return TagCalendar
		}
		return TagSparkline
	case allOf(arr, isObject):
		return classifyObjectArray(arr)
	}
	return TagList
}

// classifyObjectArray inspects the keys shared by every element.
func classifyObjectArray(arr []any) Tag {
	keys := commonKeys(arr)
	has := func(names ...string) bool {
		for _, n := range names {
			if keys[n] {
				return true
			}
		}
		return false
	}

	switch {
	case has("month", "monat") && has("active", "value", "intensity", "intensitaet", "abundance", "haeufigkeit"):
		return TagCalendar
	case has("date", "datum", "year", "jahr", "time", "zeit", "when", "period", "periode", "era", "epoch"):
		return TagTimeline
	case has("label") && has("value"):
		return TagBar
	case has("axis") && has("value"):
		return TagRadar
	case has("step", "phase", "stage", "schritt", "stufe") && has("status"):
		return TagSteps
	case (has("x") && has("y") || has("row") && has("col", "column")) && has("value"):
		return TagHeatmap
	case len(arr) <= pieMaxSlices && has("value"):
		return TagPie
	case has("from") && has("to"), has("source") && has("target"):
		return TagNetwork
	}
	return TagList
}

func classifyObject(obj map[string]any) Tag {
	switch {
	case isBadgeObject(obj):
		return TagBadge
	case HasKeys(obj, []string{"q1"}, []string{"median"}, []string{"q3"}):
		return TagBoxplot
	case HasKeys(obj, []string{"min"}, []string{"max"}):
		if _, ok := Field(obj, "avg", "mean", "median", "std", "average", "durchschnitt", "mittel"); ok {
			return TagStats
		}
		return TagRange
	case HasKeys(obj, []string{"lat", "latitude"}, []string{"lng", "lon", "longitude"}):
		return TagMap
	case HasKeys(obj, []string{"rating", "score"}):
		return TagRating
	case HasKeys(obj, []string{"value"}, []string{"zones", "thresholds"}):
		return TagGauge
	case HasKeys(obj, []string{"authors", "author", "autoren"}):
		return TagCitation
	case HasKeys(obj, []string{"amount"}, []string{"currency"}):
		return TagCurrency
	case HasKeys(obj, []string{"dose", "dosage", "amount"}, []string{"unit"}):
		return TagDosage
	case HasKeys(obj, []string{"children", "parent"}):
		return classifyHierarchy(obj)
	case numericValues(obj) >= 3:
		return TagRadar
	}
	return TagObject
}

func isBadgeObject(obj map[string]any) bool {
	if _, ok := Field(obj, "variant"); ok {
		return HasKeys(obj, []string{"status", "label", "text"})
	}
	status, ok := Field(obj, "status")
	if !ok || len(obj) > 2 {
		return false
	}
	_, isStr := status.(string)
	return isStr
}

// classifyHierarchy separates weighted trees (treemap, or sunburst when
// deeper than two levels) from plain parent/child structures.
func classifyHierarchy(obj map[string]any) Tag {
	children, _ := Field(obj, "children")
	kids, ok := Normalize(children).([]any)
	if !ok || len(kids) == 0 || !anyWeighted(kids) {
		return TagHierarchy
	}
	if treeDepth(obj) > 2 {
		return TagSunburst
	}
	return TagTreemap
}

func anyWeighted(nodes []any) bool {
	for _, n := range nodes {
		obj, ok := n.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := Field(obj, "value", "size", "count"); ok {
			if _, ok := Float(v); ok {
				return true
			}
		}
	}
	return false
}

func treeDepth(obj map[string]any) int {
	children, _ := Field(obj, "children")
	kids, ok := Normalize(children).([]any)
	if !ok || len(kids) == 0 {
		return 1
	}
	deepest := 0
	for _, k := range kids {
		if child, ok := k.(map[string]any); ok {
			deepest = max(deepest, treeDepth(child))
		}
	}
	return deepest + 1
}

func numericValues(obj map[string]any) int {
	n := 0
	for _, v := range obj {
		if _, ok := v.(float64); ok {
			n++
		}
	}
	return n
}

func commonKeys(arr []any) map[string]bool {
	counts := make(map[string]int)
	for _, e := range arr {
		for k := range e.(map[string]any) {
			counts[strings.ToLower(k)]++
		}
	}
	keys := make(map[string]bool, len(counts))
	for k, c := range counts {
		if c == len(arr) {
			keys[k] = true
		}
	}
	return keys
}

func allOf(arr []any, pred func(any) bool) bool {
	for _, v := range arr {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isURL(s string) bool {
	return reURL.MatchString(s)
}

func isDate(s string) bool {
	return reISODate.MatchString(s) || reDMYDate.MatchString(s)
}

func isShort(s string, limit int) bool {
	return utf8.RuneCountInString(s) <= limit && !reDangerous.MatchString(s)
}
