package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Shadojus/amorph/internal/morph"
)

var timeKeys = []string{"date", "datum", "year", "jahr", "time", "zeit", "when", "period", "periode", "era", "epoch"}

type timelineEvent struct {
	When  string
	Label string
	Owner int
}

func timelineEvents(v any, owner int) []timelineEvent {
	var out []timelineEvent
	for _, e := range arrayOf(v) {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		when := stringField(obj, timeKeys...)
		if when == "" {
			continue
		}
		out = append(out, timelineEvent{
			When:  when,
			Label: stringField(obj, "event", "label", "title", "name", "description", "text"),
			Owner: owner,
		})
	}
	return out
}

// sortEvents orders events chronologically when every key parses as a date
// or number; otherwise the input order is kept.
func sortEvents(events []timelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, aok := eventKey(events[i].When)
		b, bok := eventKey(events[j].When)
		if !aok || !bok {
			return false
		}
		return a < b
	})
}

func eventKey(s string) (string, bool) {
	if t, ok := parseDate(s); ok {
		return t.Format("2006-01-02"), true
	}
	if f, ok := morph.Float(s); ok && f >= 0 && f < 10000 {
		return fmt.Sprintf("%04d", int(f)), true
	}
	return "", false
}

type timelineRenderer struct{}

func (timelineRenderer) Render(v any, ctx Context) string {
	events := timelineEvents(v, 0)
	if len(events) == 0 {
		return ""
	}
	sortEvents(events)
	var b strings.Builder
	fmt.Fprintf(&b, `<ol class="amorph-timeline" id="%s">`, chartID("timeline", ctx))
	for i, ev := range events {
		if ctx.Compact && i == compactListLimit {
			fmt.Fprintf(&b, `<li class="amorph-more">+%d</li>`, len(events)-i)
			break
		}
		fmt.Fprintf(&b, `<li><span class="amorph-when">%s</span><span class="amorph-event">%s</span></li>`,
			esc(ev.When), esc(ev.Label))
	}
	b.WriteString(`</ol>`)
	return b.String()
}

// RenderCompare merges every entity's events into one chronology, each event
// marked with its entity color.
func (timelineRenderer) RenderCompare(items []Item, ctx Context) string {
	var events []timelineEvent
	for i, it := range items {
		events = append(events, timelineEvents(it.Value, i)...)
	}
	if len(events) == 0 {
		return ""
	}
	sortEvents(events)
	var b strings.Builder
	fmt.Fprintf(&b, `<ol class="amorph-timeline amorph-timeline-compare" id="%s">`, chartID("timeline", ctx, itemIDs(items)...))
	for _, ev := range events {
		it := items[ev.Owner]
		fmt.Fprintf(&b, `<li data-entity="%s" style="--entity-color:%s"><span class="amorph-when">%s</span><span class="amorph-event">%s</span>%s</li>`,
			esc(it.Entity.ID), safeColor(it.Color), esc(ev.When), esc(ev.Label), entityCaption(it))
	}
	b.WriteString(`</ol>`)
	return b.String()
}

type stepsRenderer struct{}

var stepStatuses = map[string]string{
	"done":        "done",
	"complete":    "done",
	"completed":   "done",
	"erledigt":    "done",
	"active":      "active",
	"current":     "active",
	"in progress": "active",
	"aktiv":       "active",
	"pending":     "pending",
	"todo":        "pending",
	"offen":       "pending",
}

func (stepsRenderer) Render(v any, ctx Context) string {
	var b strings.Builder
	b.WriteString(`<ol class="amorph-steps">`)
	n := 0
	for _, e := range arrayOf(v) {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		label := stringField(obj, "step", "phase", "stage", "schritt", "stufe", "label")
		if label == "" {
			continue
		}
		status := stepStatuses[strings.ToLower(stringField(obj, "status"))]
		if status == "" {
			status = "pending"
		}
		fmt.Fprintf(&b, `<li class="amorph-step" data-status="%s">%s</li>`, status, esc(label))
		n++
	}
	b.WriteString(`</ol>`)
	if n == 0 {
		return ""
	}
	return b.String()
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var monthAliases = map[string]int{
	"jan": 1, "januar": 1, "january": 1,
	"feb": 2, "februar": 2, "february": 2,
	"mar": 3, "mär": 3, "maerz": 3, "märz": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5, "mai": 5,
	"jun": 6, "juni": 6, "june": 6,
	"jul": 7, "juli": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "okt": 10, "oktober": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "dez": 12, "dezember": 12, "december": 12,
}

// months reduces calendar data to twelve intensities in [0,1].
func months(v any) ([12]float64, bool) {
	var out [12]float64
	elems := arrayOf(v)
	found := false
	if len(elems) == 12 && allNumbers(elems) {
		for i, e := range elems {
			out[i], _ = morph.Float(e)
		}
		found = true
	} else {
		for _, e := range elems {
			obj, ok := e.(map[string]any)
			if !ok {
				continue
			}
			m := monthIndex(obj)
			if m < 0 {
				continue
			}
			if f, ok := numberField(obj, "intensity", "intensitaet", "value", "abundance", "haeufigkeit"); ok {
				out[m] = f
			} else if a, ok := morph.Field(obj, "active"); ok {
				if active, _ := a.(bool); active {
					out[m] = 1
				}
			}
			found = true
		}
	}
	if !found {
		return out, false
	}
	_, peak := bounds(out[:])
	if peak > 1 {
		for i := range out {
			out[i] /= peak
		}
	}
	return out, true
}

func allNumbers(elems []any) bool {
	for _, e := range elems {
		if _, ok := e.(float64); !ok {
			return false
		}
	}
	return true
}

func monthIndex(obj map[string]any) int {
	raw, ok := morph.Field(obj, "month", "monat")
	if !ok {
		return -1
	}
	if f, ok := morph.Float(raw); ok {
		if f >= 1 && f <= 12 {
			return int(f) - 1
		}
		return -1
	}
	if m, ok := monthAliases[strings.ToLower(strings.TrimSpace(morph.String(raw)))]; ok {
		return m - 1
	}
	return -1
}

type calendarRenderer struct{}

func (calendarRenderer) Render(v any, ctx Context) string {
	m, ok := months(v)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-calendar" id="%s">`, chartID("calendar", ctx))
	for i, f := range m {
		fmt.Fprintf(&b, `<span class="amorph-month" style="--intensity:%s;--entity-color:%s" title="%s">%s</span>`,
			coord(f), ctx.accent(), monthNames[i], monthNames[i][:1])
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderCompare draws one twelve-month row per entity.
func (calendarRenderer) RenderCompare(items []Item, ctx Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="amorph-calendar amorph-calendar-compare" id="%s"><div class="amorph-calendar-head">`,
		chartID("calendar", ctx, itemIDs(items)...))
	for _, name := range monthNames {
		b.WriteString(`<span>` + name[:1] + `</span>`)
	}
	b.WriteString(`</div>`)
	for _, it := range items {
		m, ok := months(it.Value)
		if !ok {
			continue
		}
		b.WriteString(entityRowOpen("amorph-calendar-row", it))
		b.WriteString(entityCaption(it))
		for i, f := range m {
			fmt.Fprintf(&b, `<span class="amorph-month" style="--intensity:%s" title="%s"></span>`, coord(f), monthNames[i])
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
