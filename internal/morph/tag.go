// Package morph infers the visual representation ("morph") of an arbitrary
// decoded-JSON value from its shape and an optional field-name hint.
package morph

import "fmt"

// Tag identifies one visual representation. The set is closed: every Tag
// declared here must have a renderer in render.DefaultRegistry.
type Tag uint8

const (
	TagNull Tag = iota
	TagText
	TagNumber
	TagBoolean
	TagBadge
	TagTag
	TagDate
	TagLink
	TagImage
	TagList
	TagObject
	TagHierarchy
	TagBar
	TagPie
	TagRadar
	TagSparkline
	TagGauge
	TagHeatmap
	TagBoxplot
	TagTreemap
	TagSunburst
	TagNetwork
	TagTimeline
	TagSteps
	TagCalendar
	TagRange
	TagStats
	TagMap
	TagCitation
	TagDosage
	TagCurrency
	TagRating
	TagProgress

	tagCount
)

var tagNames = [tagCount]string{
	TagNull:      "null",
	TagText:      "text",
	TagNumber:    "number",
	TagBoolean:   "boolean",
	TagBadge:     "badge",
	TagTag:       "tag",
	TagDate:      "date",
	TagLink:      "link",
	TagImage:     "image",
	TagList:      "list",
	TagObject:    "object",
	TagHierarchy: "hierarchy",
	TagBar:       "bar",
	TagPie:       "pie",
	TagRadar:     "radar",
	TagSparkline: "sparkline",
	TagGauge:     "gauge",
	TagHeatmap:   "heatmap",
	TagBoxplot:   "boxplot",
	TagTreemap:   "treemap",
	TagSunburst:  "sunburst",
	TagNetwork:   "network",
	TagTimeline:  "timeline",
	TagSteps:     "steps",
	TagCalendar:  "calendar",
	TagRange:     "range",
	TagStats:     "stats",
	TagMap:       "map",
	TagCitation:  "citation",
	TagDosage:    "dosage",
	TagCurrency:  "currency",
	TagRating:    "rating",
	TagProgress:  "progress",
}

// String returns the lowercase wire name used in data-morph attributes.
func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Valid reports whether t is one of the declared tags.
func (t Tag) Valid() bool {
	return t < tagCount
}

// MarshalText implements encoding.TextMarshaler so tags serialize by name.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tag %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	parsed, ok := ParseTag(string(b))
	if !ok {
		return fmt.Errorf("unknown tag %q", string(b))
	}
	*t = parsed
	return nil
}

// ParseTag resolves a wire name back to its Tag.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return TagNull, false
}

// All returns every declared tag in declaration order.
func All() []Tag {
	tags := make([]Tag, 0, tagCount)
	for t := Tag(0); t < tagCount; t++ {
		tags = append(tags, t)
	}
	return tags
}
