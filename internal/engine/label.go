package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Shadojus/amorph/internal/render"
)

// defaultUnits maps a trailing field-name token to the unit it denotes.
var defaultUnits = map[string]string{
	"mm":      "mm",
	"cm":      "cm",
	"m":       "m",
	"km":      "km",
	"m2":      "m²",
	"ha":      "ha",
	"mg":      "mg",
	"g":       "g",
	"kg":      "kg",
	"ml":      "ml",
	"l":       "l",
	"pct":     "%",
	"percent": "%",
	"prozent": "%",
	"c":       "°C",
	"celsius": "°C",
	"f":       "°F",
	"ph":      "pH",
	"ppm":     "ppm",
	"kcal":    "kcal",
	"kj":      "kJ",
	"h":       "h",
	"hours":   "h",
	"min":     "min",
	"days":    "days",
	"tage":    "Tage",
	"years":   "years",
	"jahre":   "Jahre",
	"eur":     "€",
	"usd":     "$",
}

// Label is the display form of a field name.
type Label struct {
	Text string
	Unit string
}

// Labeler derives labels from field names using a unit suffix table.
type Labeler struct {
	units map[string]string
}

// NewLabeler returns a labeler with the default unit table extended by
// extra. Keys are matched case-insensitively against the last name token.
func NewLabeler(extra map[string]string) *Labeler {
	units := make(map[string]string, len(defaultUnits)+len(extra))
	for k, v := range defaultUnits {
		units[k] = v
	}
	for k, v := range extra {
		units[strings.ToLower(k)] = v
	}
	return &Labeler{units: units}
}

// Label splits field on separators and camelCase, capitalizes every token
// and moves a trailing unit token into Unit: "height_cm" becomes
// {"Height", "cm"}.
func (l *Labeler) Label(field string) Label {
	words := render.SplitWords(field)
	var unit string
	if len(words) > 1 {
		if u, ok := l.units[words[len(words)-1]]; ok {
			unit = u
			words = words[:len(words)-1]
		}
	}
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return Label{Text: strings.Join(words, " "), Unit: unit}
}
