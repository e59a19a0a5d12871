// Package models defines the records, selections and wire types shared by
// the Amorph store, engine and transports.
package models

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned by stores when a species does not exist.
var ErrNotFound = errors.New("species not found")

// German letters whose customary spelling is not the bare base letter.
var folds = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")

// Slugify derives a species slug from a display or binomial name. Letters
// are lowercased and folded to ASCII (umlauts become two letters, other
// accents are dropped). Every run of spaces, underscores, dashes and dots
// between words becomes a single dash; anything else is removed.
func Slugify(name string) string {
	s := folds.Replace(strings.ToLower(name))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-' || r == '.':
			pendingDash = true
		}
	}
	return b.String()
}
