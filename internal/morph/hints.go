package morph

import (
	"regexp"
	"strings"
)

// Field-name hints. Each pattern matches English and German synonyms and is
// applied to the lowercased field name with separators normalized to "_".
var (
	hintImage    = regexp.MustCompile(`(^|_)(image|img|photo|foto|picture|bild|thumbnail|thumb|icon|avatar|abbildung)s?($|_)`)
	hintLink     = regexp.MustCompile(`(^|_)(url|link|href|website|webseite|homepage|source_url|quelle_url)s?($|_)`)
	hintDate     = regexp.MustCompile(`(^|_)(date|datum|published|publiziert|created_at|updated_at|discovered|entdeckt|first_described|erstbeschreibung|timestamp|zeitpunkt)($|_)`)
	hintTag      = regexp.MustCompile(`(^|_)(category|kategorie|type|typ|family|familie|genus|gattung|kingdom|reich|order|ordnung|class|klasse|phylum|stamm|habitat|lebensraum|substrate|substrat|season|saison|color|farbe|form|shape)($|_)`)
	hintBadge    = regexp.MustCompile(`(^|_)(status|zustand|conservation|gefaehrdung|gefährdung|iucn|edibility|essbarkeit|toxicity|giftigkeit|toxizitaet|toxizität|danger|gefahr|level|stufe)($|_)`)
	hintRating   = regexp.MustCompile(`(^|_)(rating|bewertung|stars|sterne|score|punkte|grade|note)($|_)`)
	hintProgress = regexp.MustCompile(`(^|_)(progress|fortschritt|percent|percentage|prozent|pct|anteil|ratio|quote|completion|coverage|abdeckung|humidity|feuchtigkeit)($|_)`)
	hintCurrency = regexp.MustCompile(`(^|_)(price|preis|cost|kosten|value_eur|value_usd|eur|usd|chf|market_value|marktwert)($|_)`)
	hintGeo      = regexp.MustCompile(`(^|_)(lat|lng|lon|latitude|longitude|breitengrad|laengengrad|längengrad|altitude|hoehe|höhe|elevation)($|_)`)
	hintCalendar = regexp.MustCompile(`(^|_)(season|saison|months|monate|calendar|kalender|phenology|phaenologie|phänologie|fruiting|bluete|blüte|flowering)($|_)`)
)

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// normalizeHint lowercases a field name and maps camelCase, dashes, dots and
// spaces to underscores so one pattern set covers every naming style.
func normalizeHint(field string) string {
	if field == "" {
		return ""
	}
	s := camelBoundary.ReplaceAllString(field, "${1}_${2}")
	s = strings.ToLower(s)
	return strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(s)
}

// stringHint reports the tag suggested by the field name alone, for the string
// tags where names are allowed to override shape.
func stringHint(field string) (Tag, bool) {
	switch {
	case field == "":
		return TagNull, false
	case hintImage.MatchString(field):
		return TagImage, true
	case hintLink.MatchString(field):
		return TagLink, true
	case hintDate.MatchString(field):
		return TagDate, true
	case hintBadge.MatchString(field):
		return TagBadge, true
	case hintTag.MatchString(field):
		return TagTag, true
	}
	return TagNull, false
}

func numberHint(field string) (Tag, bool) {
	switch {
	case field == "":
		return TagNull, false
	case hintGeo.MatchString(field):
		return TagNumber, true
	case hintCurrency.MatchString(field):
		return TagCurrency, true
	case hintProgress.MatchString(field):
		return TagProgress, true
	case hintRating.MatchString(field):
		return TagRating, true
	}
	return TagNull, false
}
