package compare

import (
	"sort"
	"strings"
)

// keyEscaper escapes the pair and list separators so ids and field names
// containing them cannot collide with another pairing.
var keyEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `|`, `\|`)

// FieldKey identifies a rendered comparison row by the (entity, field) pairs
// that contributed to it: "id:field" pairs sorted and joined with "|". Two
// renderings of the same field over the same entities get the same key.
// Separators inside an id or field are backslash-escaped.
func FieldKey(field string, entityIDs []string) string {
	f := keyEscaper.Replace(field)
	pairs := make([]string, len(entityIDs))
	for i, id := range entityIDs {
		pairs[i] = keyEscaper.Replace(id) + ":" + f
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}
