package db

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Shadojus/amorph/internal/models"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// storedField keeps a field value as its JSON text so it reads back with
// exactly the shapes JSON decoding gives (float64 numbers, map[string]any
// objects), independent of the CBOR types SurrealDB returns.
type storedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// speciesRow is the species table layout.
type speciesRow struct {
	ID           *surrealmodels.RecordID `json:"id,omitempty"`
	Slug         string                  `json:"slug"`
	Name         string                  `json:"name"`
	Perspectives []string                `json:"perspectives"`
	Fields       []storedField           `json:"fields"`
	SearchText   string                  `json:"search_text,omitempty"`
	Created      time.Time               `json:"created,omitempty"`
	Updated      time.Time               `json:"updated,omitempty"`
}

func toRow(rec models.Record) (speciesRow, error) {
	row := speciesRow{
		Slug:         rec.Key(),
		Name:         rec.Name,
		Perspectives: rec.Perspectives,
		Fields:       make([]storedField, 0, len(rec.Fields)),
		SearchText:   searchText(rec),
	}
	if row.Perspectives == nil {
		row.Perspectives = []string{}
	}
	for _, f := range rec.Fields {
		data, err := json.Marshal(f.Value)
		if err != nil {
			return speciesRow{}, fmt.Errorf("encode field %q: %w", f.Name, err)
		}
		row.Fields = append(row.Fields, storedField{Name: f.Name, Value: string(data)})
	}
	return row, nil
}

func (r speciesRow) record() (models.Record, error) {
	rec := models.Record{
		Slug:         r.Slug,
		Name:         r.Name,
		Perspectives: r.Perspectives,
		Fields:       make([]models.Field, 0, len(r.Fields)),
		Created:      r.Created,
		Updated:      r.Updated,
	}
	if r.ID != nil {
		id, err := recordKey(*r.ID)
		if err != nil {
			return models.Record{}, err
		}
		rec.ID = id
	}
	for _, f := range r.Fields {
		var v any
		if err := json.Unmarshal([]byte(f.Value), &v); err != nil {
			return models.Record{}, fmt.Errorf("decode field %q of %s: %w", f.Name, r.Slug, err)
		}
		rec.Fields = append(rec.Fields, models.Field{Name: f.Name, Value: v})
	}
	return rec, nil
}

// only keeps the named fields of rec, in rec's order.
func only(rec models.Record, names []string) models.Record {
	if len(names) == 0 {
		return rec
	}
	out := rec
	out.Fields = nil
	for _, f := range rec.Fields {
		if slices.Contains(names, f.Name) {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// searchText flattens the name and every string found in the record's
// values into one indexable document.
func searchText(rec models.Record) string {
	parts := []string{rec.Name, strings.ReplaceAll(rec.Key(), "-", " ")}
	for _, f := range rec.Fields {
		parts = appendStrings(parts, f.Value)
	}
	return strings.Join(parts, "\n")
}

func appendStrings(dst []string, v any) []string {
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			dst = append(dst, s)
		}
	case []any:
		for _, item := range x {
			dst = appendStrings(dst, item)
		}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dst = appendStrings(dst, x[k])
		}
	}
	return dst
}

// recordKey renders a species record id as "species:<slug>". Species are
// always keyed by their slug string.
func recordKey(id surrealmodels.RecordID) (string, error) {
	slug, ok := id.ID.(string)
	if !ok {
		return "", fmt.Errorf("species id: unexpected key type %T", id.ID)
	}
	return id.Table + ":" + slug, nil
}
