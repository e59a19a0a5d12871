package models

import (
	"strings"
	"time"
)

// Field is one named value of a record. Values are decoded JSON: nil, bool,
// float64, string, []any or map[string]any.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Record is one species as delivered by a store. Field order is the order
// the source declared them in and is preserved through rendering.
type Record struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Perspectives []string  `json:"perspectives,omitempty"`
	Fields       []Field   `json:"fields"`
	Created      time.Time `json:"created,omitzero"`
	Updated      time.Time `json:"updated,omitzero"`
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field's value or appends a new field.
func (r *Record) Set(name string, value any) {
	for i, f := range r.Fields {
		if f.Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Visible returns the fields that are not reserved.
func (r Record) Visible() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if !IsReserved(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// Key returns the identity used in comparisons: the slug, or the ID when the
// record has no slug.
func (r Record) Key() string {
	if r.Slug != "" {
		return r.Slug
	}
	return r.ID
}

// DisplayName returns Name, falling back to the key.
func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Key()
}

var reservedKeys = map[string]bool{
	"id":      true,
	"slug":    true,
	"name":    true,
	"created": true,
	"updated": true,
	"xrefs":   true,
	"related": true,
}

// IsReserved reports whether a field carries identity, timestamps or
// cross-references rather than displayable content.
func IsReserved(name string) bool {
	return strings.HasPrefix(name, "_") || reservedKeys[strings.ToLower(name)]
}

// SearchResult wraps species search results.
type SearchResult struct {
	Records      []Record `json:"records"`
	Count        int      `json:"count"`
	Query        string   `json:"query"`
	Perspectives []string `json:"perspectives,omitempty"`
}
