package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchema []byte

// Perspective is a named view on a species: the fields it shows and the
// query keywords that select it.
type Perspective struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Fields   []string `yaml:"fields"`
	Keywords []string `yaml:"keywords"`
}

// Schema describes the species data: perspectives, unit suffixes used for
// field labels, and field names that are never rendered.
type Schema struct {
	Perspectives []Perspective     `yaml:"perspectives"`
	Units        map[string]string `yaml:"units"`
	Reserved     []string          `yaml:"reserved"`
}

// LoadSchema reads the schema at path, or the embedded default when path is
// empty.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return ParseSchema(defaultSchema)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// DefaultSchema returns the embedded schema.
func DefaultSchema() *Schema {
	s, err := ParseSchema(defaultSchema)
	if err != nil {
		panic(fmt.Sprintf("embedded schema: %v", err))
	}
	return s
}

// ParseSchema decodes and validates a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	seen := make(map[string]bool, len(s.Perspectives))
	for i, p := range s.Perspectives {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("perspective %d: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("perspective %q: duplicate id", p.ID)
		}
		seen[p.ID] = true
	}
	for suffix := range s.Units {
		if suffix == "" {
			return errors.New("units: empty suffix")
		}
	}
	return nil
}

// Perspective returns the perspective with the given id.
func (s *Schema) Perspective(id string) (Perspective, bool) {
	for _, p := range s.Perspectives {
		if p.ID == id {
			return p, true
		}
	}
	return Perspective{}, false
}

// FieldsFor returns the fields of perspective id, or nil when unknown.
func (s *Schema) FieldsFor(id string) []string {
	p, ok := s.Perspective(id)
	if !ok {
		return nil
	}
	return slices.Clone(p.Fields)
}

// IDs returns the perspective ids in declaration order.
func (s *Schema) IDs() []string {
	ids := make([]string, len(s.Perspectives))
	for i, p := range s.Perspectives {
		ids[i] = p.ID
	}
	return ids
}

// DetectPerspectives returns the ids of perspectives whose keywords occur in
// query, in declaration order. Matching is case-insensitive on whole words.
func (s *Schema) DetectPerspectives(query string) []string {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(query), isSeparator) {
		words[w] = true
	}
	var out []string
	for _, p := range s.Perspectives {
		for _, kw := range p.Keywords {
			if words[strings.ToLower(kw)] {
				out = append(out, p.ID)
				break
			}
		}
	}
	return out
}

// StripKeywords removes perspective keywords from query so the remainder can
// be used for text search.
func (s *Schema) StripKeywords(query string) string {
	keywords := make(map[string]bool)
	for _, p := range s.Perspectives {
		for _, kw := range p.Keywords {
			keywords[strings.ToLower(kw)] = true
		}
	}
	var kept []string
	for _, w := range strings.FieldsFunc(query, isSeparator) {
		if !keywords[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', ',', ';', '?', '!', '.':
		return true
	}
	return false
}
