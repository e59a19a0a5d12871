package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/Shadojus/amorph/internal/models"
)

// ErrNoName is returned for species documents without a name or title.
var ErrNoName = errors.New("species document has no name")

// ParseSpecies turns a species document into a record. Frontmatter keys
// id, slug, name, title and perspectives fill the record header; every
// other key becomes a field in declaration order. The intro text becomes
// "description" unless the frontmatter defines one, and each h2 section
// becomes a text field named after its heading.
func ParseSpecies(content string) (models.Record, error) {
	doc, err := ParseMarkdown(content)
	if err != nil {
		return models.Record{}, err
	}
	if doc.Title == "" {
		return models.Record{}, ErrNoName
	}

	rec := models.Record{
		ID:           doc.GetString("id"),
		Slug:         doc.GetString("slug"),
		Name:         doc.Title,
		Perspectives: doc.GetStringSlice("perspectives"),
	}
	if rec.Slug == "" {
		rec.Slug = models.Slugify(rec.Name)
	}
	for _, f := range doc.Frontmatter {
		switch f.Name {
		case "id", "slug", "name", "title", "perspectives":
			continue
		}
		rec.Fields = append(rec.Fields, f)
	}

	if _, ok := rec.Get("description"); !ok {
		if intro := introText(doc); intro != "" {
			rec.Set("description", intro)
		}
	}
	for _, s := range doc.Sections {
		if s.Level != 2 || s.Content == "" {
			continue
		}
		name := FieldName(s.Heading)
		if name == "" {
			continue
		}
		if _, ok := rec.Get(name); ok {
			continue
		}
		rec.Set(name, s.Content)
	}
	return rec, nil
}

// introText is the text before the first heading, or the body of the h1
// that carries the title.
func introText(doc *MarkdownDoc) string {
	if doc.Intro != "" {
		return doc.Intro
	}
	for _, s := range doc.Sections {
		if s.Level == 1 && s.Heading == doc.Title {
			return s.Content
		}
	}
	return ""
}

// FieldName converts a heading into a snake_case field name.
func FieldName(heading string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(heading) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return b.String()
}
