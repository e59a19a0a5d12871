package parser

import (
	"testing"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chanterelle = `---
name: Golden Chanterelle
slug: cantharellus-cibarius
perspectives: [culinary, ecology]
edibility: choice
cap_size: {min: 3, max: 10}
nutrients:
  - {label: Protein, value: 2.3}
  - {label: Fat, value: 0.5}
edible: true
published: 2024-05-01
notes: ~
---
A funnel-shaped yellow mushroom found in mossy woodland.

## Habitat

Mycorrhizal with birch, beech and spruce.

### Soil

Acidic.

## Lookalikes

False chanterelle.
`

func TestParseMarkdown_PreservesFrontmatterOrder(t *testing.T) {
	doc, err := ParseMarkdown(chanterelle)
	require.NoError(t, err)

	var names []string
	for _, f := range doc.Frontmatter {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "slug", "perspectives", "edibility", "cap_size", "nutrients", "edible", "published", "notes"}, names)
	assert.Equal(t, "Golden Chanterelle", doc.Title)
	assert.Equal(t, []string{"culinary", "ecology"}, doc.GetStringSlice("perspectives"))
	assert.Equal(t, "A funnel-shaped yellow mushroom found in mossy woodland.", doc.Intro)
}

func TestParseMarkdown_ValueShapes(t *testing.T) {
	doc, err := ParseMarkdown(chanterelle)
	require.NoError(t, err)

	tests := []struct {
		key  string
		want any
	}{
		{"cap_size", map[string]any{"min": 3.0, "max": 10.0}},
		{"nutrients", []any{
			map[string]any{"label": "Protein", "value": 2.3},
			map[string]any{"label": "Fat", "value": 0.5},
		}},
		{"edible", true},
		{"published", "2024-05-01"},
		{"notes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := doc.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestParseMarkdown_Sections(t *testing.T) {
	doc, err := ParseMarkdown(chanterelle)
	require.NoError(t, err)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "## Habitat > ### Soil", doc.Sections[1].Path)
	assert.Equal(t, "Acidic.", doc.Sections[1].Content)
}

func TestParseMarkdown_Errors(t *testing.T) {
	_, err := ParseMarkdown("---\nname: [unclosed\n---\n")
	assert.Error(t, err)

	_, err = ParseMarkdown("---\n- a\n- b\n---\n")
	assert.Error(t, err, "frontmatter must be a mapping")

	doc, err := ParseMarkdown("# Plain\n\nNo frontmatter.")
	require.NoError(t, err)
	assert.Equal(t, "Plain", doc.Title)
	assert.Empty(t, doc.Frontmatter)
}

func TestParseSpecies(t *testing.T) {
	rec, err := ParseSpecies(chanterelle)
	require.NoError(t, err)

	assert.Equal(t, "cantharellus-cibarius", rec.Slug)
	assert.Equal(t, "Golden Chanterelle", rec.Name)
	assert.Equal(t, []string{"culinary", "ecology"}, rec.Perspectives)
	assert.Equal(t, []string{
		"edibility", "cap_size", "nutrients", "edible", "published", "notes",
		"description", "habitat", "lookalikes",
	}, rec.Names())

	v, _ := rec.Get("habitat")
	assert.Equal(t, "Mycorrhizal with birch, beech and spruce.", v)
}

func TestParseSpecies_SlugFromName(t *testing.T) {
	rec, err := ParseSpecies("# Fly Agaric\n\nRed cap with white spots.\n")
	require.NoError(t, err)
	assert.Equal(t, "fly-agaric", rec.Slug)
	assert.Equal(t, []models.Field{{Name: "description", Value: "Red cap with white spots."}}, rec.Fields)
}

func TestParseSpecies_NoName(t *testing.T) {
	_, err := ParseSpecies("---\nedible: true\n---\nJust text.\n")
	assert.ErrorIs(t, err, ErrNoName)
}

func TestFieldName(t *testing.T) {
	tests := map[string]string{
		"Habitat":             "habitat",
		"Look-alikes & risks": "look_alikes_risks",
		"  Spore Print  ":     "spore_print",
		"Höhe (cm)":           "höhe_cm",
		"!!!":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FieldName(in), in)
	}
}
