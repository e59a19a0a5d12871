package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "hello", "hello"},
		{"binomial", "Amanita muscaria", "amanita-muscaria"},
		{"underscores", "cap_diameter", "cap-diameter"},
		{"special chars stripped", "Hello, World!", "hello-world"},
		{"dots separate words", "Cantharellus cf. cibarius", "cantharellus-cf-cibarius"},
		{"authority", "Boletus edulis (Bull.)", "boletus-edulis-bull"},
		{"empty string", "", ""},
		{"only special chars", "!@#$%", ""},
		{"consecutive separators", "hello  _ world", "hello-world"},
		{"leading and trailing separators", " -fly agaric- ", "fly-agaric"},
		{"umlauts", "Pfifferling Würzig", "pfifferling-wuerzig"},
		{"eszett", "Krause Glucke Fuß", "krause-glucke-fuss"},
		{"accents dropped", "Cèpe de Bordeaux", "cepe-de-bordeaux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsReserved(t *testing.T) {
	for _, k := range []string{"id", "slug", "name", "created", "updated", "_source", "xrefs", "related", "Name"} {
		assert.True(t, IsReserved(k), k)
	}
	for _, k := range []string{"edibility", "cap_diameter", "names", "habitat"} {
		assert.False(t, IsReserved(k), k)
	}
}

func TestRecord_FieldAccess(t *testing.T) {
	r := Record{Slug: "amanita-muscaria", Name: "Fly agaric", Fields: []Field{
		{Name: "id", Value: "species:1"},
		{Name: "edibility", Value: "toxic"},
		{Name: "_internal", Value: true},
		{Name: "cap_diameter", Value: map[string]any{"min": 8.0, "max": 20.0}},
	}}

	v, ok := r.Get("edibility")
	assert.True(t, ok)
	assert.Equal(t, "toxic", v)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	visible := r.Visible()
	assert.Len(t, visible, 2)
	assert.Equal(t, "edibility", visible[0].Name)
	assert.Equal(t, "cap_diameter", visible[1].Name)

	r.Set("edibility", "deadly")
	r.Set("habitat", "birch forests")
	assert.Equal(t, []string{"id", "edibility", "_internal", "cap_diameter", "habitat"}, r.Names())
	v, _ = r.Get("edibility")
	assert.Equal(t, "deadly", v)

	assert.Equal(t, "amanita-muscaria", r.Key())
	assert.Equal(t, "Fly agaric", r.DisplayName())
	assert.Equal(t, "x", Record{ID: "x"}.DisplayName())
}
