package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/Shadojus/amorph/internal/morph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_CoversEveryTag(t *testing.T) {
	r := DefaultRegistry()
	for _, tag := range morph.All() {
		assert.True(t, r.Has(tag), "no renderer for %s", tag)
		assert.NotNil(t, builtin(tag, r), "builtin missing for %s", tag)
	}
}

func TestRegistry_LookupFallsBackToText(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has(morph.TagBar))

	out := r.Render(morph.TagBar, "plain words", Single())
	assert.Equal(t, `<div class="amorph-text"><p>plain words</p></div>`, out)
}

func TestRegistry_NullRendersNothing(t *testing.T) {
	r := DefaultRegistry()
	assert.Empty(t, r.Render(morph.TagNull, "anything", Single()))
}

func TestRegistry_RegisterOverrides(t *testing.T) {
	r := DefaultRegistry()
	r.Register(morph.TagText, RendererFunc(func(v any, _ Context) string { return "custom" }))
	assert.Equal(t, "custom", r.Render(morph.TagText, "x", Single()))
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	base := DefaultRegistry()
	c := base.Clone()
	c.Register(morph.TagTag, RendererFunc(func(any, Context) string { return "OVERRIDE" }))

	value := []any{map[string]any{"a": "short"}}

	// The list and object renderers of the clone recurse through the clone.
	assert.Contains(t, c.Render(morph.TagList, value, Single()), "OVERRIDE")
	assert.NotContains(t, base.Render(morph.TagList, value, Single()), "OVERRIDE")
}

func TestRegistry_CompareFor(t *testing.T) {
	r := DefaultRegistry()
	for _, tag := range []morph.Tag{
		morph.TagBar, morph.TagRadar, morph.TagSparkline, morph.TagPie, morph.TagGauge,
		morph.TagBoxplot, morph.TagRange, morph.TagStats, morph.TagRating, morph.TagProgress,
		morph.TagCurrency, morph.TagNumber, morph.TagTag, morph.TagTimeline, morph.TagCalendar,
	} {
		_, ok := r.CompareFor(tag)
		assert.True(t, ok, "%s should have an overlay", tag)
	}
	for _, tag := range []morph.Tag{morph.TagText, morph.TagObject, morph.TagImage, morph.TagMap} {
		_, ok := r.CompareFor(tag)
		assert.False(t, ok, "%s should not have an overlay", tag)
	}
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := DefaultRegistry()
	value := []any{1.0, 2.0, 3.0}
	want := r.Render(morph.TagSparkline, value, Single().WithField("trend"))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Render(morph.TagSparkline, value, Single().WithField("trend"))
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestNested_DepthLimit(t *testing.T) {
	var v any = "leaf"
	for i := 0; i < 7; i++ {
		v = map[string]any{"a": v}
	}
	out := DefaultRegistry().Render(morph.TagObject, v, Single())
	assert.Contains(t, out, `class="amorph-raw"`)
	assert.True(t, strings.HasPrefix(out, `<dl class="amorph-object">`))
}

func TestRegistry_UnreadableShapesDegradeToGeneric(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name  string
		tag   morph.Tag
		value any
		want  string
	}{
		{"range with unit strings", morph.TagRange, map[string]any{"min": "10 cm", "max": "20 cm"}, "10 cm"},
		{"boxplot with text median", morph.TagBoxplot, map[string]any{"q1": 1.0, "median": "x", "q3": 3.0}, "Median"},
		{"map out of range", morph.TagMap, map[string]any{"lat": 999.0, "lng": "x"}, "999"},
		{"currency without amount", morph.TagCurrency, map[string]any{"amount": "x", "currency": "EUR"}, "EUR"},
		{"image with unsafe url", morph.TagImage, "javascript:alert(1)", "javascript:alert(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := r.Render(tt.tag, tt.value, Single())
			require.NotEmpty(t, out)
			assert.Contains(t, out, DegradedAttr+`="`+tt.tag.String()+`"`)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "<img")
		})
	}
}

func TestGenericTag(t *testing.T) {
	assert.Equal(t, morph.TagObject, GenericTag(map[string]any{"a": 1.0}))
	assert.Equal(t, morph.TagList, GenericTag([]any{"a"}))
	assert.Equal(t, morph.TagText, GenericTag(3.5))
	assert.Equal(t, morph.TagNull, GenericTag(map[string]any{}))
	assert.Equal(t, morph.TagNull, GenericTag(nil))
}
