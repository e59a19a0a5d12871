package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/Shadojus/amorph/internal/metrics"
	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/morph"
	"github.com/Shadojus/amorph/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

var reRaw = regexp.MustCompile(`data-raw="([^"]+)"`)

func TestRenderField_EmptyInEveryMode(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	grid := render.Single()
	grid.Mode = render.ModeGrid
	modes := map[string]render.Context{
		"single":  render.Single(),
		"grid":    grid,
		"compare": render.Single().ForCompare([]render.Entity{{ID: "a"}, {ID: "b"}}, nil),
	}
	empties := map[string]any{
		"nil":          nil,
		"empty string": "",
		"blank string": "   ",
		"empty array":  []any{},
		"empty object": map[string]any{},
	}
	for mode, ctx := range modes {
		for name, v := range empties {
			t.Run(mode+"/"+name, func(t *testing.T) {
				assert.Empty(t, e.RenderField(v, "habitat", ctx))
			})
		}
	}
}

func TestRenderField_EveryShapeIsWellFormed(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	tests := []struct {
		field string
		value string
		want  morph.Tag
	}{
		{"conservation", `{"status":"Least Concern","variant":"success"}`, morph.TagBadge},
		{"nutrients", `[{"label":"Protein","value":25},{"label":"Fat","value":10}]`, morph.TagBar},
		{"profile", `[{"axis":"A","value":80},{"axis":"B","value":60},{"axis":"C","value":70}]`, morph.TagRadar},
		{"cap_size", `{"min":10,"max":50}`, morph.TagRange},
		{"trend", `[1,2,3,4,5]`, morph.TagSparkline},
		{"cover", `"https://x.com/photo.jpg"`, morph.TagImage},
		{"reference", `"https://x.com/page"`, morph.TagLink},
		{"traits", `{"kraft":80,"ausdauer":60,"tempo":70}`, morph.TagRadar},
		{"history", `[{"year":1753,"event":"described"},{"year":1821,"event":"transferred"}]`, morph.TagTimeline},
		{"lifecycle", `[{"step":"Spore","status":"done"},{"step":"Mycelium","status":"active"}]`, morph.TagSteps},
		{"grid", `[{"x":"a","y":"b","value":1},{"x":"b","y":"b","value":3}]`, morph.TagHeatmap},
		{"composition", `[{"name":"water","value":90},{"name":"other","value":10}]`, morph.TagPie},
		{"symbiosis", `[{"from":"fungus","to":"birch"}]`, morph.TagNetwork},
		{"toxicity_index", `{"value":40,"zones":[{"to":30,"color":"success"},{"to":100,"color":"danger"}]}`, morph.TagGauge},
		{"spore_length", `{"min":8,"q1":9,"median":10,"q3":11,"max":13}`, morph.TagBoxplot},
		{"stem_length", `{"min":5,"max":20,"avg":12}`, morph.TagStats},
		{"locality", `{"lat":48.2,"lng":16.4}`, morph.TagMap},
		{"first_description", `{"authors":["Linnaeus"],"year":1753,"title":"Species Plantarum"}`, morph.TagCitation},
		{"price", `{"amount":12.5,"currency":"EUR"}`, morph.TagCurrency},
		{"intake", `{"dose":5,"unit":"mg"}`, morph.TagDosage},
		{"review", `{"rating":4.5}`, morph.TagRating},
		{"completion", `42`, morph.TagProgress},
		{"biomass", `{"name":"root","children":[{"name":"a","value":2},{"name":"b","value":3}]}`, morph.TagTreemap},
		{"lineage", `{"name":"r","children":[{"name":"a","value":1,"children":[{"name":"x","children":[{"name":"y","value":1}]}]}]}`, morph.TagSunburst},
		{"taxonomy", `{"parent":"Amanitaceae","children":["A. muscaria"]}`, morph.TagHierarchy},
		{"fruiting_months", `[0,0,0,0,0,0,1,3,5,4,2,0]`, morph.TagCalendar},
		{"notes", `["A very long sentence of more than twenty runes","Another sentence that is long enough"]`, morph.TagList},
		{"misc", `{"a":"b","c":"d"}`, morph.TagObject},
		{"edible", `true`, morph.TagBoolean},
		{"population", `12345.6`, morph.TagNumber},
		{"published", `"2024-05-01"`, morph.TagDate},
		{"colors", `["red","brown"]`, morph.TagTag},
		{"description", `"A large, conspicuous mushroom with a bright red cap covered in white warts."`, morph.TagText},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			v := decodeJSON(t, tt.value)
			require.Equal(t, tt.want, e.Classify(v, tt.field))

			out := e.RenderField(v, tt.field, render.Single())
			require.NotEmpty(t, out)
			assert.NoError(t, checkMarkup(out))
			assert.Contains(t, out, `data-morph="`+tt.want.String()+`"`)
			assert.Contains(t, out, `data-field="`+tt.field+`"`)
		})
	}
}

func TestRenderField_IsolatesFailures(t *testing.T) {
	reg := render.DefaultRegistry().Clone()
	reg.Register(morph.TagText, render.RendererFunc(func(any, render.Context) string { panic("boom") }))
	reg.Register(morph.TagDate, render.RendererFunc(func(any, render.Context) string { return "<div><span>" }))
	c := metrics.NewCollector()
	e := New(WithRegistry(reg), WithMetrics(c), WithLogger(quietLogger()))

	rec := models.Record{Slug: "amanita-muscaria", Fields: []models.Field{
		{Name: "description", Value: "A large, conspicuous mushroom with a bright red cap."},
		{Name: "published", Value: "2024-05-01"},
		{Name: "edibility", Value: "toxic"},
	}}
	out := e.RenderRecord(rec, render.Single())

	assert.NotContains(t, out, `data-field="description"`)
	assert.NotContains(t, out, `data-field="published"`)
	assert.Contains(t, out, `data-field="edibility"`)

	snap := c.Snapshot()
	failed := map[string]int64{}
	for _, tc := range snap.Tags {
		failed[tc.Tag] = tc.Failed
	}
	assert.Equal(t, int64(1), failed["text"])
	assert.Equal(t, int64(1), failed["date"])
}

func TestRenderField_UnreadableShapeKeepsField(t *testing.T) {
	c := metrics.NewCollector()
	e := New(WithMetrics(c), WithLogger(quietLogger()))
	value := map[string]any{"min": "10 cm", "max": "20 cm"}
	require.Equal(t, morph.TagRange, morph.Classify(value, "cap_size"))

	out := e.RenderField(value, "cap_size", render.Single())
	assert.Contains(t, out, `data-morph="range"`)
	assert.Contains(t, out, `<span class="amorph-label">Cap Size</span>`)
	assert.Contains(t, out, "10 cm")
	assert.NoError(t, checkMarkup(out))

	snap := c.Snapshot()
	require.Len(t, snap.Tags, 1)
	assert.Equal(t, metrics.TagCounts{Tag: "range", Rendered: 1, Degraded: 1}, snap.Tags[0])
}

func TestCompare_UnreadableOverlayFallsBackToCells(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	records := []models.Record{
		{Slug: "a", Name: "Alpha", Fields: []models.Field{{Name: "cap_size", Value: map[string]any{"min": "3 cm", "max": "8 cm"}}}},
		{Slug: "b", Name: "Beta", Fields: []models.Field{{Name: "cap_size", Value: map[string]any{"min": "10 cm", "max": "20 cm"}}}},
	}
	c := e.Compare(records, render.Single())
	require.Equal(t, []string{"a:cap_size|b:cap_size"}, c.Keys)
	assert.Equal(t, 2, strings.Count(c.Markup, `class="amorph-compare-cell"`))
	assert.Contains(t, c.Markup, "3 cm")
	assert.Contains(t, c.Markup, "20 cm")
}

func TestRenderField_Payload(t *testing.T) {
	c := metrics.NewCollector()
	e := New(WithMetrics(c), WithLogger(quietLogger()))

	out := e.RenderField(map[string]any{"min": 8.0, "max": 20.0}, "cap_diameter_cm", render.Single())
	m := reRaw.FindStringSubmatch(out)
	require.Len(t, m, 2)
	got, err := DecodePayload(m[1])
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"min": 8.0, "max": 20.0}, got)

	big := strings.Repeat("spores ", 2000)
	out = e.RenderField(big, "description", render.Single())
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "data-raw=")
	assert.Equal(t, int64(1), c.Snapshot().PayloadsOmitted)

	off := New(WithPayloadCap(0), WithLogger(quietLogger()))
	assert.NotContains(t, off.RenderField("toxic", "edibility", render.Single()), "data-raw=")
}

func TestRenderField_HeaderAndAttribution(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	ctx := render.Single()
	ctx.Attributions = []render.Attribution{{Source: "GBIF", URL: "https://gbif.org", License: "CC-BY"}}

	out := e.RenderField(12.5, "height_cm", ctx)
	assert.Contains(t, out, `<span class="amorph-label">Height</span><span class="amorph-unit">cm</span>`)
	assert.Contains(t, out, `<a href="https://gbif.org"`)

	ctx.HideAttribution = true
	assert.NotContains(t, e.RenderField(12.5, "height_cm", ctx), "amorph-attribution")
}

func TestRenderRecord_SkipsReserved(t *testing.T) {
	e := New(WithReserved("perspectives"), WithLogger(quietLogger()))
	rec := models.Record{Fields: []models.Field{
		{Name: "id", Value: "species:1"},
		{Name: "name", Value: "Fly agaric"},
		{Name: "_source", Value: "import"},
		{Name: "perspectives", Value: []any{"ecology"}},
		{Name: "habitat", Value: "birch"},
		{Name: "empty", Value: ""},
	}}
	out := e.RenderRecord(rec, render.Single())
	assert.Equal(t, 1, strings.Count(out, `class="amorph-field"`))
	assert.Contains(t, out, `data-field="habitat"`)
}

func comparisonRecords() []models.Record {
	return []models.Record{
		{Slug: "a", Name: "Alpha", Fields: []models.Field{
			{Name: "strength_profile", Value: map[string]any{"kraft": 80.0, "ausdauer": 60.0, "tempo": 70.0}},
			{Name: "habitat", Value: "birch"},
			{Name: "notes", Value: "Grows in mixed birch woodland on acidic soil"},
		}},
		{Slug: "b", Name: "Beta", Fields: []models.Field{
			{Name: "strength_profile", Value: map[string]any{"kraft": 50.0, "ausdauer": 90.0, "tempo": 40.0}},
			{Name: "notes", Value: "Prefers calcareous beech forests in summer"},
			{Name: "habitat", Value: ""},
		}},
	}
}

func TestCompare_RowsAndStrategies(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	c := e.Compare(comparisonRecords(), render.Single())

	assert.Equal(t, 2, c.Entities)
	assert.Equal(t, 3, c.Fields)
	assert.Equal(t, []string{
		"a:strength_profile|b:strength_profile",
		"a:habitat",
		"a:notes|b:notes",
	}, c.Keys)

	assert.Contains(t, c.Markup, `data-compare-root`)
	assert.Contains(t, c.Markup, `data-strategy="overlay"`)
	assert.Contains(t, c.Markup, `data-strategy="single"`)
	assert.Contains(t, c.Markup, `data-strategy="side-by-side"`)
	assert.Contains(t, c.Markup, `data-entity="a" style="--entity-color:`+compare.Palette[0]+`"`)
	assert.Contains(t, c.Markup, `data-entity="b" style="--entity-color:`+compare.Palette[1]+`"`)
	assert.NotContains(t, c.Markup, "amorph-attribution")
	assert.NoError(t, checkMarkup(c.Markup))

	assert.Equal(t, c.Markup, e.RenderComparison(comparisonRecords(), render.Single()), "output is deterministic")
}

func TestCompare_UsesCallerColors(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	ctx := render.Single()
	ctx.Entities = []render.Entity{{ID: "b"}, {ID: "a"}}
	ctx.Colors = []string{"#111111", "#222222"}

	c := e.Compare(comparisonRecords(), ctx)
	assert.Contains(t, c.Markup, `data-entity="b" style="--entity-color:#111111"`)
	assert.Contains(t, c.Markup, `data-entity="a" style="--entity-color:#222222"`)
}

func TestCompare_MissingCallerColorsAvoidTaken(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	ctx := render.Single()
	ctx.Entities = []render.Entity{{ID: "b"}}
	ctx.Colors = []string{compare.Palette[0]}

	c := e.Compare(comparisonRecords(), ctx)
	assert.Contains(t, c.Markup, `data-entity="b" style="--entity-color:`+compare.Palette[0]+`"`)
	assert.Contains(t, c.Markup, `data-entity="a" style="--entity-color:`+compare.Palette[1]+`"`)
	assert.NotContains(t, c.Markup, `data-entity="a" style="--entity-color:`+compare.Palette[0]+`"`)
}

func TestComparisonColors_ExhaustedPalette(t *testing.T) {
	ctx := render.Single()
	ids := make([]string, 0, len(compare.Palette)+1)
	for i := range compare.Palette {
		id := fmt.Sprintf("e%d", i)
		ids = append(ids, id)
		ctx.Entities = append(ctx.Entities, render.Entity{ID: id})
		ctx.Colors = append(ctx.Colors, compare.Palette[i])
	}
	ids = append(ids, "extra")

	colors := comparisonColors(ids, ctx)
	assert.Equal(t, compare.Palette[3], colors.Color("e3"))
	assert.Equal(t, compare.Palette[0], colors.Color("extra"))
	assert.Empty(t, colors.Color("unknown"))
}

func TestCompare_Empty(t *testing.T) {
	e := New(WithLogger(quietLogger()))
	assert.Equal(t, Comparison{}, e.Compare(nil, render.Single()))

	c := e.Compare([]models.Record{{Slug: "a", Fields: []models.Field{{Name: "x", Value: nil}}}}, render.Single())
	assert.Zero(t, c.Fields)
	assert.Equal(t, 1, c.Entities)
}

func TestLabeler(t *testing.T) {
	l := NewLabeler(map[string]string{"spores": "spores/ml"})
	tests := []struct {
		field string
		want  Label
	}{
		{"height_cm", Label{"Height", "cm"}},
		{"sporePrintColor", Label{"Spore Print Color", ""}},
		{"soil_ph", Label{"Soil", "pH"}},
		{"cm", Label{"Cm", ""}},
		{"density_spores", Label{"Density", "spores/ml"}},
		{"growth-rate.mm", Label{"Growth Rate", "mm"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Label(tt.field), tt.field)
	}
}

func TestCheckMarkup(t *testing.T) {
	assert.NoError(t, checkMarkup(`<div><span>x</span></div>`))
	assert.NoError(t, checkMarkup(`<div><br><img src="x"></div>`))
	assert.NoError(t, checkMarkup(``))
	assert.Error(t, checkMarkup(`<div>`))
	assert.Error(t, checkMarkup(`</div>`))
	assert.Error(t, checkMarkup(`<div><span></div></span>`))
}
