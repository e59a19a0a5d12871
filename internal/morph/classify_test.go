package morph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode turns a JSON literal into the value shape the store delivers.
func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestClassify_GoldenShapes(t *testing.T) {
	tests := []struct {
		name  string
		value string
		field string
		want  Tag
	}{
		{"badge", `{"status":"Least Concern","variant":"success"}`, "", TagBadge},
		{"bar", `[{"label":"Protein","value":25},{"label":"Fat","value":10}]`, "", TagBar},
		{"radar axis", `[{"axis":"A","value":80},{"axis":"B","value":60},{"axis":"C","value":70}]`, "", TagRadar},
		{"range", `{"min":10,"max":50}`, "", TagRange},
		{"sparkline", `[1,2,3,4,5]`, "", TagSparkline},
		{"image url", `"https://x.com/photo.jpg"`, "", TagImage},
		{"link url", `"https://x.com/page"`, "", TagLink},
		{"radar numeric object", `{"kraft":80,"ausdauer":60,"tempo":70}`, "", TagRadar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(decode(t, tt.value), tt.field))
		})
	}
}

func TestClassify_Primitives(t *testing.T) {
	tests := []struct {
		name  string
		value any
		field string
		want  Tag
	}{
		{"nil", nil, "", TagNull},
		{"blank string", "   ", "", TagNull},
		{"bool", true, "edible", TagBoolean},
		{"integer in percent range", 42.0, "", TagProgress},
		{"fraction in rating range", 7.5, "", TagRating},
		{"large number", 1234.0, "", TagNumber},
		{"negative number", -3.0, "", TagNumber},
		{"go int", 250, "", TagNumber},
		{"json number", json.Number("12"), "", TagProgress},
		{"rating hint wins", 55.0, "user_rating", TagRating},
		{"percent hint wins over rating", 7.0, "percentage", TagProgress},
		{"currency hint", 12.0, "price", TagCurrency},
		{"geo hint", 47.3, "latitude", TagNumber},
		{"german hint", 3.0, "bewertung", TagRating},
		{"camel case hint", 80.0, "marketValue", TagCurrency},
		{"iso date", "2024-05-01", "", TagDate},
		{"iso datetime", "2024-05-01T10:30:00Z", "", TagDate},
		{"dmy date", "01.05.2024", "", TagDate},
		{"short string", "Mycorrhizal", "", TagTag},
		{"long string", "A widespread mushroom growing in deciduous forests.", "", TagText},
		{"dangerous short string", "<b>hi</b>", "", TagText},
		{"script handler", "x onload=y", "", TagText},
		{"image hint without extension", "https://cdn.example.org/img/12345", "image", TagImage},
		{"relative image path with hint", "/media/amanita.webp", "foto", TagImage},
		{"link hint", "www.example.org/fungi", "website", TagLink},
		{"date hint year", "1783", "first_described", TagDate},
		{"badge hint", "Near Threatened", "conservation_status", TagBadge},
		{"tag hint allows longer value", "Tricholomataceae and relatives", "family", TagTag},
		{"hint ignored when shape disagrees", "not a url at all", "website", TagTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, tt.field))
		})
	}
}

func TestClassify_Arrays(t *testing.T) {
	tests := []struct {
		name  string
		value string
		field string
		want  Tag
	}{
		{"empty", `[]`, "", TagList},
		{"short strings", `["forest","meadow"]`, "", TagTag},
		{"long strings", `["Grows on dead wood of beech and oak trees","Rare"]`, "", TagList},
		{"mixed", `[1,"a"]`, "", TagList},
		{"twelve months with hint", `[0,0,0,1,2,3,3,2,1,0,0,0]`, "fruiting_months", TagCalendar},
		{"twelve numbers without hint", `[0,0,0,1,2,3,3,2,1,0,0,0]`, "", TagSparkline},
		{"calendar objects", `[{"month":"Sep","intensity":3},{"month":"Oct","intensity":2}]`, "", TagCalendar},
		{"timeline", `[{"date":"1753","event":"Described"},{"date":"1821","event":"Moved"}]`, "", TagTimeline},
		{"timeline by year", `[{"year":1900,"label":"a","value":1}]`, "", TagTimeline},
		{"steps", `[{"step":"Spore","status":"done"},{"step":"Mycelium","status":"active"}]`, "", TagSteps},
		{"heatmap", `[{"x":1,"y":2,"value":3},{"x":2,"y":2,"value":1}]`, "", TagHeatmap},
		{"pie", `[{"name":"Water","value":90},{"name":"Protein","value":3}]`, "", TagPie},
		{"network", `[{"from":"a","to":"b"},{"from":"b","to":"c"}]`, "", TagNetwork},
		{"network source target", `[{"source":"a","target":"b"}]`, "", TagNetwork},
		{"object list", `[{"name":"a"},{"name":"b"}]`, "", TagList},
		{"key only on some elements", `[{"label":"a","value":1},{"name":"b","value":2}]`, "", TagPie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(decode(t, tt.value), tt.field))
		})
	}
}

func TestClassify_Objects(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Tag
	}{
		{"status only", `{"status":"Edible"}`, TagBadge},
		{"status with many keys", `{"status":"x","a":1,"b":2}`, TagObject},
		{"label variant", `{"label":"Toxic","variant":"danger"}`, TagBadge},
		{"stats", `{"min":1,"max":9,"avg":4.2}`, TagStats},
		{"boxplot", `{"min":1,"q1":2,"median":3,"q3":4,"max":5}`, TagBoxplot},
		{"map", `{"lat":47.1,"lng":8.2}`, TagMap},
		{"map lon", `{"latitude":47.1,"lon":8.2}`, TagMap},
		{"rating", `{"rating":4,"max":5}`, TagRating},
		{"gauge", `{"value":40,"zones":[{"to":50,"color":"green"}]}`, TagGauge},
		{"citation", `{"authors":["Linnaeus"],"year":1753,"title":"Species Plantarum"}`, TagCitation},
		{"currency", `{"amount":12.5,"currency":"EUR"}`, TagCurrency},
		{"dosage", `{"dose":500,"unit":"mg"}`, TagDosage},
		{"hierarchy", `{"name":"Fungi","children":[{"name":"Basidiomycota"}]}`, TagHierarchy},
		{"treemap", `{"name":"root","children":[{"name":"a","value":3},{"name":"b","value":1}]}`, TagTreemap},
		{"sunburst", `{"name":"root","children":[{"name":"a","value":3,"children":[{"name":"aa","value":1}]}]}`, TagSunburst},
		{"two numbers", `{"a":1,"b":2,"c":"x"}`, TagObject},
		{"nested object", `{"cap":"convex","stem":"white"}`, TagObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(decode(t, tt.value), ""))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	values := []string{
		`{"kraft":80,"ausdauer":60,"tempo":70}`,
		`[{"label":"a","value":1},{"label":"b","value":2}]`,
		`{"name":"root","children":[{"name":"a","value":3,"children":[{"name":"aa","value":1}]}]}`,
		`"2024-01-01"`,
		`5`,
	}
	fields := []string{"", "score", "image", "habitat"}

	for _, raw := range values {
		for _, f := range fields {
			v := decode(t, raw)
			first := Classify(v, f)
			for i := 0; i < 20; i++ {
				require.Equal(t, first, Classify(v, f), "value %s field %q", raw, f)
			}
		}
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"a": 1, "b": []int{1, 2}, "c": map[string]int{"x": 1}}
	Classify(in, "")
	assert.IsType(t, 1, in["a"])
	assert.IsType(t, []int{}, in["b"])
	assert.IsType(t, map[string]int{}, in["c"])
}

func TestTag_TextRoundTrip(t *testing.T) {
	for _, tag := range All() {
		b, err := tag.MarshalText()
		require.NoError(t, err)

		var got Tag
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, tag, got)
	}

	var bad Tag
	assert.Error(t, bad.UnmarshalText([]byte("hologram")))
	assert.False(t, Tag(200).Valid())
}
