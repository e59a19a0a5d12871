package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Shadojus/amorph/internal/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flyAgaric = `---
name: Fly Agaric
slug: amanita-muscaria
edibility: toxic
cap_size:
  min: 8
  max: 20
---

## Habitat

Grows in mixed birch woodland on acidic soil.
`
	chanterelle = `---
name: Golden Chanterelle
slug: cantharellus-cibarius
edibility: choice
cap_size:
  min: 3
  max: 10
---
`
)

// setup points the CLI at a temporary species directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fly-agaric.md"), []byte(flyAgaric), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chanterelle.md"), []byte(chanterelle), 0o644))
	t.Setenv("AMORPH_STORE", "memory")
	t.Setenv("AMORPH_DATA_DIR", dir)
	t.Setenv("AMORPH_SCHEMA_FILE", "")
	return dir
}

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	application = nil
	classifyField = ""
	renderPerspective, renderOutput = "", ""
	searchLimit, searchHTML = 10, false
	compareFields, compareFill, compareOutput = nil, false, ""
	importDryRun, importConcurrency = false, 4
	paletteCSS = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassify(t *testing.T) {
	setup(t)

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"classify", "true"}, []string{"boolean"}},
		{[]string{"classify", `{"min": 8, "max": 20}`}, []string{"range"}},
		{[]string{"classify", "https://example.org/cap.jpg"}, []string{"image"}},
		{[]string{"classify", "true", "--field", "height_cm"}, []string{"boolean", "Label: Height (cm)"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRender(t *testing.T) {
	setup(t)

	out, err := run(t, "render", "amanita-muscaria")
	require.NoError(t, err)
	assert.Contains(t, out, `data-species="amanita-muscaria"`)
	assert.Contains(t, out, `data-field="habitat"`)

	out, err = run(t, "render", "amanita-muscaria", "--perspective", "safety")
	require.NoError(t, err)
	assert.NotContains(t, out, `data-field="habitat"`)

	file := filepath.Join(t.TempDir(), "page.html")
	out, err = run(t, "render", "amanita-muscaria", "-o", file)
	require.NoError(t, err)
	assert.Contains(t, out, file)
	page, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<style>")
	assert.Contains(t, string(page), "<title>Fly Agaric</title>")

	_, err = run(t, "render", "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestSearch(t *testing.T) {
	setup(t)

	out, err := run(t, "search", "chanterelle")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 results")
	assert.Contains(t, out, "Golden Chanterelle")

	out, err = run(t, "search", "toxic", "--html")
	require.NoError(t, err)
	assert.Contains(t, out, `class="amorph-grid"`)

	out, err = run(t, "search", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestCompare(t *testing.T) {
	setup(t)

	out, err := run(t, "compare", "amanita-muscaria", "cantharellus-cibarius", "--fields", "edibility,cap_size")
	require.NoError(t, err)
	assert.Contains(t, out, `data-field-key="amanita-muscaria:cap_size|cantharellus-cibarius:cap_size"`)
	assert.Contains(t, out, compare.Palette[0])

	out, err = run(t, "compare", "amanita-muscaria:habitat", "cantharellus-cibarius:edibility", "--fill")
	require.NoError(t, err)
	assert.Contains(t, out, `data-field-key="amanita-muscaria:edibility|cantharellus-cibarius:edibility"`)

	file := filepath.Join(t.TempDir(), "compare.html")
	out, err = run(t, "compare", "amanita-muscaria", "cantharellus-cibarius", "-f", "edibility", "-o", file)
	require.NoError(t, err)
	assert.Contains(t, out, "2 species, 1 fields")

	_, err = run(t, "compare", "amanita-muscaria")
	assert.ErrorContains(t, err, "no field given")

	_, err = run(t, "compare", "missing:edibility")
	assert.ErrorContains(t, err, `species "missing" not found`)
}

func TestImport_RequiresSurreal(t *testing.T) {
	dir := setup(t)

	_, err := run(t, "import", dir, "--dry-run")
	assert.ErrorContains(t, err, "read-only")
}

func TestPalette(t *testing.T) {
	setup(t)

	out, err := run(t, "palette")
	require.NoError(t, err)
	for _, c := range compare.Palette {
		assert.Contains(t, out, c)
	}

	out, err = run(t, "palette", "--css")
	require.NoError(t, err)
	assert.Contains(t, out, "--amorph-entity-0: "+compare.Palette[0])
}
