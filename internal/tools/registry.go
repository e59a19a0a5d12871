package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers every tool on server. Call it before Run.
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "palette",
		Description: "List the entity color order and the color each given species slug gets in a comparison",
	}, NewPaletteHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Report render and store timings and per-tag render counts",
	}, NewStatsHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify",
		Description: "Infer the representation tag of a JSON value, optionally guided by its field name",
	}, NewClassifyHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_species",
		Description: "Render one species as HTML, optionally limited to a perspective",
	}, NewRenderSpeciesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_species",
		Description: "Search species by name or field text; perspective keywords such as 'edible' or 'toxic' are detected",
	}, NewSearchSpeciesHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_species",
		Description: "Render a comparison of selected fields across species",
	}, NewCompareSpeciesHandler(deps))
}
