package render

import "github.com/Shadojus/amorph/internal/morph"

type nullRenderer struct{}

func (nullRenderer) Render(any, Context) string { return "" }

// builtin returns the default renderer for tag. The switch is exhaustive so
// a new tag without a renderer fails the registry test.
func builtin(tag morph.Tag, reg *Registry) Renderer {
	switch tag {
	case morph.TagNull:
		return nullRenderer{}
	case morph.TagText:
		return textRenderer{}
	case morph.TagNumber:
		return numberRenderer{}
	case morph.TagBoolean:
		return booleanRenderer{}
	case morph.TagBadge:
		return badgeRenderer{}
	case morph.TagTag:
		return tagRenderer{}
	case morph.TagDate:
		return dateRenderer{}
	case morph.TagLink:
		return linkRenderer{}
	case morph.TagImage:
		return imageRenderer{}
	case morph.TagList:
		return listRenderer{reg: reg}
	case morph.TagObject:
		return objectRenderer{reg: reg}
	case morph.TagHierarchy:
		return hierarchyRenderer{}
	case morph.TagBar:
		return barRenderer{}
	case morph.TagPie:
		return pieRenderer{}
	case morph.TagRadar:
		return radarRenderer{}
	case morph.TagSparkline:
		return sparklineRenderer{}
	case morph.TagGauge:
		return gaugeRenderer{}
	case morph.TagHeatmap:
		return heatmapRenderer{}
	case morph.TagBoxplot:
		return boxplotRenderer{}
	case morph.TagTreemap:
		return treemapRenderer{}
	case morph.TagSunburst:
		return sunburstRenderer{}
	case morph.TagNetwork:
		return networkRenderer{}
	case morph.TagTimeline:
		return timelineRenderer{}
	case morph.TagSteps:
		return stepsRenderer{}
	case morph.TagCalendar:
		return calendarRenderer{}
	case morph.TagRange:
		return rangeRenderer{}
	case morph.TagStats:
		return statsRenderer{}
	case morph.TagMap:
		return mapRenderer{}
	case morph.TagCitation:
		return citationRenderer{}
	case morph.TagDosage:
		return dosageRenderer{}
	case morph.TagCurrency:
		return currencyRenderer{}
	case morph.TagRating:
		return ratingRenderer{}
	case morph.TagProgress:
		return progressRenderer{}
	}
	return nil
}
