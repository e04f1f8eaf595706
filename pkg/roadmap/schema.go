package roadmap

import (
	"github.com/cridiv/Aedar/pkg/llm"
)

func goalSchema() *llm.Schema {
	return llm.Object(map[string]*llm.Schema{
		"goal":             llm.String(),
		"known":            llm.ArrayOf(llm.String()),
		"experienceLevel":  llm.StringEnum(LevelBeginner, LevelIntermediate, LevelAdvanced).AsNullable(),
		"formatPreference": llm.StringEnum(FormatVideo, FormatArticle, FormatProject, FormatMixed).AsNullable(),
		"timeframe":        llm.String().AsNullable(),
		"specificFocus":    llm.ArrayOf(llm.String()).AsNullable(),
	},
		[]string{"goal", "known", "experienceLevel", "formatPreference", "timeframe", "specificFocus"},
		"goal", "known",
	)
}

func roadmapSchema() *llm.Schema {
	resource := llm.Object(map[string]*llm.Schema{
		"type":        llm.String(),
		"title":       llm.String(),
		"link":        llm.String(),
		"description": llm.String(),
	}, []string{"type", "title", "link", "description"}, "type", "title", "link", "description")

	node := llm.Object(map[string]*llm.Schema{
		"id":          llm.String(),
		"title":       llm.String(),
		"description": llm.String(),
		"resources":   llm.ArrayOf(resource),
	}, []string{"id", "title", "description", "resources"}, "id", "title", "description", "resources")

	stage := llm.Object(map[string]*llm.Schema{
		"id":          llm.String(),
		"title":       llm.String(),
		"description": llm.String(),
		"nodes":       llm.ArrayOf(node),
	}, []string{"id", "title", "description", "nodes"}, "id", "title", "description", "nodes")

	return llm.Object(map[string]*llm.Schema{
		"roadmap":              llm.ArrayOf(stage),
		"triggerCalendar":      llm.Boolean(),
		"calendarIntentReason": llm.String().AsNullable(),
	},
		[]string{"roadmap", "triggerCalendar", "calendarIntentReason"},
		"roadmap", "triggerCalendar",
	)
}
