package roadmap

import (
	"strings"
)

// NotSpecified is the value optional goal fields take when the model left them out.
const NotSpecified = "not specified"

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

const (
	FormatVideo   = "video"
	FormatArticle = "article"
	FormatProject = "project"
	FormatMixed   = "mixed"
)

// PlanningDepth controls how fine-grained the synthesized roadmap is.
type PlanningDepth string

const (
	DepthSprint    PlanningDepth = "sprint"
	DepthStandard  PlanningDepth = "standard"
	DepthArchitect PlanningDepth = "architect"
)

// GoalDescriptor is the structured reading of a user's request. It is built
// once per message and never modified afterwards.
type GoalDescriptor struct {
	Goal             string   `json:"goal"`
	Known            []string `json:"known"`
	ExperienceLevel  string   `json:"experienceLevel"`
	FormatPreference string   `json:"formatPreference"`
	Timeframe        string   `json:"timeframe"`
	SpecificFocus    []string `json:"specificFocus"`
}

// EffectiveFormat is the format preference with "mixed" standing in for an
// unspecified one.
func (g GoalDescriptor) EffectiveFormat() string {
	if g.FormatPreference == "" || g.FormatPreference == NotSpecified {
		return FormatMixed
	}
	return g.FormatPreference
}

func joinOrNotSpecified(values []string) string {
	if len(values) == 0 {
		return NotSpecified
	}
	return strings.Join(values, ", ")
}

type Resource struct {
	Type        string `json:"type"`
	Title       string `json:"title" validate:"required"`
	Link        string `json:"link" validate:"required"`
	Description string `json:"description"`
}

type Node struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Resources   []Resource `json:"resources" validate:"len=3,dive"`
}

type Stage struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Nodes       []Node `json:"nodes" validate:"min=1,dive"`
}

// Roadmap is an ordered list of stages; stage i is worked on before stage i+1.
type Roadmap []Stage

// NodeCount returns the number of nodes across all stages.
func (r Roadmap) NodeCount() int {
	n := 0
	for _, s := range r {
		n += len(s.Nodes)
	}
	return n
}
