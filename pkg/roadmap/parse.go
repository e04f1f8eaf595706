package roadmap

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// cleanJSON strips markdown fences some models wrap around JSON.
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Validate checks the roadmap contract: at least one stage, every stage has
// nodes, every node has exactly three resources, and ids are unique where
// they have to be.
func Validate(r Roadmap) error {
	if err := validate.Var(r, "min=1,dive"); err != nil {
		return fmt.Errorf("roadmap contract: %w", err)
	}

	stageIDs := make(map[string]bool, len(r))
	for _, stage := range r {
		if stageIDs[stage.ID] {
			return fmt.Errorf("roadmap contract: duplicate stage id %q", stage.ID)
		}
		stageIDs[stage.ID] = true

		nodeIDs := make(map[string]bool, len(stage.Nodes))
		for _, node := range stage.Nodes {
			if nodeIDs[node.ID] {
				return fmt.Errorf("roadmap contract: duplicate node id %q in stage %q", node.ID, stage.ID)
			}
			nodeIDs[node.ID] = true
		}
	}
	return nil
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
