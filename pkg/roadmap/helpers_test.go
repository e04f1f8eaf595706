package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cridiv/Aedar/pkg/llm"
)

type fakeGenerator struct {
	response string
	err      error

	prompts []string
	schemas []*llm.Schema
	options []llm.Options
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, prompt string, schema *llm.Schema, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	f.options = append(f.options, llm.ApplyOptions(llm.Options{}, opts...))
	return f.response, f.err
}

// sampleRoadmap builds a valid roadmap with one stage per entry in
// nodesPerStage.
func sampleRoadmap(nodesPerStage ...int) Roadmap {
	r := make(Roadmap, 0, len(nodesPerStage))
	for si, count := range nodesPerStage {
		stage := Stage{
			ID:          fmt.Sprintf("stage-%d", si+1),
			Title:       fmt.Sprintf("Stage %d", si+1),
			Description: "Why this stage matters.",
		}
		for ni := 0; ni < count; ni++ {
			node := Node{
				ID:          fmt.Sprintf("node-%d-%d", si+1, ni+1),
				Title:       fmt.Sprintf("Topic %d.%d", si+1, ni+1),
				Description: "What to study.",
			}
			for ri := 0; ri < 3; ri++ {
				node.Resources = append(node.Resources, Resource{
					Type:        "article",
					Title:       fmt.Sprintf("Resource %d", ri+1),
					Link:        fmt.Sprintf("https://example.com/%d/%d/%d", si+1, ni+1, ri+1),
					Description: "Read this.",
				})
			}
			stage.Nodes = append(stage.Nodes, node)
		}
		r = append(r, stage)
	}
	return r
}

func synthesisJSON(t *testing.T, r Roadmap, trigger bool, reason *string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"roadmap":              r,
		"triggerCalendar":      trigger,
		"calendarIntentReason": reason,
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(b)
}

func strPtr(s string) *string { return &s }
