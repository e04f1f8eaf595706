package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cridiv/Aedar/internal/constant"
	"github.com/cridiv/Aedar/internal/pkg/logger"
	"github.com/cridiv/Aedar/pkg/llm"
)

const extractorModule = "IntentExtractor"

// Extractor turns a raw message into a GoalDescriptor. There is no fallback:
// a request whose intent cannot be read is not worth guessing at.
type Extractor struct {
	generator   llm.StructuredGenerator
	logger      logger.ILogger
	temperature float64
}

func NewExtractor(generator llm.StructuredGenerator, logger logger.ILogger, temperature float64) *Extractor {
	return &Extractor{
		generator:   generator,
		logger:      logger,
		temperature: temperature,
	}
}

type goalPayload struct {
	Goal             string   `json:"goal"`
	Known            []string `json:"known"`
	ExperienceLevel  *string  `json:"experienceLevel"`
	FormatPreference *string  `json:"formatPreference"`
	Timeframe        *string  `json:"timeframe"`
	SpecificFocus    []string `json:"specificFocus"`
}

func (e *Extractor) Extract(ctx context.Context, message string) (*GoalDescriptor, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrExtractionFailure)
	}

	prompt := fmt.Sprintf(constant.GoalExtractionPrompt, message)
	raw, err := e.generator.GenerateStructured(ctx, prompt, goalSchema(), llm.WithTemperature(e.temperature))
	if err != nil {
		e.logger.Error(extractorModule, "Goal extraction call failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailure, err)
	}

	goal, err := parseGoal(raw)
	if err != nil {
		e.logger.Warn(extractorModule, "Goal extraction output unusable", map[string]interface{}{
			"error": err.Error(),
			"raw":   snippet(raw, 500),
		})
		return nil, err
	}

	e.logger.Debug(extractorModule, "Goal extracted", map[string]interface{}{
		"goal":  goal.Goal,
		"level": goal.ExperienceLevel,
	})
	return goal, nil
}

func parseGoal(raw string) (*GoalDescriptor, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response from model", ErrExtractionFailure)
	}

	var payload goalPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailure, err)
	}

	goal := strings.TrimSpace(payload.Goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: model returned no goal", ErrExtractionFailure)
	}

	known := cleanList(payload.Known)
	if known == nil {
		known = []string{}
	}

	return &GoalDescriptor{
		Goal:             goal,
		Known:            known,
		ExperienceLevel:  normalizeEnum(payload.ExperienceLevel, LevelBeginner, LevelIntermediate, LevelAdvanced),
		FormatPreference: normalizeEnum(payload.FormatPreference, FormatVideo, FormatArticle, FormatProject, FormatMixed),
		Timeframe:        normalizeText(payload.Timeframe),
		SpecificFocus:    cleanList(payload.SpecificFocus),
	}, nil
}

// normalizeEnum maps null, blank and out-of-vocabulary values to NotSpecified.
func normalizeEnum(value *string, allowed ...string) string {
	if value == nil {
		return NotSpecified
	}
	v := strings.ToLower(strings.TrimSpace(*value))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return NotSpecified
}

func normalizeText(value *string) string {
	if value == nil {
		return NotSpecified
	}
	v := strings.TrimSpace(*value)
	if v == "" || strings.EqualFold(v, "null") {
		return NotSpecified
	}
	return v
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
