package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cridiv/Aedar/internal/constant"
	"github.com/cridiv/Aedar/internal/pkg/logger"
	"github.com/cridiv/Aedar/pkg/llm"
)

const synthesizerModule = "RoadmapSynthesizer"

// OutcomeKind tells a trusted roadmap apart from a salvaged one.
type OutcomeKind string

const (
	OutcomeParsed    OutcomeKind = "parsed"
	OutcomeRecovered OutcomeKind = "recovered"
	OutcomeFailed    OutcomeKind = "failed"
)

// Outcome is the result of one synthesis call. A Recovered outcome never
// carries a calendar intent.
type Outcome struct {
	Kind                  OutcomeKind
	Roadmap               Roadmap
	ShouldTriggerCalendar bool
	CalendarIntentReason  string
	FailureReason         string
}

func (o Outcome) Trusted() bool {
	return o.Kind == OutcomeParsed
}

type SynthesisRequest struct {
	Goal    *GoalDescriptor
	Message string
	Depth   PlanningDepth
}

type Synthesizer struct {
	generator   llm.StructuredGenerator
	logger      logger.ILogger
	temperature float64
}

func NewSynthesizer(generator llm.StructuredGenerator, logger logger.ILogger, temperature float64) *Synthesizer {
	return &Synthesizer{
		generator:   generator,
		logger:      logger,
		temperature: temperature,
	}
}

type synthesisPayload struct {
	Roadmap              Roadmap `json:"roadmap"`
	TriggerCalendar      *bool   `json:"triggerCalendar"`
	CalendarIntentReason *string `json:"calendarIntentReason"`
}

// Synthesize asks the model for a roadmap. Output that fails strict parsing is
// handed to Recover; empty output and transport errors fail straight away.
func (s *Synthesizer) Synthesize(ctx context.Context, req SynthesisRequest) (Outcome, error) {
	if req.Goal == nil {
		return failed("no goal descriptor"), fmt.Errorf("%w: no goal descriptor", ErrGenerationFailure)
	}

	prompt := BuildSynthesisPrompt(req.Goal, req.Message, req.Depth)
	raw, err := s.generator.GenerateStructured(ctx, prompt, roadmapSchema(), llm.WithTemperature(s.temperature))
	if err != nil {
		s.logger.Error(synthesizerModule, "Roadmap generation call failed", map[string]interface{}{"error": err.Error()})
		return failed("generation call failed"), fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}

	cleaned := cleanJSON(raw)
	if cleaned == "" {
		s.logger.Error(synthesizerModule, "Empty response from model", nil)
		return failed("empty response from model"), fmt.Errorf("%w: empty response from model", ErrGenerationFailure)
	}

	payload, parseErr := parseStrict(cleaned)
	if parseErr == nil {
		flag, reason := resolveCalendarIntent(req.Message, *payload.TriggerCalendar, deref(payload.CalendarIntentReason))
		if flag != *payload.TriggerCalendar {
			s.logger.Info(synthesizerModule, "Calendar intent overridden: message has no scheduling language", nil)
		}
		return Outcome{
			Kind:                  OutcomeParsed,
			Roadmap:               payload.Roadmap,
			ShouldTriggerCalendar: flag,
			CalendarIntentReason:  reason,
		}, nil
	}

	s.logger.Warn(synthesizerModule, "Strict parse failed, attempting fallback recovery", map[string]interface{}{
		"error": parseErr.Error(),
		"raw":   snippet(raw, 500),
	})

	recovered, fbErr := Recover(cleaned)
	if fbErr != nil {
		s.logger.Error(synthesizerModule, "Fallback recovery failed", map[string]interface{}{"error": fbErr.Error()})
		return failed("output could not be parsed"), fmt.Errorf("%w: %w (fallback: %w)", ErrGenerationFailure, parseErr, fbErr)
	}

	s.logger.Info(synthesizerModule, "Roadmap recovered from malformed output", map[string]interface{}{
		"stages": len(recovered),
	})
	return Outcome{
		Kind:    OutcomeRecovered,
		Roadmap: recovered,
	}, nil
}

func parseStrict(cleaned string) (*synthesisPayload, error) {
	var payload synthesisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, err
	}
	if payload.TriggerCalendar == nil {
		return nil, errors.New("triggerCalendar is missing")
	}
	if err := Validate(payload.Roadmap); err != nil {
		return nil, err
	}
	return &payload, nil
}

func failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, FailureReason: reason}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// BuildSynthesisPrompt renders the roadmap prompt for a goal and the user's
// own words.
func BuildSynthesisPrompt(goal *GoalDescriptor, message string, depth PlanningDepth) string {
	goalBlock := fmt.Sprintf(constant.RoadmapGoalBlock,
		goal.Goal,
		joinOrNotSpecified(goal.Known),
		orNotSpecified(goal.ExperienceLevel),
		goal.EffectiveFormat(),
		orNotSpecified(goal.Timeframe),
		joinOrNotSpecified(goal.SpecificFocus),
	)
	return fmt.Sprintf(constant.RoadmapSynthesisPrompt, message, goalBlock, depthGuideline(depth))
}

func depthGuideline(depth PlanningDepth) string {
	switch depth {
	case DepthSprint:
		return constant.DepthSprintGuideline
	case DepthArchitect:
		return constant.DepthArchitectGuideline
	default:
		return constant.DepthStandardGuideline
	}
}

func orNotSpecified(s string) string {
	if s == "" {
		return NotSpecified
	}
	return s
}
