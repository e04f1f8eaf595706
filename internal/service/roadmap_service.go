package service

import (
	"context"
	"time"

	"github.com/cridiv/Aedar/internal/dto"
	"github.com/cridiv/Aedar/internal/pkg/logger"
	"github.com/cridiv/Aedar/pkg/events"
	"github.com/cridiv/Aedar/pkg/roadmap"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const roadmapModule = "RoadmapService"

var roadmapTracer = otel.Tracer("github.com/cridiv/Aedar/internal/service/roadmap")

type GoalExtractor interface {
	Extract(ctx context.Context, message string) (*roadmap.GoalDescriptor, error)
}

type RoadmapSynthesizer interface {
	Synthesize(ctx context.Context, req roadmap.SynthesisRequest) (roadmap.Outcome, error)
}

// IRoadmapService runs the message → goal → roadmap pipeline.
type IRoadmapService interface {
	Generate(ctx context.Context, req *dto.GenerateRoadmapRequest) (*dto.GenerateRoadmapResponse, error)
}

type roadmapService struct {
	extractor   GoalExtractor
	synthesizer RoadmapSynthesizer
	publisher   events.Publisher
	logger      logger.ILogger
	timeout     time.Duration
}

// NewRoadmapService wires the pipeline. timeout bounds each generation call;
// zero leaves them bounded only by the caller's context. publisher may be nil.
func NewRoadmapService(
	extractor GoalExtractor,
	synthesizer RoadmapSynthesizer,
	publisher events.Publisher,
	logger logger.ILogger,
	timeout time.Duration,
) IRoadmapService {
	return &roadmapService{
		extractor:   extractor,
		synthesizer: synthesizer,
		publisher:   publisher,
		logger:      logger,
		timeout:     timeout,
	}
}

func (s *roadmapService) Generate(ctx context.Context, req *dto.GenerateRoadmapRequest) (*dto.GenerateRoadmapResponse, error) {
	requestID := uuid.New()
	ctx, span := roadmapTracer.Start(ctx, "RoadmapService.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", requestID.String()),
		attribute.String("planning.depth", req.PlanningDepth),
	)

	s.logger.Info(roadmapModule, "Roadmap requested", map[string]interface{}{
		"request_id": requestID.String(),
		"depth":      req.PlanningDepth,
	})

	goal, err := s.extract(ctx, req.UserMessage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.logger.Error(roadmapModule, "Goal extraction failed", map[string]interface{}{
			"request_id": requestID.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	outcome, err := s.synthesize(ctx, roadmap.SynthesisRequest{
		Goal:    goal,
		Message: req.UserMessage,
		Depth:   roadmap.PlanningDepth(req.PlanningDepth),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis failed")
		s.logger.Error(roadmapModule, "Roadmap synthesis failed", map[string]interface{}{
			"request_id": requestID.String(),
			"reason":     outcome.FailureReason,
			"error":      err.Error(),
		})
		return nil, err
	}

	span.SetAttributes(
		attribute.String("roadmap.outcome", string(outcome.Kind)),
		attribute.Int("roadmap.stages", len(outcome.Roadmap)),
		attribute.Bool("roadmap.calendar", outcome.ShouldTriggerCalendar),
	)
	s.logger.Info(roadmapModule, "Roadmap generated", map[string]interface{}{
		"request_id": requestID.String(),
		"outcome":    string(outcome.Kind),
		"stages":     len(outcome.Roadmap),
		"nodes":      outcome.Roadmap.NodeCount(),
		"calendar":   outcome.ShouldTriggerCalendar,
	})

	s.publish(ctx, events.RoadmapGenerated(
		requestID.String(),
		string(outcome.Kind),
		len(outcome.Roadmap),
		outcome.Roadmap.NodeCount(),
		outcome.ShouldTriggerCalendar,
	))

	return &dto.GenerateRoadmapResponse{
		RequestId:             requestID,
		Roadmap:               outcome.Roadmap,
		ShouldTriggerCalendar: outcome.ShouldTriggerCalendar,
		CalendarIntentReason:  outcome.CalendarIntentReason,
		Recovered:             outcome.Kind == roadmap.OutcomeRecovered,
	}, nil
}

func (s *roadmapService) extract(ctx context.Context, message string) (*roadmap.GoalDescriptor, error) {
	ctx, span := roadmapTracer.Start(ctx, "IntentExtractor.Extract")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.extractor.Extract(ctx, message)
}

func (s *roadmapService) synthesize(ctx context.Context, req roadmap.SynthesisRequest) (roadmap.Outcome, error) {
	ctx, span := roadmapTracer.Start(ctx, "RoadmapSynthesizer.Synthesize")
	defer span.End()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.synthesizer.Synthesize(ctx, req)
}

func (s *roadmapService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *roadmapService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(roadmapModule, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
