package dto

import (
	"github.com/cridiv/Aedar/pkg/roadmap"

	"github.com/google/uuid"
)

type GenerateRoadmapRequest struct {
	UserMessage   string `json:"userMessage" validate:"required,max=4000"`
	PlanningDepth string `json:"planningDepth" validate:"omitempty,oneof=sprint standard architect"`
}

type GenerateRoadmapResponse struct {
	RequestId             uuid.UUID       `json:"requestId"`
	Roadmap               roadmap.Roadmap `json:"roadmap"`
	ShouldTriggerCalendar bool            `json:"shouldTriggerCalendar"`
	CalendarIntentReason  string          `json:"calendarIntentReason,omitempty"`
	// Recovered marks a roadmap salvaged from malformed model output. It has
	// not been checked against the roadmap contract.
	Recovered bool `json:"recovered"`
}
