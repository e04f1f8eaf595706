package dto

import (
	"time"

	"github.com/cridiv/Aedar/pkg/roadmap"
)

type AddRoadmapToCalendarRequest struct {
	Roadmap    roadmap.Roadmap `json:"roadmap" validate:"required,min=1"`
	CalendarId string          `json:"calendarId" validate:"omitempty,max=255"`
	// StartDate is YYYY-MM-DD or RFC3339. Empty means now.
	StartDate string `json:"startDate"`
	DryRun    bool   `json:"dryRun"`
}

type CalendarPreviewItem struct {
	Summary string `json:"summary"`
	Date    string `json:"date"`
}

type CreatedEventResponse struct {
	Id      string `json:"id"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
}

type FailedEventResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

type CalendarSyncResponse struct {
	Success    bool                   `json:"success"`
	DryRun     bool                   `json:"dryRun,omitempty"`
	EventCount int                    `json:"eventCount"`
	Preview    []CalendarPreviewItem  `json:"preview,omitempty"`
	Events     []CreatedEventResponse `json:"events,omitempty"`
	Failed     []FailedEventResponse  `json:"failed,omitempty"`
	Skipped    int                    `json:"skipped,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

type StoreCredentialsRequest struct {
	AccessToken  string     `json:"accessToken" validate:"required"`
	RefreshToken string     `json:"refreshToken"`
	Expiry       *time.Time `json:"expiry"`
}

type CalendarStatusResponse struct {
	CalendarConnected bool `json:"calendar_connected"`
}
