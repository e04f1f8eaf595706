package calendar

import "time"

// Event is a calendar entry derived from a roadmap. It is never persisted by
// this package; a Sink turns it into a real calendar entry.
type Event struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Reminders   bool      `json:"reminders"`
}

// CreatedEvent is what a Sink reports back for an inserted event.
type CreatedEvent struct {
	ID      string `json:"id"`
	Link    string `json:"link"`
	Summary string `json:"summary"`
}
