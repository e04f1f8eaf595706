package calendar

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cridiv/Aedar/pkg/roadmap"
)

const (
	KickoffDuration = 120 * time.Minute
	NodeDuration    = 90 * time.Minute

	// StageGapDays is added to the node count of a stage to get the number of
	// days between two stage kickoffs.
	StageGapDays = 10

	MinNodeOffsetDays = 1
	MaxNodeOffsetDays = 5

	KickoffPrefix = "🚀 Start: "
	NodePrefix    = "📚 "
)

// OffsetFunc returns how many days after a stage kickoff a node starts. It
// must return a value in [MinNodeOffsetDays, MaxNodeOffsetDays].
type OffsetFunc func() int

// RandomOffset draws offsets uniformly from r. A nil r uses the global source.
func RandomOffset(r *rand.Rand) OffsetFunc {
	span := MaxNodeOffsetDays - MinNodeOffsetDays + 1
	if r == nil {
		return func() int { return MinNodeOffsetDays + rand.IntN(span) }
	}
	return func() int { return MinNodeOffsetDays + r.IntN(span) }
}

// FixedOffset always returns days, clamped to the allowed range.
func FixedOffset(days int) OffsetFunc {
	days = min(max(days, MinNodeOffsetDays), MaxNodeOffsetDays)
	return func() int { return days }
}

type Scheduler struct {
	offset OffsetFunc
	now    func() time.Time
}

type SchedulerOption func(*Scheduler)

func WithOffset(fn OffsetFunc) SchedulerOption {
	return func(s *Scheduler) {
		s.offset = fn
	}
}

func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

func NewScheduler(opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		offset: RandomOffset(nil),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule lays the roadmap out on a calendar starting at start, or now when
// start is nil. For every stage it emits a kickoff event followed by one
// event per node. The roadmap is only read.
func (s *Scheduler) Schedule(r roadmap.Roadmap, start *time.Time) []Event {
	cursor := s.now()
	if start != nil {
		cursor = *start
	}

	events := make([]Event, 0, len(r)+r.NodeCount())
	for _, stage := range r {
		events = append(events, Event{
			Summary:     KickoffPrefix + stage.Title,
			Description: stage.Description,
			Start:       cursor,
			End:         cursor.Add(KickoffDuration),
			Reminders:   true,
		})

		for _, node := range stage.Nodes {
			nodeStart := cursor.AddDate(0, 0, s.offset())
			events = append(events, Event{
				Summary:     NodePrefix + node.Title,
				Description: nodeDescription(node),
				Start:       nodeStart,
				End:         nodeStart.Add(NodeDuration),
				Reminders:   true,
			})
		}

		cursor = cursor.AddDate(0, 0, StageGapDays+len(stage.Nodes))
	}
	return events
}

func nodeDescription(node roadmap.Node) string {
	var b strings.Builder
	b.WriteString(node.Description)
	b.WriteString("\n\nResources:")
	for _, res := range node.Resources {
		fmt.Fprintf(&b, "\n• %s: %s", res.Title, res.Link)
	}
	return b.String()
}
