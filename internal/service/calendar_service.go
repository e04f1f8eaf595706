package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cridiv/Aedar/internal/dto"
	"github.com/cridiv/Aedar/internal/pkg/logger"
	"github.com/cridiv/Aedar/pkg/calendar"
	"github.com/cridiv/Aedar/pkg/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const calendarModule = "CalendarService"

const (
	MessagePreviewReady  = "Preview ready. Confirm to create events."
	MessageCalendarAdded = "Roadmap added to your Google Calendar!"
)

// ErrInvalidStartDate is returned for a start date in neither accepted format.
var ErrInvalidStartDate = errors.New("startDate must be YYYY-MM-DD or RFC3339")

var calendarTracer = otel.Tracer("github.com/cridiv/Aedar/internal/service/calendar")

type CalendarOptions struct {
	DefaultCalendarID string
	PreviewSize       int
	DeliveryTimeout   time.Duration
}

type ICalendarService interface {
	AddRoadmapToCalendar(ctx context.Context, userID string, req *dto.AddRoadmapToCalendarRequest) (*dto.CalendarSyncResponse, error)
	StoreCredentials(ctx context.Context, userID string, req *dto.StoreCredentialsRequest) error
	GetStatus(ctx context.Context, userID string) (*dto.CalendarStatusResponse, error)
}

type calendarService struct {
	scheduler *calendar.Scheduler
	store     calendar.CredentialStore
	sink      calendar.Sink
	publisher events.Publisher
	logger    logger.ILogger
	options   CalendarOptions

	// one delivery per user at a time
	locksMu sync.Mutex
	locks   map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewCalendarService(
	scheduler *calendar.Scheduler,
	store calendar.CredentialStore,
	sink calendar.Sink,
	publisher events.Publisher,
	logger logger.ILogger,
	options CalendarOptions,
) ICalendarService {
	if options.DefaultCalendarID == "" {
		options.DefaultCalendarID = "primary"
	}
	if options.PreviewSize <= 0 {
		options.PreviewSize = 6
	}
	return &calendarService{
		scheduler: scheduler,
		store:     store,
		sink:      sink,
		publisher: publisher,
		logger:    logger,
		options:   options,
		locks:     make(map[string]*userLock),
	}
}

func (s *calendarService) AddRoadmapToCalendar(ctx context.Context, userID string, req *dto.AddRoadmapToCalendarRequest) (*dto.CalendarSyncResponse, error) {
	ctx, span := calendarTracer.Start(ctx, "CalendarService.AddRoadmapToCalendar")
	defer span.End()

	start, err := ParseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	calendarID := req.CalendarId
	if calendarID == "" {
		calendarID = s.options.DefaultCalendarID
	}
	span.SetAttributes(
		attribute.String("calendar.id", calendarID),
		attribute.Bool("calendar.dry_run", req.DryRun),
	)

	cred, err := s.loadCredential(ctx, userID)
	if err != nil {
		return nil, err
	}

	evts := s.scheduler.Schedule(req.Roadmap, start)

	if req.DryRun {
		return s.preview(evts), nil
	}

	unlock := s.lockUser(userID)
	defer unlock()

	resp, err := s.deliver(ctx, userID, calendarID, *cred, evts)
	span.SetAttributes(
		attribute.Int("calendar.created", len(resp.Events)),
		attribute.Int("calendar.failed", len(resp.Failed)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery incomplete")
	}

	s.publish(ctx, events.CalendarSynced(userID, calendarID, len(resp.Events), len(resp.Failed)+resp.Skipped))
	return resp, err
}

func (s *calendarService) preview(evts []calendar.Event) *dto.CalendarSyncResponse {
	n := min(len(evts), s.options.PreviewSize)
	items := make([]dto.CalendarPreviewItem, 0, n)
	for _, ev := range evts[:n] {
		items = append(items, dto.CalendarPreviewItem{
			Summary: ev.Summary,
			Date:    ev.Start.UTC().Format(time.DateOnly),
		})
	}
	return &dto.CalendarSyncResponse{
		Success:    true,
		DryRun:     true,
		EventCount: len(evts),
		Preview:    items,
		Message:    MessagePreviewReady,
	}
}

// deliver inserts events one at a time in order. A rejected credential stops
// delivery and the rest are counted as skipped; any other failure is recorded
// and delivery moves on.
func (s *calendarService) deliver(ctx context.Context, userID, calendarID string, cred calendar.Credential, evts []calendar.Event) (*dto.CalendarSyncResponse, error) {
	if s.options.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.options.DeliveryTimeout)
		defer cancel()
	}

	resp := &dto.CalendarSyncResponse{}

	sess, err := s.sink.Open(ctx, cred)
	if err != nil {
		s.logger.Error(calendarModule, "Failed to open calendar session", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		resp.Skipped = len(evts)
		resp.Error = fmt.Sprintf("%d of %d events could not be created", len(evts), len(evts))
		return resp, err
	}
	defer s.saveRefreshed(userID, cred, sess)

	var authErr error

	for i, ev := range evts {
		if ctx.Err() != nil {
			resp.Skipped = len(evts) - i
			break
		}

		created, err := sess.Insert(ctx, calendarID, ev)
		if err != nil {
			s.logger.Warn(calendarModule, "Failed to create calendar event", map[string]interface{}{
				"user_id": userID,
				"summary": ev.Summary,
				"error":   err.Error(),
			})
			if errors.Is(err, calendar.ErrCalendarAuth) {
				authErr = err
				resp.Failed = append(resp.Failed, dto.FailedEventResponse{Summary: ev.Summary, Error: calendar.ErrCalendarAuth.Error()})
				resp.Skipped = len(evts) - i - 1
				break
			}
			resp.Failed = append(resp.Failed, dto.FailedEventResponse{Summary: ev.Summary, Error: "failed to create event"})
			continue
		}

		resp.Events = append(resp.Events, dto.CreatedEventResponse{
			Id:      created.ID,
			Link:    created.Link,
			Summary: created.Summary,
		})
	}

	resp.EventCount = len(resp.Events)
	s.logger.Info(calendarModule, "Calendar delivery finished", map[string]interface{}{
		"user_id":     userID,
		"calendar_id": calendarID,
		"created":     len(resp.Events),
		"failed":      len(resp.Failed),
		"skipped":     resp.Skipped,
	})

	switch {
	case authErr != nil:
		resp.Error = calendar.ErrCalendarAuth.Error()
		return resp, authErr
	case len(resp.Failed) > 0 || resp.Skipped > 0:
		resp.Error = fmt.Sprintf("%d of %d events could not be created", len(resp.Failed)+resp.Skipped, len(evts))
		return resp, fmt.Errorf("%w: %s", calendar.ErrCalendarDelivery, resp.Error)
	}

	resp.Success = true
	resp.Message = MessageCalendarAdded
	return resp, nil
}

// saveRefreshed writes back a token the session refreshed, so the next
// delivery does not refresh it again.
func (s *calendarService) saveRefreshed(userID string, before calendar.Credential, sess calendar.Session) {
	after := sess.Credential()
	if after.Same(before) {
		return
	}

	// the delivery context may already be done
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Set(ctx, userID, after); err != nil {
		s.logger.Warn(calendarModule, "Failed to save refreshed calendar credentials", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}
	s.logger.Info(calendarModule, "Saved refreshed calendar credentials", map[string]interface{}{"user_id": userID})
}

func (s *calendarService) StoreCredentials(ctx context.Context, userID string, req *dto.StoreCredentialsRequest) error {
	cred := calendar.Credential{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	if req.Expiry != nil {
		cred.Expiry = *req.Expiry
	}
	if err := cred.Validate(); err != nil {
		return err
	}

	if err := s.store.Set(ctx, userID, cred); err != nil {
		s.logger.Error(calendarModule, "Failed to store calendar credentials", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return err
	}

	s.logger.Info(calendarModule, "Stored calendar credentials", map[string]interface{}{"user_id": userID})
	return nil
}

func (s *calendarService) GetStatus(ctx context.Context, userID string) (*dto.CalendarStatusResponse, error) {
	_, err := s.loadCredential(ctx, userID)
	if err != nil && !errors.Is(err, calendar.ErrMissingCredentials) {
		return nil, err
	}
	return &dto.CalendarStatusResponse{CalendarConnected: err == nil}, nil
}

// loadCredential reads the user's credential and rejects anything that
// could not authorize a request.
func (s *calendarService) loadCredential(ctx context.Context, userID string) (*calendar.Credential, error) {
	cred, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, calendar.ErrCredentialNotFound) {
			return nil, calendar.ErrMissingCredentials
		}
		s.logger.Error(calendarModule, "Failed to read calendar credentials", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	if err := cred.Validate(); err != nil {
		s.logger.Warn(calendarModule, "Stored calendar credential is unusable", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", calendar.ErrMissingCredentials, err)
	}
	if !cred.Usable(time.Now()) {
		return nil, fmt.Errorf("%w: access token expired and cannot be refreshed", calendar.ErrMissingCredentials)
	}
	return cred, nil
}

// lockUser serializes deliveries for one user. The lock is dropped from the
// map once nobody holds or waits for it.
func (s *calendarService) lockUser(userID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMu.Unlock()
	}
}

func (s *calendarService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(calendarModule, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// ParseStartDate accepts YYYY-MM-DD (midnight UTC) or RFC3339. Empty input
// yields nil, meaning "now".
func ParseStartDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidStartDate, value)
}
