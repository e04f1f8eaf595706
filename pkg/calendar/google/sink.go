// Package google delivers calendar events to Google Calendar.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cridiv/Aedar/pkg/calendar"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Sink inserts events through the Calendar v3 API. Access tokens are
// refreshed with the configured OAuth client when they have expired.
type Sink struct {
	oauth   *oauth2.Config
	options []option.ClientOption
}

// NewOAuthConfig builds the OAuth client used for token refresh.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     googleOAuth.Endpoint,
		Scopes:       []string{gcal.CalendarEventsScope},
	}
}

// NewSink returns a Sink. Extra client options are appended to every service
// it builds; tests use them to point it at a local server.
func NewSink(oauth *oauth2.Config, opts ...option.ClientOption) *Sink {
	return &Sink{oauth: oauth, options: opts}
}

// Open builds one Calendar client for cred. Its token source refreshes at
// most once per expiry, however many events the session inserts.
func (s *Sink) Open(ctx context.Context, cred calendar.Credential) (calendar.Session, error) {
	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
		TokenType:    "Bearer",
	}
	// A zero expiry never expires in oauth2; refresh up front when we can.
	if token.Expiry.IsZero() && token.RefreshToken != "" {
		token.Expiry = time.Now().Add(-time.Minute)
	}

	src := &refreshingSource{conf: s.oauth, ctx: ctx}
	src.reset(token)

	opts := append([]option.ClientOption{option.WithTokenSource(src)}, s.options...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", calendar.ErrCalendarDelivery, err)
	}

	return &session{svc: svc, src: src, original: cred}, nil
}

type session struct {
	svc      *gcal.Service
	src      *refreshingSource
	original calendar.Credential
	retried  bool
}

func (s *session) Insert(ctx context.Context, calendarID string, event calendar.Event) (*calendar.CreatedEvent, error) {
	created, err := s.svc.Events.Insert(calendarID, toGoogleEvent(event)).Context(ctx).Do()
	// The API can reject an access token before its expiry; refresh once
	// per session and try again.
	if err != nil && isUnauthorized(err) && !s.retried && s.src.invalidate() {
		s.retried = true
		created, err = s.svc.Events.Insert(calendarID, toGoogleEvent(event)).Context(ctx).Do()
	}
	if err != nil {
		return nil, classifyError(err)
	}

	return &calendar.CreatedEvent{
		ID:      created.Id,
		Link:    created.HtmlLink,
		Summary: created.Summary,
	}, nil
}

// Credential returns the grant the session currently holds, refreshed or not.
func (s *session) Credential() calendar.Credential {
	t := s.src.current()
	if t == nil {
		return s.original
	}
	return calendar.Credential{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// refreshingSource is a reusable token source that can be told to drop its
// cached access token.
type refreshingSource struct {
	conf *oauth2.Config
	ctx  context.Context

	mu   sync.Mutex
	src  oauth2.TokenSource
	last *oauth2.Token
}

func (r *refreshingSource) reset(t *oauth2.Token) {
	r.src = r.conf.TokenSource(r.ctx, t)
}

func (r *refreshingSource) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.src.Token()
	if err != nil {
		return nil, err
	}
	r.last = t
	return t, nil
}

func (r *refreshingSource) current() *oauth2.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// invalidate forces the next Token call to refresh. It reports false when
// there is no refresh token to do that with.
func (r *refreshingSource) invalidate() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last == nil || r.last.RefreshToken == "" {
		return false
	}
	stale := *r.last
	stale.Expiry = time.Now().Add(-time.Minute)
	r.reset(&stale)
	return true
}

func toGoogleEvent(event calendar.Event) *gcal.Event {
	return &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
		},
		Reminders: &gcal.EventReminders{
			UseDefault: event.Reminders,
		},
	}
}

// classifyError separates rejected credentials from other delivery failures.
func classifyError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.ErrorCode == "invalid_grant" || isAuthStatus(retrieveErr.Response) {
			return fmt.Errorf("%w: %w", calendar.ErrCalendarAuth, err)
		}
		return fmt.Errorf("%w: %w", calendar.ErrCalendarDelivery, err)
	}

	if isUnauthorized(err) {
		return fmt.Errorf("%w: %w", calendar.ErrCalendarAuth, err)
	}

	if strings.Contains(err.Error(), "token expired and refresh token is not set") {
		return fmt.Errorf("%w: %w", calendar.ErrCalendarAuth, err)
	}
	return fmt.Errorf("%w: %w", calendar.ErrCalendarDelivery, err)
}

func isUnauthorized(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized
}

func isAuthStatus(resp *http.Response) bool {
	return resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest)
}
