package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cridiv/Aedar/pkg/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

type fakeGoogle struct {
	tokenStatus int
	tokenBody   string
	eventStatus int
	// rejectBearer gets a 401 from the events endpoint whatever eventStatus says.
	rejectBearer string

	refreshes   int
	inserts     int
	inserted    map[string]any
	lastBearer  string
	lastCalPath string
}

func (f *fakeGoogle) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		f.refreshes++
		w.Header().Set("Content-Type", "application/json")
		if f.tokenStatus == 0 {
			_, _ = fmt.Fprintf(w, `{"access_token":"fresh-%d","token_type":"Bearer","expires_in":3600}`, f.refreshes)
			return
		}
		w.WriteHeader(f.tokenStatus)
		_, _ = w.Write([]byte(f.tokenBody))
	})
	mux.HandleFunc("/calendar/v3/calendars/", func(w http.ResponseWriter, r *http.Request) {
		f.lastBearer = r.Header.Get("Authorization")
		f.lastCalPath = r.URL.Path
		f.inserts++
		w.Header().Set("Content-Type", "application/json")
		status := f.eventStatus
		if f.rejectBearer != "" && f.lastBearer == "Bearer "+f.rejectBearer {
			status = http.StatusUnauthorized
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"rejected"}}`, status)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&f.inserted)
		_, _ = w.Write([]byte(`{"id":"evt-1","htmlLink":"https://calendar.google.com/event?eid=evt-1","summary":"📚 Generics"}`))
	})
	return mux
}

func newTestSink(t *testing.T, f *fakeGoogle) *Sink {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint: oauth2.Endpoint{
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return NewSink(cfg, option.WithEndpoint(srv.URL+"/calendar/v3/"))
}

func testEvent() calendar.Event {
	start := time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)
	return calendar.Event{
		Summary:     "📚 Generics",
		Description: "Type parameters.\n\nResources:\n• Tour: https://go.dev/tour",
		Start:       start,
		End:         start.Add(calendar.NodeDuration),
		Reminders:   true,
	}
}

func insertOnce(t *testing.T, sink *Sink, cred calendar.Credential) (*calendar.CreatedEvent, error) {
	t.Helper()
	sess, err := sink.Open(context.Background(), cred)
	require.NoError(t, err)
	return sess.Insert(context.Background(), "primary", testEvent())
}

func TestInsertWithValidToken(t *testing.T) {
	f := &fakeGoogle{eventStatus: http.StatusOK}
	sink := newTestSink(t, f)

	cred := calendar.Credential{AccessToken: "live-token", Expiry: time.Now().Add(time.Hour)}
	created, err := insertOnce(t, sink, cred)
	require.NoError(t, err)

	assert.Equal(t, "evt-1", created.ID)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt-1", created.Link)
	assert.Equal(t, "Bearer live-token", f.lastBearer)
	assert.Equal(t, "/calendar/v3/calendars/primary/events", f.lastCalPath)
	assert.Zero(t, f.refreshes)

	assert.Equal(t, "📚 Generics", f.inserted["summary"])
	start := f.inserted["start"].(map[string]any)
	assert.Equal(t, "2024-01-02T09:00:00Z", start["dateTime"])
	reminders := f.inserted["reminders"].(map[string]any)
	assert.Equal(t, true, reminders["useDefault"])
}

func TestInsertRefreshesExpiredToken(t *testing.T) {
	f := &fakeGoogle{
		eventStatus: http.StatusOK,
		tokenStatus: http.StatusOK,
		tokenBody:   `{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`,
	}
	sink := newTestSink(t, f)

	cred := calendar.Credential{AccessToken: "stale", RefreshToken: "refresh", Expiry: time.Now().Add(-time.Hour)}
	_, err := insertOnce(t, sink, cred)
	require.NoError(t, err)

	assert.Equal(t, 1, f.refreshes)
	assert.Equal(t, "Bearer fresh-token", f.lastBearer)
}

func TestSessionRefreshesOncePerDelivery(t *testing.T) {
	f := &fakeGoogle{eventStatus: http.StatusOK}
	sink := newTestSink(t, f)

	cred := calendar.Credential{AccessToken: "stale", RefreshToken: "refresh", Expiry: time.Now().Add(-time.Hour)}
	sess, err := sink.Open(context.Background(), cred)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := sess.Insert(context.Background(), "primary", testEvent())
		require.NoError(t, err)
	}

	assert.Equal(t, 5, f.inserts)
	assert.Equal(t, 1, f.refreshes)

	updated := sess.Credential()
	assert.Equal(t, "fresh-1", updated.AccessToken)
	assert.Equal(t, "refresh", updated.RefreshToken)
	assert.True(t, updated.Expiry.After(time.Now()))
	assert.False(t, updated.Same(cred))
}

func TestSessionRefreshesTokenWithoutExpiry(t *testing.T) {
	f := &fakeGoogle{eventStatus: http.StatusOK, rejectBearer: "stale"}
	sink := newTestSink(t, f)

	cred := calendar.Credential{AccessToken: "stale", RefreshToken: "rt"}
	require.NoError(t, cred.Validate())

	created, err := insertOnce(t, sink, cred)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)
	assert.Equal(t, 1, f.refreshes)
	assert.Equal(t, "Bearer fresh-1", f.lastBearer)
}

func TestSessionRefreshesOnceAfterUnauthorized(t *testing.T) {
	f := &fakeGoogle{eventStatus: http.StatusOK, rejectBearer: "revoked-early"}
	sink := newTestSink(t, f)

	cred := calendar.Credential{AccessToken: "revoked-early", RefreshToken: "rt", Expiry: time.Now().Add(time.Hour)}
	sess, err := sink.Open(context.Background(), cred)
	require.NoError(t, err)

	_, err = sess.Insert(context.Background(), "primary", testEvent())
	require.NoError(t, err)
	assert.Equal(t, 1, f.refreshes)
	assert.Equal(t, 2, f.inserts)
	assert.Equal(t, "fresh-1", sess.Credential().AccessToken)
}

func TestSessionCredentialBeforeFirstInsert(t *testing.T) {
	sink := newTestSink(t, &fakeGoogle{eventStatus: http.StatusOK})

	cred := calendar.Credential{AccessToken: "at", RefreshToken: "rt"}
	sess, err := sink.Open(context.Background(), cred)
	require.NoError(t, err)
	assert.True(t, cred.Same(sess.Credential()))
}

func TestInsertClassifiesErrors(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		fake    *fakeGoogle
		cred    calendar.Credential
		wantErr error
	}{
		{
			name: "revoked refresh token",
			fake: &fakeGoogle{
				eventStatus: http.StatusOK,
				tokenStatus: http.StatusBadRequest,
				tokenBody:   `{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`,
			},
			cred:    calendar.Credential{AccessToken: "stale", RefreshToken: "revoked", Expiry: past},
			wantErr: calendar.ErrCalendarAuth,
		},
		{
			name:    "expired without refresh token",
			fake:    &fakeGoogle{eventStatus: http.StatusOK},
			cred:    calendar.Credential{AccessToken: "stale", Expiry: past},
			wantErr: calendar.ErrCalendarAuth,
		},
		{
			name:    "api rejects refreshed token too",
			fake:    &fakeGoogle{eventStatus: http.StatusUnauthorized},
			cred:    calendar.Credential{AccessToken: "bad", RefreshToken: "rt"},
			wantErr: calendar.ErrCalendarAuth,
		},
		{
			name:    "api rejects token that cannot be refreshed",
			fake:    &fakeGoogle{eventStatus: http.StatusUnauthorized},
			cred:    calendar.Credential{AccessToken: "bad", Expiry: time.Now().Add(time.Hour)},
			wantErr: calendar.ErrCalendarAuth,
		},
		{
			name:    "api server error",
			fake:    &fakeGoogle{eventStatus: http.StatusInternalServerError},
			cred:    calendar.Credential{AccessToken: "ok", RefreshToken: "rt"},
			wantErr: calendar.ErrCalendarDelivery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newTestSink(t, tt.fake)
			created, err := insertOnce(t, sink, tt.cred)

			assert.Nil(t, created)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewOAuthConfigUsesGoogleEndpoint(t *testing.T) {
	cfg := NewOAuthConfig("id", "secret", "http://localhost/callback")
	assert.Contains(t, cfg.Endpoint.TokenURL, "oauth2.googleapis.com")
	assert.NotEmpty(t, cfg.Scopes)
}
