package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cridiv/Aedar/internal/dto"
	"github.com/cridiv/Aedar/internal/pkg/serverutils"
	"github.com/cridiv/Aedar/internal/service"
	"github.com/cridiv/Aedar/pkg/calendar"
	"github.com/cridiv/Aedar/pkg/roadmap"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoadmapService struct {
	resp *dto.GenerateRoadmapResponse
	err  error
	reqs []*dto.GenerateRoadmapRequest
}

func (s *stubRoadmapService) Generate(ctx context.Context, req *dto.GenerateRoadmapRequest) (*dto.GenerateRoadmapResponse, error) {
	s.reqs = append(s.reqs, req)
	return s.resp, s.err
}

type stubCalendarService struct {
	syncResp *dto.CalendarSyncResponse
	syncErr  error
	storeErr error
	userIDs  []string
}

func (s *stubCalendarService) AddRoadmapToCalendar(ctx context.Context, userID string, req *dto.AddRoadmapToCalendarRequest) (*dto.CalendarSyncResponse, error) {
	s.userIDs = append(s.userIDs, userID)
	return s.syncResp, s.syncErr
}

func (s *stubCalendarService) StoreCredentials(ctx context.Context, userID string, req *dto.StoreCredentialsRequest) error {
	s.userIDs = append(s.userIDs, userID)
	return s.storeErr
}

func (s *stubCalendarService) GetStatus(ctx context.Context, userID string) (*dto.CalendarStatusResponse, error) {
	s.userIDs = append(s.userIDs, userID)
	return &dto.CalendarStatusResponse{CalendarConnected: true}, nil
}

func fakeAuth(ctx *fiber.Ctx) error {
	ctx.Locals("user_id", "user-42")
	return ctx.Next()
}

func newTestApp(rs service.IRoadmapService, cs service.ICalendarService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewRoadmapController(rs).RegisterRoutes(api)
	NewCalendarController(cs).RegisterRoutes(api, fakeAuth)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, serverutils.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var out serverutils.Response
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return res.StatusCode, out, string(raw)
}

func TestChatReturnsRoadmap(t *testing.T) {
	rs := &stubRoadmapService{resp: &dto.GenerateRoadmapResponse{
		RequestId: uuid.New(),
		Roadmap:   roadmap.Roadmap{{ID: "s1", Title: "Basics"}},
	}}
	app := newTestApp(rs, &stubCalendarService{})

	code, out, raw := doJSON(t, app, "POST", "/api/chat", `{"userMessage":"learn rust","planningDepth":"sprint"}`)

	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, out.Success)
	assert.Contains(t, raw, `"shouldTriggerCalendar":false`)
	require.Len(t, rs.reqs, 1)
	assert.Equal(t, "learn rust", rs.reqs[0].UserMessage)
	assert.Equal(t, "sprint", rs.reqs[0].PlanningDepth)
}

func TestChatRejectsBadInput(t *testing.T) {
	rs := &stubRoadmapService{}
	app := newTestApp(rs, &stubCalendarService{})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"userMessage":`},
		{name: "missing message", body: `{}`},
		{name: "unknown depth", body: `{"userMessage":"x","planningDepth":"forever"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := doJSON(t, app, "POST", "/api/chat", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, code)
			assert.False(t, out.Success)
		})
	}
	assert.Empty(t, rs.reqs)
}

func TestChatMapsPipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "extraction", err: fmt.Errorf("%w: bad json", roadmap.ErrExtractionFailure), wantCode: fiber.StatusBadGateway},
		{name: "generation", err: fmt.Errorf("%w: no array", roadmap.ErrGenerationFailure), wantCode: fiber.StatusBadGateway},
		{name: "timeout", err: fmt.Errorf("%w: %w", roadmap.ErrGenerationFailure, context.DeadlineExceeded), wantCode: fiber.StatusGatewayTimeout},
		{name: "unexpected", err: fmt.Errorf("boom"), wantCode: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubRoadmapService{err: tt.err}, &stubCalendarService{})
			code, out, raw := doJSON(t, app, "POST", "/api/chat", `{"userMessage":"learn rust"}`)
			assert.Equal(t, tt.wantCode, code)
			assert.False(t, out.Success)
			assert.NotContains(t, raw, "bad json")
		})
	}
}

const calendarBody = `{"roadmap":[{"id":"s1","title":"Basics","description":"d","nodes":[]}],"startDate":"2024-01-01"}`

func TestAddRoadmapSuccess(t *testing.T) {
	cs := &stubCalendarService{syncResp: &dto.CalendarSyncResponse{
		Success:    true,
		EventCount: 1,
		Events: []dto.CreatedEventResponse{
			{Id: "evt-1", Link: "https://calendar.example/evt-1", Summary: "🚀 Start: Basics"},
		},
		Message: service.MessageCalendarAdded,
	}}
	app := newTestApp(&stubRoadmapService{}, cs)

	code, out, raw := doJSON(t, app, "POST", "/api/calendar/roadmap", calendarBody)
	assert.Contains(t, raw, `"link":"https://calendar.example/evt-1"`)

	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, out.Success)
	assert.Equal(t, service.MessageCalendarAdded, out.Message)
	assert.Equal(t, []string{"user-42"}, cs.userIDs)
}

func TestAddRoadmapErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		resp     *dto.CalendarSyncResponse
		err      error
		wantCode int
		wantData bool
	}{
		{name: "bad date", err: service.ErrInvalidStartDate, wantCode: fiber.StatusBadRequest},
		{name: "not connected", err: calendar.ErrMissingCredentials, wantCode: fiber.StatusForbidden},
		{
			name:     "auth expired mid delivery",
			resp:     &dto.CalendarSyncResponse{Skipped: 3},
			err:      calendar.ErrCalendarAuth,
			wantCode: fiber.StatusUnauthorized,
			wantData: true,
		},
		{
			name:     "partial delivery",
			resp:     &dto.CalendarSyncResponse{EventCount: 2},
			err:      calendar.ErrCalendarDelivery,
			wantCode: fiber.StatusBadGateway,
			wantData: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubRoadmapService{}, &stubCalendarService{syncResp: tt.resp, syncErr: tt.err})
			code, out, _ := doJSON(t, app, "POST", "/api/calendar/roadmap", calendarBody)
			assert.Equal(t, tt.wantCode, code)
			assert.False(t, out.Success)
			assert.Equal(t, tt.wantData, out.Data != nil)
		})
	}
}

func TestAddRoadmapRequiresStages(t *testing.T) {
	cs := &stubCalendarService{}
	app := newTestApp(&stubRoadmapService{}, cs)

	code, _, _ := doJSON(t, app, "POST", "/api/calendar/roadmap", `{"roadmap":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Empty(t, cs.userIDs)
}

func TestStoreCredentialsAndStatusRoutes(t *testing.T) {
	cs := &stubCalendarService{}
	app := newTestApp(&stubRoadmapService{}, cs)

	code, out, _ := doJSON(t, app, "PUT", "/api/calendar/credentials", `{"accessToken":"at","refreshToken":"rt"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.True(t, out.Success)

	code, _, _ = doJSON(t, app, "PUT", "/api/calendar/credentials", `{"refreshToken":"rt"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _, raw := doJSON(t, app, "GET", "/api/calendar/status", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, raw, `"calendar_connected":true`)

	cs.storeErr = calendar.ErrInvalidCredential
	code, _, _ = doJSON(t, app, "PUT", "/api/calendar/credentials", `{"accessToken":"at"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
