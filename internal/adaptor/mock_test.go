package adaptor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/usecase"
	"facetoface-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock BookingService ---

type mockBookingService struct {
	signupFn     func(ctx context.Context, req *usecase.SignupRequest) (*usecase.SignupResult, error)
	cancelFn     func(ctx context.Context, req *usecase.CancelRequest) (*entity.SignupStatus, error)
	approveFn    func(ctx context.Context, req *usecase.DecisionRequest) (*entity.SignupStatus, error)
	declineFn    func(ctx context.Context, req *usecase.DecisionRequest) (*entity.SignupStatus, error)
	batchFn      func(ctx context.Context, sessionID, actorID uuid.UUID, decisions map[uuid.UUID]bool) (*usecase.DecisionResult, error)
	attendanceFn func(ctx context.Context, sessionID, actorID uuid.UUID, attendance map[uuid.UUID]entity.StatusCode) (*usecase.AttendanceResult, error)
	setStatusFn  func(ctx context.Context, req *usecase.SetStatusRequest) (*entity.SignupStatus, error)
}

func (m *mockBookingService) Signup(ctx context.Context, req *usecase.SignupRequest) (*usecase.SignupResult, error) {
	return m.signupFn(ctx, req)
}
func (m *mockBookingService) Cancel(ctx context.Context, req *usecase.CancelRequest) (*entity.SignupStatus, error) {
	return m.cancelFn(ctx, req)
}
func (m *mockBookingService) ApproveRequest(ctx context.Context, req *usecase.DecisionRequest) (*entity.SignupStatus, error) {
	return m.approveFn(ctx, req)
}
func (m *mockBookingService) DeclineRequest(ctx context.Context, req *usecase.DecisionRequest) (*entity.SignupStatus, error) {
	return m.declineFn(ctx, req)
}
func (m *mockBookingService) ApproveRequests(ctx context.Context, sessionID, actorID uuid.UUID, decisions map[uuid.UUID]bool) (*usecase.DecisionResult, error) {
	return m.batchFn(ctx, sessionID, actorID, decisions)
}
func (m *mockBookingService) TakeAttendance(ctx context.Context, sessionID, actorID uuid.UUID, attendance map[uuid.UUID]entity.StatusCode) (*usecase.AttendanceResult, error) {
	return m.attendanceFn(ctx, sessionID, actorID, attendance)
}
func (m *mockBookingService) SetStatus(ctx context.Context, req *usecase.SetStatusRequest) (*entity.SignupStatus, error) {
	return m.setStatusFn(ctx, req)
}

// --- Mock SessionService ---

type mockSessionService struct {
	getFn           func(ctx context.Context, sessionID uuid.UUID, now time.Time) (*usecase.SessionView, error)
	listFn          func(ctx context.Context, activityID uuid.UUID, now time.Time) ([]usecase.SessionView, error)
	attendeesFn     func(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error)
	requestsFn      func(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error)
	cancellationsFn func(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error)
	historyFn       func(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error)
}

func (m *mockSessionService) GetSession(ctx context.Context, sessionID uuid.UUID, now time.Time) (*usecase.SessionView, error) {
	return m.getFn(ctx, sessionID, now)
}
func (m *mockSessionService) ListSessions(ctx context.Context, activityID uuid.UUID, now time.Time) ([]usecase.SessionView, error) {
	return m.listFn(ctx, activityID, now)
}
func (m *mockSessionService) ListAttendees(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error) {
	return m.attendeesFn(ctx, sessionID)
}
func (m *mockSessionService) ListRequests(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error) {
	return m.requestsFn(ctx, sessionID)
}
func (m *mockSessionService) ListCancellations(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error) {
	return m.cancellationsFn(ctx, sessionID)
}
func (m *mockSessionService) StatusHistory(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error) {
	return m.historyFn(ctx, signupID)
}

// --- Helpers ---

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// serve routes one request through chi so path parameters resolve, behind the
// actor middleware when actor is not nil.
func serve(t *testing.T, method, pattern, path string, handler http.HandlerFunc, actor *uuid.UUID, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	r := chi.NewRouter()
	if actor != nil {
		r.Use(middleware.Actor(zap.NewNop()))
	}
	r.Method(method, pattern, handler)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set(middleware.ActorHeader, actor.String())
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func statusRow(signupID uuid.UUID, code entity.StatusCode) *entity.SignupStatus {
	return &entity.SignupStatus{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		SignupID:   signupID,
		StatusCode: code,
	}
}
