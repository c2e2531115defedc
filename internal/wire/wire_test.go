package wire

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/data/repository/memory"
	"facetoface-booking/pkg/middleware"
	"facetoface-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*App, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	config := &utils.Config{Booking: utils.BookingConfig{EnableApprovals: true}}
	return Wiring(store.Repository(), nil, config, zap.NewNop()), store
}

func seedSession(t *testing.T, store *memory.Store, capacity int) *entity.Session {
	t.Helper()
	return seedSessionAt(t, store, capacity, time.Now().Add(72*time.Hour))
}

func seedSessionAt(t *testing.T, store *memory.Store, capacity int, start time.Time) *entity.Session {
	t.Helper()

	ctx := t.Context()
	repo := store.Repository()
	activity := &entity.Activity{Base: entity.Base{ID: uuid.New()}, Name: "First aid"}
	require.NoError(t, repo.Activity.Create(ctx, activity))

	session := &entity.Session{
		Base:       entity.Base{ID: uuid.New()},
		ActivityID: activity.ID,
		Capacity:   capacity,
		DatesKnown: true,
		Dates:      []entity.SessionDate{{ID: uuid.New(), Start: start, Finish: start.Add(3 * time.Hour)}},
	}
	require.NoError(t, repo.Session.Create(ctx, session))
	return session
}

func do(t *testing.T, app *App, method, path string, actor *uuid.UUID, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if actor != nil {
		req.Header.Set(middleware.ActorHeader, actor.String())
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestRouter_Health(t *testing.T) {
	app, _ := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_SignupThenCancelFlow(t *testing.T) {
	app, store := newTestApp(t)
	session := seedSession(t, store, 1)
	first, second := uuid.New(), uuid.New()
	base := "/api/sessions/" + session.ID.String()

	code, env := do(t, app, http.MethodPost, base+"/signup", &first, "")
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Contains(t, string(env.Data), `"status":"booked"`)

	code, env = do(t, app, http.MethodPost, base+"/signup", &second, "")
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Contains(t, string(env.Data), `"status":"waitlisted"`)

	code, _ = do(t, app, http.MethodPost, base+"/signup", &first, "")
	assert.Equal(t, http.StatusConflict, code)

	code, env = do(t, app, http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"capacity_status":"full"`)
	assert.Contains(t, string(env.Data), `"booked_count":1`)

	code, _ = do(t, app, http.MethodPost, base+"/cancel", &first, `{"reason":"sick"}`)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, app, http.MethodGet, base+"/cancellations", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), first.String())

	code, env = do(t, app, http.MethodGet, base+"/attendees", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":1`)
}

func TestRouter_ActorRequiredForWrites(t *testing.T) {
	app, store := newTestApp(t)
	session := seedSession(t, store, 5)

	code, _ := do(t, app, http.MethodPost, "/api/sessions/"+session.ID.String()+"/signup", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, app, http.MethodGet, "/api/sessions/"+session.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_ReadAndWriteShareRequestsPath(t *testing.T) {
	app, store := newTestApp(t)
	session := seedSession(t, store, 5)
	actor := uuid.New()
	path := "/api/sessions/" + session.ID.String() + "/requests"

	code, _ := do(t, app, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, app, http.MethodPost, path, &actor, `{"decisions":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_AttendanceSkipsNonAttendanceStatus(t *testing.T) {
	app, store := newTestApp(t)
	session := seedSessionAt(t, store, 5, time.Now().Add(-time.Hour))
	base := "/api/sessions/" + session.ID.String()
	trainer := uuid.New()

	signupIDs := make([]uuid.UUID, 2)
	for i := range signupIDs {
		user := uuid.New()
		code, env := do(t, app, http.MethodPost, base+"/signup", &user, "")
		require.Equal(t, http.StatusCreated, code, env.Message)

		var signup struct {
			ID uuid.UUID `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &signup))
		signupIDs[i] = signup.ID
	}
	attended, untouched := signupIDs[0], signupIDs[1]

	body := `{"attendance":[{"signup_id":"` + attended.String() + `","status":"fully_attended"},` +
		`{"signup_id":"` + untouched.String() + `","status":"requested"}]}`
	code, env := do(t, app, http.MethodPost, base+"/attendance", &trainer, body)
	require.Equal(t, http.StatusOK, code, env.Message)

	var result struct {
		Updated []uuid.UUID `json:"updated"`
		Skipped []uuid.UUID `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, []uuid.UUID{attended}, result.Updated)
	assert.Equal(t, []uuid.UUID{untouched}, result.Skipped)

	repo := store.Repository()
	current, err := repo.Status.FindCurrent(t.Context(), attended)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFullyAttended, current.StatusCode)

	current, err = repo.Status.FindCurrent(t.Context(), untouched)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusBooked, current.StatusCode)
}
