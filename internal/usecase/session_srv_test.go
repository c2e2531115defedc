package usecase

import (
	"context"
	"testing"
	"time"

	"facetoface-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSession_DerivedState(t *testing.T) {
	f, session := approvalFixture(t, 2, false)
	ctx := context.Background()

	requested := f.signup(t, session.ID, uuid.New())
	approved := f.signup(t, session.ID, uuid.New())
	_, err := f.booking.ApproveRequest(ctx, &DecisionRequest{SessionID: session.ID, SignupID: approved.Signup.ID, ActorID: f.actor})
	require.NoError(t, err)
	waitlisted := f.signup(t, session.ID, uuid.New())
	_, err = f.booking.SetStatus(ctx, &SetStatusRequest{SignupID: waitlisted.Signup.ID, StatusCode: entity.StatusWaitlisted, ActorID: f.actor})
	require.NoError(t, err)

	view, err := f.sessions.GetSession(ctx, session.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, view.AttendeeCount, "booked and waitlisted are attendees, requested is not")
	assert.Equal(t, 1, view.BookedCount)
	assert.Equal(t, 1, view.SeatsRemaining)
	assert.Equal(t, CapacityOpen, view.Capacity)
	assert.Equal(t, LifecycleNotStarted, view.Lifecycle)

	_, err = f.booking.ApproveRequest(ctx, &DecisionRequest{SessionID: session.ID, SignupID: requested.Signup.ID, ActorID: f.actor})
	require.NoError(t, err)

	view, err = f.sessions.GetSession(ctx, session.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, view.BookedCount)
	assert.Equal(t, 0, view.SeatsRemaining)
	assert.Equal(t, CapacityFull, view.Capacity)
}

func TestGetSession_NotFound(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.sessions.GetSession(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions_OrderAndSort(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()

	later := f.addSession(t, 5, false, upcoming())
	current := f.addSession(t, 5, false, running())
	waitlist := f.addSession(t, 5, false)
	finished := f.addSession(t, 5, false, entity.SessionDate{
		Start:  time.Now().Add(-72 * time.Hour),
		Finish: time.Now().Add(-70 * time.Hour),
	})

	views, err := f.sessions.ListSessions(ctx, f.activity.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, views, 4)

	ids := make([]uuid.UUID, len(views))
	for i, v := range views {
		ids[i] = v.Session.ID
	}
	assert.Equal(t, []uuid.UUID{waitlist.ID, finished.ID, current.ID, later.ID}, ids)

	sorted := SortSessions(views)
	require.Len(t, sorted.InProgress, 1)
	assert.Equal(t, current.ID, sorted.InProgress[0].Session.ID)
	require.Len(t, sorted.Previous, 1)
	assert.Equal(t, finished.ID, sorted.Previous[0].Session.ID)
	assert.Len(t, sorted.Upcoming, 2)
}

func TestListAttendeesRequestsCancellations(t *testing.T) {
	f, session := approvalFixture(t, 5, false)
	ctx := context.Background()

	pending := f.signup(t, session.ID, uuid.New())
	booked := f.signup(t, session.ID, uuid.New())
	_, err := f.booking.ApproveRequest(ctx, &DecisionRequest{SessionID: session.ID, SignupID: booked.Signup.ID, ActorID: f.actor})
	require.NoError(t, err)

	leaverID := uuid.New()
	leaver := f.signup(t, session.ID, leaverID)
	_, err = f.booking.Cancel(ctx, &CancelRequest{SessionID: session.ID, UserID: leaverID, ActorID: leaverID, Reason: "moved"})
	require.NoError(t, err)

	attendees, err := f.sessions.ListAttendees(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, booked.Signup.ID, attendees[0].Signup.ID)
	assert.Equal(t, entity.StatusBooked, attendees[0].Status.StatusCode)

	requests, err := f.sessions.ListRequests(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, pending.Signup.ID, requests[0].Signup.ID)

	cancellations, err := f.sessions.ListCancellations(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, cancellations, 1)
	assert.Equal(t, leaver.Signup.ID, cancellations[0].Signup.ID)
	assert.Equal(t, "moved", cancellations[0].Status.Note)

	_, err = f.sessions.ListAttendees(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStatusHistory(t *testing.T) {
	f := defaultFixture(t)
	ctx := context.Background()
	session := f.addSession(t, 5, false, upcoming())
	userID := uuid.New()

	res := f.signup(t, session.ID, userID)
	_, err := f.booking.Cancel(ctx, &CancelRequest{SessionID: session.ID, UserID: userID, ActorID: userID})
	require.NoError(t, err)

	history, err := f.sessions.StatusHistory(ctx, res.Signup.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.StatusBooked, history[0].StatusCode)
	assert.True(t, history[0].Superseded)
	assert.Equal(t, entity.StatusUserCancelled, history[1].StatusCode)
	assert.False(t, history[1].Superseded)

	_, err = f.sessions.StatusHistory(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSignupNotFound)
}
