package usecase

import (
	"context"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionView is a session with its derived state computed at read time.
type SessionView struct {
	Session *entity.Session
	// AttendeeCount counts signups at approved or later; BookedCount those at booked or later.
	AttendeeCount  int
	BookedCount    int
	Lifecycle      LifecycleStatus
	Capacity       CapacityStatus
	SeatsRemaining int
}

// SortedSessions groups sessions for display. Sessions without dates are upcoming.
type SortedSessions struct {
	InProgress []SessionView
	Upcoming   []SessionView
	Previous   []SessionView
}

type SessionService interface {
	GetSession(ctx context.Context, sessionID uuid.UUID, now time.Time) (*SessionView, error)
	ListSessions(ctx context.Context, activityID uuid.UUID, now time.Time) ([]SessionView, error)
	ListAttendees(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error)
	ListRequests(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error)
	ListCancellations(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error)
	StatusHistory(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error)
}

type sessionService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSessionService(repo *repository.Repository, log *zap.Logger) SessionService {
	return &sessionService{
		repo: repo,
		log:  log.With(zap.String("service", "session")),
	}
}

func (s *sessionService) GetSession(ctx context.Context, sessionID uuid.UUID, now time.Time) (*SessionView, error) {
	session, err := s.repo.Session.FindByID(ctx, sessionID)
	if err != nil {
		return nil, persistence("find session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	view, err := s.view(ctx, session, now)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *sessionService) ListSessions(ctx context.Context, activityID uuid.UUID, now time.Time) ([]SessionView, error) {
	sessions, err := s.repo.Session.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, persistence("list sessions", err)
	}

	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		view, err := s.view(ctx, session, now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *sessionService) view(ctx context.Context, session *entity.Session, now time.Time) (SessionView, error) {
	attendees, err := s.repo.Status.CountActive(ctx, session.ID, entity.StatusApproved)
	if err != nil {
		return SessionView{}, persistence("count attendees", err)
	}
	booked, err := s.repo.Status.CountActive(ctx, session.ID, entity.StatusBooked)
	if err != nil {
		return SessionView{}, persistence("count bookings", err)
	}

	return SessionView{
		Session:        session,
		AttendeeCount:  attendees,
		BookedCount:    booked,
		Lifecycle:      ComputeLifecycleStatus(session, now),
		Capacity:       ComputeCapacityStatus(booked, session.Capacity, session.AllowOverbook),
		SeatsRemaining: seatsRemaining(booked, session.Capacity),
	}, nil
}

func (s *sessionService) ListAttendees(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error) {
	return s.list(ctx, sessionID, nil, entity.StatusApproved)
}

func (s *sessionService) ListRequests(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error) {
	return s.list(ctx, sessionID, []entity.StatusCode{entity.StatusRequested}, 0)
}

func (s *sessionService) ListCancellations(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error) {
	return s.list(ctx, sessionID, []entity.StatusCode{entity.StatusUserCancelled}, 0)
}

func (s *sessionService) list(ctx context.Context, sessionID uuid.UUID, codes []entity.StatusCode, minStatus entity.StatusCode) ([]entity.Attendee, error) {
	session, err := s.repo.Session.FindByID(ctx, sessionID)
	if err != nil {
		return nil, persistence("find session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	attendees, err := s.repo.Status.ListBySessionAndStatus(ctx, sessionID, codes, minStatus)
	if err != nil {
		return nil, persistence("list signups", err)
	}
	if attendees == nil {
		attendees = []entity.Attendee{}
	}
	return attendees, nil
}

func (s *sessionService) StatusHistory(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error) {
	signup, err := s.repo.Signup.FindByID(ctx, signupID)
	if err != nil {
		return nil, persistence("find signup", err)
	}
	if signup == nil {
		return nil, ErrSignupNotFound
	}

	history, err := s.repo.Status.History(ctx, signupID)
	if err != nil {
		return nil, persistence("status history", err)
	}
	return history, nil
}

func SortSessions(views []SessionView) SortedSessions {
	var sorted SortedSessions
	for _, v := range views {
		switch v.Lifecycle {
		case LifecycleFinished:
			sorted.Previous = append(sorted.Previous, v)
		case LifecycleInProgress:
			sorted.InProgress = append(sorted.InProgress, v)
		default:
			sorted.Upcoming = append(sorted.Upcoming, v)
		}
	}
	return sorted
}

// BookingStatusOptions lists selectable codes in lifecycle order. When taking
// attendance only the outcomes after booked are offered.
func BookingStatusOptions(takeAttendance bool) []entity.StatusCode {
	var options []entity.StatusCode
	for _, code := range entity.AllStatusCodes() {
		if takeAttendance && code.Compare(entity.StatusBooked) <= 0 {
			continue
		}
		options = append(options, code)
	}
	return options
}
