package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/data/repository"
	"facetoface-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GradeSink persists attendance grades for completion tracking.
type GradeSink interface {
	RecordGrade(ctx context.Context, signupID, userID uuid.UUID, grade int, actorID uuid.UUID) error
}

type SignupRequest struct {
	SessionID        uuid.UUID               `validate:"required"`
	UserID           uuid.UUID               `validate:"required"`
	ActorID          uuid.UUID               `validate:"required"`
	DiscountCode     *string                 `validate:"omitempty,max=255"`
	NotificationType entity.NotificationType `validate:"omitempty,oneof=email ical both"`
	// RequestedStatus overrides the computed initial status. Only requested,
	// waitlisted and booked are accepted; booked still respects capacity.
	RequestedStatus *entity.StatusCode
}

type CancelRequest struct {
	SessionID uuid.UUID `validate:"required"`
	UserID    uuid.UUID `validate:"required"`
	ActorID   uuid.UUID `validate:"required"`
	Reason    string    `validate:"max=255"`
}

type DecisionRequest struct {
	SessionID uuid.UUID `validate:"required"`
	SignupID  uuid.UUID `validate:"required"`
	ActorID   uuid.UUID `validate:"required"`
	// RequireSeat makes approval fail with ErrSessionAtCapacity instead of
	// falling back to the waitlist.
	RequireSeat bool
}

type SetStatusRequest struct {
	SignupID   uuid.UUID         `validate:"required"`
	StatusCode entity.StatusCode `validate:"required"`
	ActorID    uuid.UUID         `validate:"required"`
	Note       string
	Grade      *int `validate:"omitempty,min=0,max=100"`
}

type SignupResult struct {
	Signup *entity.Signup
	Status *entity.SignupStatus
}

type BookingService interface {
	Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error)
	Cancel(ctx context.Context, req *CancelRequest) (*entity.SignupStatus, error)
	ApproveRequest(ctx context.Context, req *DecisionRequest) (*entity.SignupStatus, error)
	DeclineRequest(ctx context.Context, req *DecisionRequest) (*entity.SignupStatus, error)
	// ApproveRequests applies approve (true) or decline (false) per signup, best effort.
	ApproveRequests(ctx context.Context, sessionID, actorID uuid.UUID, decisions map[uuid.UUID]bool) (*DecisionResult, error)
	TakeAttendance(ctx context.Context, sessionID, actorID uuid.UUID, attendance map[uuid.UUID]entity.StatusCode) (*AttendanceResult, error)
	SetStatus(ctx context.Context, req *SetStatusRequest) (*entity.SignupStatus, error)
}

type bookingService struct {
	repo      *repository.Repository
	grades    GradeSink
	publisher EventPublisher
	config    utils.BookingConfig
	now       func() time.Time
	log       *zap.Logger
}

// NewBookingService wires the engine. publisher may be nil.
func NewBookingService(repo *repository.Repository, grades GradeSink, publisher EventPublisher, config utils.BookingConfig, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		grades:    grades,
		publisher: publisher,
		config:    config,
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) validate(op string, req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn(op+" validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	return nil
}

func (s *bookingService) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	if err := s.validate("Signup", req); err != nil {
		return nil, err
	}
	if req.RequestedStatus != nil {
		switch *req.RequestedStatus {
		case entity.StatusRequested, entity.StatusWaitlisted, entity.StatusBooked:
		default:
			return nil, fmt.Errorf("%w: cannot sign up as %s", ErrInvalidStatus, *req.RequestedStatus)
		}
	}

	notification := req.NotificationType
	if notification == "" {
		notification = entity.NotificationEmail
	}

	var result SignupResult
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		session, err := tx.Session.FindByIDForUpdate(ctx, req.SessionID)
		if err != nil {
			return persistence("lock session", err)
		}
		if session == nil {
			return ErrSessionNotFound
		}

		activity, err := tx.Activity.FindByID(ctx, session.ActivityID)
		if err != nil {
			return persistence("find activity", err)
		}
		if activity == nil {
			return fmt.Errorf("activity %s of session %s: %w", session.ActivityID, session.ID, ErrSessionNotFound)
		}

		signup, err := tx.Signup.FindBySessionAndUser(ctx, session.ID, req.UserID)
		if err != nil {
			return persistence("find signup", err)
		}
		if signup != nil {
			current, err := tx.Status.FindCurrent(ctx, signup.ID)
			if err != nil {
				return persistence("find current status", err)
			}
			if current != nil && current.StatusCode.IsActive() {
				return ErrAlreadyBooked
			}
		}

		if !activity.MultipleSignups {
			active, err := tx.Signup.FindActiveByActivityAndUser(ctx, activity.ID, req.UserID)
			if err != nil {
				return persistence("find active signups", err)
			}
			if len(active) > 0 {
				return fmt.Errorf("%w on session %s", ErrAlreadyBooked, active[0].SessionID)
			}
		}

		code, err := s.initialStatus(ctx, tx, activity, session, req.RequestedStatus)
		if err != nil {
			return err
		}

		now := s.now()
		if signup == nil {
			signup = &entity.Signup{
				Base:             entity.NewBase(now),
				SessionID:        session.ID,
				UserID:           req.UserID,
				DiscountCode:     req.DiscountCode,
				NotificationType: notification,
			}
			if err := tx.Signup.Create(ctx, signup); err != nil {
				return persistence("create signup", err)
			}
		} else {
			signup.DiscountCode = req.DiscountCode
			signup.NotificationType = notification
			signup.Touch(now)
			if err := tx.Signup.Update(ctx, signup); err != nil {
				return persistence("update signup", err)
			}
		}

		status, err := s.setStatus(ctx, tx, signup.ID, code, req.ActorID, "", nil)
		if err != nil {
			return err
		}

		result = SignupResult{Signup: signup, Status: status}
		return nil
	})
	if err != nil {
		s.logRejected("Signup rejected", err,
			zap.String("session_id", req.SessionID.String()),
			zap.String("user_id", req.UserID.String()),
		)
		return nil, persistence("signup", err)
	}

	s.log.Info("User signed up",
		zap.String("signup_id", result.Signup.ID.String()),
		zap.String("session_id", req.SessionID.String()),
		zap.Stringer("status", result.Status.StatusCode),
	)
	s.publishSignup(EventSignupCreated, result.Signup, result.Status)

	return &result, nil
}

// initialStatus decides where a new signup enters the lifecycle.
func (s *bookingService) initialStatus(ctx context.Context, tx *repository.Repository, activity *entity.Activity, session *entity.Session, requested *entity.StatusCode) (entity.StatusCode, error) {
	if requested != nil {
		if *requested != entity.StatusBooked {
			return *requested, nil
		}
	} else {
		if s.config.EnableApprovals && activity.ApprovalRequired {
			return entity.StatusRequested, nil
		}
	}

	return s.seatStatus(ctx, tx, session)
}

// seatStatus is booked when the session is dated and has a seat or allows
// overbooking, otherwise waitlisted.
func (s *bookingService) seatStatus(ctx context.Context, tx *repository.Repository, session *entity.Session) (entity.StatusCode, error) {
	if !session.DatesKnown {
		return entity.StatusWaitlisted, nil
	}

	booked, err := tx.Status.CountActive(ctx, session.ID, entity.StatusBooked)
	if err != nil {
		return 0, persistence("count bookings", err)
	}
	if ComputeCapacityStatus(booked, session.Capacity, session.AllowOverbook) == CapacityFull {
		return entity.StatusWaitlisted, nil
	}
	return entity.StatusBooked, nil
}

func (s *bookingService) Cancel(ctx context.Context, req *CancelRequest) (*entity.SignupStatus, error) {
	if err := s.validate("Cancel", req); err != nil {
		return nil, err
	}

	var (
		signup *entity.Signup
		status *entity.SignupStatus
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		session, err := tx.Session.FindByIDForUpdate(ctx, req.SessionID)
		if err != nil {
			return persistence("lock session", err)
		}
		if session == nil {
			return ErrSessionNotFound
		}

		signup, err = tx.Signup.FindBySessionAndUser(ctx, session.ID, req.UserID)
		if err != nil {
			return persistence("find signup", err)
		}
		if signup == nil {
			return ErrNotSignedUp
		}

		current, err := tx.Status.FindCurrent(ctx, signup.ID)
		if err != nil {
			return persistence("find current status", err)
		}
		if current == nil || !current.StatusCode.IsActive() {
			return ErrNotSignedUp
		}

		status, err = s.setStatus(ctx, tx, signup.ID, entity.StatusUserCancelled, req.ActorID, req.Reason, nil)
		return err
	})
	if err != nil {
		s.logRejected("Cancel rejected", err,
			zap.String("session_id", req.SessionID.String()),
			zap.String("user_id", req.UserID.String()),
		)
		return nil, persistence("cancel", err)
	}

	s.log.Info("Signup cancelled",
		zap.String("signup_id", signup.ID.String()),
		zap.String("session_id", req.SessionID.String()),
	)
	s.publishSignup(EventSignupCancelled, signup, status)

	return status, nil
}

func (s *bookingService) ApproveRequest(ctx context.Context, req *DecisionRequest) (*entity.SignupStatus, error) {
	return s.decide(ctx, req, true)
}

func (s *bookingService) DeclineRequest(ctx context.Context, req *DecisionRequest) (*entity.SignupStatus, error) {
	return s.decide(ctx, req, false)
}

func (s *bookingService) decide(ctx context.Context, req *DecisionRequest, approve bool) (*entity.SignupStatus, error) {
	if err := s.validate("Decision", req); err != nil {
		return nil, err
	}

	var (
		signup *entity.Signup
		status *entity.SignupStatus
	)
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		session, err := tx.Session.FindByIDForUpdate(ctx, req.SessionID)
		if err != nil {
			return persistence("lock session", err)
		}
		if session == nil {
			return ErrSessionNotFound
		}

		signup, err = tx.Signup.FindByID(ctx, req.SignupID)
		if err != nil {
			return persistence("find signup", err)
		}
		if signup == nil || signup.SessionID != session.ID {
			return ErrSignupNotFound
		}

		current, err := tx.Status.FindCurrent(ctx, signup.ID)
		if err != nil {
			return persistence("find current status", err)
		}
		if current == nil || current.StatusCode != entity.StatusRequested {
			from := "none"
			if current != nil {
				from = current.StatusCode.String()
			}
			return fmt.Errorf("%w: signup is %s, not requested", ErrInvalidTransition, from)
		}

		code := entity.StatusDeclined
		if approve {
			code, err = s.seatStatus(ctx, tx, session)
			if err != nil {
				return err
			}
			if code == entity.StatusWaitlisted && req.RequireSeat && session.DatesKnown {
				return ErrSessionAtCapacity
			}
		}

		status, err = s.setStatus(ctx, tx, signup.ID, code, req.ActorID, "", nil)
		return err
	})
	if err != nil {
		s.logRejected("Request decision rejected", err,
			zap.String("session_id", req.SessionID.String()),
			zap.String("signup_id", req.SignupID.String()),
			zap.Bool("approve", approve),
		)
		return nil, persistence("decide request", err)
	}

	s.log.Info("Request decided",
		zap.String("signup_id", signup.ID.String()),
		zap.String("session_id", req.SessionID.String()),
		zap.Stringer("status", status.StatusCode),
	)
	if approve {
		s.publishSignup(EventSignupApproved, signup, status)
	} else {
		s.publishSignup(EventSignupDeclined, signup, status)
	}

	return status, nil
}

func (s *bookingService) ApproveRequests(ctx context.Context, sessionID, actorID uuid.UUID, decisions map[uuid.UUID]bool) (*DecisionResult, error) {
	session, err := s.repo.Session.FindByID(ctx, sessionID)
	if err != nil {
		return nil, persistence("find session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	result := &DecisionResult{}
	for _, signupID := range sortedKeys(decisions) {
		approve := decisions[signupID]
		status, err := s.decide(ctx, &DecisionRequest{
			SessionID: sessionID,
			SignupID:  signupID,
			ActorID:   actorID,
		}, approve)
		if err != nil {
			result.Failed = append(result.Failed, DecisionFailure{
				SignupID: signupID,
				Approve:  approve,
				Err:      err,
				Message:  err.Error(),
			})
			continue
		}

		switch status.StatusCode {
		case entity.StatusBooked:
			result.Booked = append(result.Booked, signupID)
		case entity.StatusWaitlisted:
			result.Waitlisted = append(result.Waitlisted, signupID)
		default:
			result.Declined = append(result.Declined, signupID)
		}
	}

	return result, nil
}

func (s *bookingService) TakeAttendance(ctx context.Context, sessionID, actorID uuid.UUID, attendance map[uuid.UUID]entity.StatusCode) (*AttendanceResult, error) {
	session, err := s.repo.Session.FindByID(ctx, sessionID)
	if err != nil {
		return nil, persistence("find session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if !session.DatesKnown || !HasSessionStarted(session, s.now()) {
		s.log.Info("Attendance ignored, session not started",
			zap.String("session_id", sessionID.String()),
		)
		return &AttendanceResult{NoOp: true}, nil
	}

	result := &AttendanceResult{}
	for _, signupID := range sortedKeys(attendance) {
		code := attendance[signupID]
		grade, ok := GradeFor(code)
		if !ok {
			result.Skipped = append(result.Skipped, signupID)
			continue
		}

		var signup *entity.Signup
		err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
			if _, err := tx.Session.FindByIDForUpdate(ctx, sessionID); err != nil {
				return persistence("lock session", err)
			}

			var err error
			signup, err = tx.Signup.FindByID(ctx, signupID)
			if err != nil {
				return persistence("find signup", err)
			}
			if signup == nil || signup.SessionID != sessionID {
				return ErrSignupNotFound
			}

			g := grade
			_, err = s.setStatus(ctx, tx, signupID, code, actorID, "", &g)
			return err
		})
		if err != nil {
			err = persistence("take attendance", err)
			s.log.Error("Failed to mark attendance",
				zap.Error(err),
				zap.String("signup_id", signupID.String()),
				zap.Stringer("status", code),
			)
			result.Failed = append(result.Failed, AttendanceFailure{
				SignupID:   signupID,
				StatusCode: code,
				Err:        err,
				Message:    fmt.Sprintf("could not mark %s as %s", signupID, code),
			})
			continue
		}

		if err := s.grades.RecordGrade(ctx, signupID, signup.UserID, grade, actorID); err != nil {
			err = persistence("record grade", err)
			s.log.Error("Failed to record attendance grade",
				zap.Error(err),
				zap.String("signup_id", signupID.String()),
				zap.Int("grade", grade),
			)
			result.Failed = append(result.Failed, AttendanceFailure{
				SignupID:   signupID,
				StatusCode: code,
				Err:        err,
				Message:    fmt.Sprintf("could not mark %s graded as %d", signupID, grade),
			})
			continue
		}

		result.Updated = append(result.Updated, signupID)
	}

	s.log.Info("Attendance taken",
		zap.String("session_id", sessionID.String()),
		zap.Int("updated", len(result.Updated)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failed)),
	)
	publish(s.publisher, s.log, EventAttendanceTaken, AttendanceEvent{
		SessionID:  sessionID,
		ActorID:    actorID,
		Updated:    len(result.Updated),
		Skipped:    len(result.Skipped),
		Failed:     len(result.Failed),
		OccurredAt: s.now(),
	})

	return result, nil
}

func (s *bookingService) SetStatus(ctx context.Context, req *SetStatusRequest) (*entity.SignupStatus, error) {
	if err := s.validate("SetStatus", req); err != nil {
		return nil, err
	}
	if !req.StatusCode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(req.StatusCode))
	}

	var status *entity.SignupStatus
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		signup, err := tx.Signup.FindByID(ctx, req.SignupID)
		if err != nil {
			return persistence("find signup", err)
		}
		if signup == nil {
			return ErrSignupNotFound
		}
		if _, err := tx.Session.FindByIDForUpdate(ctx, signup.SessionID); err != nil {
			return persistence("lock session", err)
		}

		status, err = s.setStatus(ctx, tx, signup.ID, req.StatusCode, req.ActorID, req.Note, req.Grade)
		return err
	})
	if err != nil {
		s.logRejected("Set status rejected", err, zap.String("signup_id", req.SignupID.String()))
		return nil, persistence("set status", err)
	}

	return status, nil
}

// setStatus appends a current status row and supersedes the previous one.
// It must run inside a transaction.
func (s *bookingService) setStatus(ctx context.Context, tx *repository.Repository, signupID uuid.UUID, code entity.StatusCode, actorID uuid.UUID, note string, grade *int) (*entity.SignupStatus, error) {
	status := &entity.SignupStatus{
		BaseSimple: entity.NewBaseSimple(s.now()),
		SignupID:   signupID,
		StatusCode: code,
		CreatedBy:  actorID,
		Note:       note,
		Grade:      grade,
	}

	// the partial unique index forbids two current rows, so supersede first
	if _, err := tx.Status.Supersede(ctx, signupID, status.ID); err != nil {
		return nil, persistence("supersede status", err)
	}
	if err := tx.Status.Insert(ctx, status); err != nil {
		return nil, persistence("insert status", err)
	}

	s.log.Debug("Status appended",
		zap.String("signup_id", signupID.String()),
		zap.String("status_id", status.ID.String()),
		zap.Stringer("status", code),
	)
	return status, nil
}

func (s *bookingService) publishSignup(routingKey string, signup *entity.Signup, status *entity.SignupStatus) {
	publish(s.publisher, s.log, routingKey, SignupEvent{
		SignupID:   signup.ID,
		SessionID:  signup.SessionID,
		UserID:     signup.UserID,
		ActorID:    status.CreatedBy,
		Status:     status.StatusCode,
		Note:       status.Note,
		OccurredAt: status.CreatedAt,
	})
}

func (s *bookingService) logRejected(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	var pe *PersistenceError
	if errors.As(err, &pe) {
		s.log.Error(msg, fields...)
		return
	}
	s.log.Warn(msg, fields...)
}

// sortedKeys gives batch operations a deterministic order.
func sortedKeys[V any](m map[uuid.UUID]V) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return keys
}
