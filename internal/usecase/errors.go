package usecase

import (
	"errors"
	"fmt"

	"facetoface-booking/internal/data/entity"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSignupNotFound    = errors.New("signup not found")
	ErrAlreadyBooked     = errors.New("user already has a live booking")
	ErrNotSignedUp       = errors.New("user is not signed up to this session")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSessionAtCapacity = errors.New("session is at capacity")
	ErrInvalidStatus     = errors.New("invalid status code")
	ErrValidation        = errors.New("validation failed")
)

// PersistenceError wraps a storage failure. It is the only error kind an
// operation cannot recover from.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var domainErrors = []error{
	ErrSessionNotFound,
	ErrSignupNotFound,
	ErrAlreadyBooked,
	ErrNotSignedUp,
	ErrInvalidTransition,
	ErrSessionAtCapacity,
	ErrInvalidStatus,
	ErrValidation,
}

// persistence wraps err as a PersistenceError unless it already is one or is
// a domain error returned from inside a transaction.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return &PersistenceError{Op: op, Err: err}
}

// AttendanceFailure is one take-attendance item that could not be applied.
type AttendanceFailure struct {
	SignupID   uuid.UUID         `json:"signup_id"`
	StatusCode entity.StatusCode `json:"status"`
	Err        error             `json:"-"`
	Message    string            `json:"message"`
}

// AttendanceResult is the outcome of a take-attendance batch. NoOp is set when
// the session has no dates or has not started; nothing is written then.
type AttendanceResult struct {
	NoOp    bool                `json:"no_op"`
	Updated []uuid.UUID         `json:"updated"`
	Skipped []uuid.UUID         `json:"skipped"`
	Failed  []AttendanceFailure `json:"failed"`
}

// HasFailures reports whether any item failed; callers treat the batch as failed then.
func (r *AttendanceResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// DecisionFailure is one request decision that could not be applied.
type DecisionFailure struct {
	SignupID uuid.UUID `json:"signup_id"`
	Approve  bool      `json:"approve"`
	Err      error     `json:"-"`
	Message  string    `json:"message"`
}

// DecisionResult is the outcome of a batch approve/decline.
type DecisionResult struct {
	Booked     []uuid.UUID       `json:"booked"`
	Waitlisted []uuid.UUID       `json:"waitlisted"`
	Declined   []uuid.UUID       `json:"declined"`
	Failed     []DecisionFailure `json:"failed"`
}
