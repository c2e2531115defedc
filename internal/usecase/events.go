package usecase

import (
	"time"

	"facetoface-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventSignupCreated   = "signup.created"
	EventSignupCancelled = "signup.cancelled"
	EventSignupApproved  = "signup.approved"
	EventSignupDeclined  = "signup.declined"
	EventAttendanceTaken = "attendance.taken"
)

// EventPublisher receives booking events after their transaction commits.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type SignupEvent struct {
	SignupID   uuid.UUID         `json:"signup_id"`
	SessionID  uuid.UUID         `json:"session_id"`
	UserID     uuid.UUID         `json:"user_id"`
	ActorID    uuid.UUID         `json:"actor_id"`
	Status     entity.StatusCode `json:"status"`
	Note       string            `json:"note,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type AttendanceEvent struct {
	SessionID  uuid.UUID `json:"session_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publish never fails the caller; the booking is already committed.
func publish(publisher EventPublisher, log *zap.Logger, routingKey string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(routingKey, payload); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
		)
	}
}
