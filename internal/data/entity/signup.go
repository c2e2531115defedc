package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationICal  NotificationType = "ical"
	NotificationBoth  NotificationType = "both"
)

// Signup links a user to a session. Rows are never deleted; cancellation is
// a status record.
type Signup struct {
	Base
	SessionID        uuid.UUID        `db:"session_id"`
	UserID           uuid.UUID        `db:"user_id"`
	DiscountCode     *string          `db:"discount_code"`
	NotificationType NotificationType `db:"notification_type"`
}

// SignupStatus is one entry of a signup's append-only status history.
// Exactly one entry per signup has Superseded == false.
type SignupStatus struct {
	BaseSimple
	SignupID   uuid.UUID  `db:"signup_id"`
	StatusCode StatusCode `db:"status_code"`
	CreatedBy  uuid.UUID  `db:"created_by"`
	Note       string     `db:"note"`
	Grade      *int       `db:"grade"`
	Superseded bool       `db:"superseded"`
}

// Attendee is a signup together with its current status, as listed on a session.
type Attendee struct {
	Signup
	Status SignupStatus
}
