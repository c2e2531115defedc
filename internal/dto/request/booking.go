package request

type SignupRequest struct {
	// UserID signs up someone other than the actor.
	UserID           *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	DiscountCode     *string `json:"discount_code,omitempty" validate:"omitempty,max=255"`
	NotificationType string  `json:"notification_type" validate:"omitempty,oneof=email ical both"`
	// Status forces the initial status, for example "booked" by staff.
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=requested waitlisted booked"`
}

type CancelRequest struct {
	UserID *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Reason string  `json:"reason" validate:"max=255"`
}

type DecisionRequest struct {
	Approve     bool `json:"approve"`
	RequireSeat bool `json:"require_seat"`
}

type DecisionItem struct {
	SignupID string `json:"signup_id" validate:"required,uuid"`
	Approve  bool   `json:"approve"`
}

type BatchDecisionRequest struct {
	Decisions []DecisionItem `json:"decisions" validate:"required,min=1,dive"`
}

// AttendanceItem takes any status name; codes that are not attendance
// outcomes come back as skipped.
type AttendanceItem struct {
	SignupID string `json:"signup_id" validate:"required,uuid"`
	Status   string `json:"status" validate:"required"`
}

type AttendanceRequest struct {
	Attendance []AttendanceItem `json:"attendance" validate:"required,min=1,dive"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=255"`
	Grade  *int   `json:"grade,omitempty" validate:"omitempty,min=0,max=100"`
}
