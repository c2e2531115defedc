package response

import (
	"time"

	"facetoface-booking/internal/data/entity"
)

type DateResponse struct {
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
}

type SessionResponse struct {
	ID             string              `json:"id"`
	ActivityID     string              `json:"activity_id"`
	Capacity       int                 `json:"capacity"`
	AllowOverbook  bool                `json:"allow_overbook"`
	DatesKnown     bool                `json:"dates_known"`
	Dates          []DateResponse      `json:"dates"`
	Details        string              `json:"details,omitempty"`
	Duration       int                 `json:"duration"`
	NormalCost     *float64            `json:"normal_cost,omitempty"`
	DiscountCost   *float64            `json:"discount_cost,omitempty"`
	CustomData     map[string]string   `json:"custom_data,omitempty"`
	Trainers       map[string][]string `json:"trainers,omitempty"`
	AttendeeCount  int                 `json:"attendee_count"`
	BookedCount    int                 `json:"booked_count"`
	SeatsRemaining int                 `json:"seats_remaining"`
	Lifecycle      string              `json:"lifecycle"`
	CapacityStatus string              `json:"capacity_status"`
}

type SortedSessionsResponse struct {
	InProgress []SessionResponse `json:"in_progress"`
	Upcoming   []SessionResponse `json:"upcoming"`
	Previous   []SessionResponse `json:"previous"`
}

type StatusResponse struct {
	ID         string            `json:"id"`
	SignupID   string            `json:"signup_id"`
	Status     entity.StatusCode `json:"status"`
	StatusCode int               `json:"status_code"`
	CreatedBy  string            `json:"created_by"`
	Note       string            `json:"note,omitempty"`
	Grade      *int              `json:"grade,omitempty"`
	Superseded bool              `json:"superseded"`
	CreatedAt  time.Time         `json:"created_at"`
}

type SignupResponse struct {
	ID               string                  `json:"id"`
	SessionID        string                  `json:"session_id"`
	UserID           string                  `json:"user_id"`
	DiscountCode     *string                 `json:"discount_code,omitempty"`
	NotificationType entity.NotificationType `json:"notification_type"`
	Status           *StatusResponse         `json:"status,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type StatusOptionResponse struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

func NewStatusResponse(status *entity.SignupStatus) *StatusResponse {
	if status == nil {
		return nil
	}
	return &StatusResponse{
		ID:         status.ID.String(),
		SignupID:   status.SignupID.String(),
		Status:     status.StatusCode,
		StatusCode: int(status.StatusCode),
		CreatedBy:  status.CreatedBy.String(),
		Note:       status.Note,
		Grade:      status.Grade,
		Superseded: status.Superseded,
		CreatedAt:  status.CreatedAt,
	}
}

func NewSignupResponse(signup *entity.Signup, status *entity.SignupStatus) *SignupResponse {
	return &SignupResponse{
		ID:               signup.ID.String(),
		SessionID:        signup.SessionID.String(),
		UserID:           signup.UserID.String(),
		DiscountCode:     signup.DiscountCode,
		NotificationType: signup.NotificationType,
		Status:           NewStatusResponse(status),
		CreatedAt:        signup.CreatedAt,
	}
}

func NewAttendeeResponses(attendees []entity.Attendee) []SignupResponse {
	result := make([]SignupResponse, 0, len(attendees))
	for i := range attendees {
		a := &attendees[i]
		result = append(result, *NewSignupResponse(&a.Signup, &a.Status))
	}
	return result
}

func NewHistoryResponse(history []entity.SignupStatus) []StatusResponse {
	result := make([]StatusResponse, 0, len(history))
	for i := range history {
		result = append(result, *NewStatusResponse(&history[i]))
	}
	return result
}

func NewStatusOptions(codes []entity.StatusCode) []StatusOptionResponse {
	result := make([]StatusOptionResponse, 0, len(codes))
	for _, code := range codes {
		result = append(result, StatusOptionResponse{Code: int(code), Name: code.String()})
	}
	return result
}
