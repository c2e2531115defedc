package adaptor

import (
	"context"
	"net/http"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/dto/request"
	"facetoface-booking/internal/dto/response"
	"facetoface-booking/internal/usecase"
	"facetoface-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	service usecase.SessionService
	log     *zap.Logger
	now     func() time.Time
}

func NewSessionHandler(service usecase.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log.With(zap.String("handler", "session")),
		now:     time.Now,
	}
}

// ListSessions handles GET /api/activities/{activityID}/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	activityID, ok := uuidParam(w, r, "activityID")
	if !ok {
		return
	}

	views, err := h.service.ListSessions(r.Context(), activityID, h.now())
	if err != nil {
		handleServiceError(h.log, w, err, "list sessions")
		return
	}

	sorted := usecase.SortSessions(views)
	utils.ResponseSuccess(w, "success", response.SortedSessionsResponse{
		InProgress: toSessionResponses(sorted.InProgress),
		Upcoming:   toSessionResponses(sorted.Upcoming),
		Previous:   toSessionResponses(sorted.Previous),
	})
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}

	view, err := h.service.GetSession(r.Context(), sessionID, h.now())
	if err != nil {
		handleServiceError(h.log, w, err, "get session")
		return
	}

	utils.ResponseSuccess(w, "success", toSessionResponse(*view))
}

// ListAttendees handles GET /api/sessions/{sessionID}/attendees
func (h *SessionHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	h.listSignups(w, r, "list attendees", h.service.ListAttendees)
}

// ListRequests handles GET /api/sessions/{sessionID}/requests
func (h *SessionHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	h.listSignups(w, r, "list requests", h.service.ListRequests)
}

// ListCancellations handles GET /api/sessions/{sessionID}/cancellations
func (h *SessionHandler) ListCancellations(w http.ResponseWriter, r *http.Request) {
	h.listSignups(w, r, "list cancellations", h.service.ListCancellations)
}

func (h *SessionHandler) listSignups(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	list func(ctx context.Context, sessionID uuid.UUID) ([]entity.Attendee, error),
) {
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}

	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 50),
	}
	if validationErrors := utils.ValidateStruct(page); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	attendees, err := list(r.Context(), sessionID)
	if err != nil {
		handleServiceError(h.log, w, err, operation)
		return
	}

	all := response.NewAttendeeResponses(attendees)
	data := response.Paginate(all, page.Offset(), page.Limit())
	utils.ResponseSuccess(w, "success", response.NewPaginatedResponse(data, page.Page, page.Limit(), int64(len(all))))
}

// StatusHistory handles GET /api/signups/{signupID}/history
func (h *SessionHandler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	signupID, ok := uuidParam(w, r, "signupID")
	if !ok {
		return
	}

	history, err := h.service.StatusHistory(r.Context(), signupID)
	if err != nil {
		handleServiceError(h.log, w, err, "status history")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewHistoryResponse(history))
}

// StatusOptions handles GET /api/status-options?take_attendance=true
func (h *SessionHandler) StatusOptions(w http.ResponseWriter, r *http.Request) {
	takeAttendance := utils.ParseBool(r.URL.Query().Get("take_attendance"), false)
	options := usecase.BookingStatusOptions(takeAttendance)
	utils.ResponseSuccess(w, "success", response.NewStatusOptions(options))
}

func toSessionResponses(views []usecase.SessionView) []response.SessionResponse {
	result := make([]response.SessionResponse, 0, len(views))
	for _, v := range views {
		result = append(result, toSessionResponse(v))
	}
	return result
}

func toSessionResponse(v usecase.SessionView) response.SessionResponse {
	s := v.Session

	dates := make([]response.DateResponse, 0, len(s.Dates))
	for _, d := range s.SortedDates() {
		dates = append(dates, response.DateResponse{Start: d.Start, Finish: d.Finish})
	}

	var trainers map[string][]string
	if len(s.Trainers) > 0 {
		trainers = make(map[string][]string, len(s.Trainers))
		for role, users := range s.Trainers {
			for _, id := range users {
				trainers[role] = append(trainers[role], id.String())
			}
		}
	}

	return response.SessionResponse{
		ID:             s.ID.String(),
		ActivityID:     s.ActivityID.String(),
		Capacity:       s.Capacity,
		AllowOverbook:  s.AllowOverbook,
		DatesKnown:     s.DatesKnown,
		Dates:          dates,
		Details:        s.Details,
		Duration:       s.Duration,
		NormalCost:     s.NormalCost,
		DiscountCost:   s.DiscountCost,
		CustomData:     s.CustomData,
		Trainers:       trainers,
		AttendeeCount:  v.AttendeeCount,
		BookedCount:    v.BookedCount,
		SeatsRemaining: v.SeatsRemaining,
		Lifecycle:      string(v.Lifecycle),
		CapacityStatus: string(v.Capacity),
	}
}
