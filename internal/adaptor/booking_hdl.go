package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/dto/request"
	"facetoface-booking/internal/dto/response"
	"facetoface-booking/internal/usecase"
	"facetoface-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// Signup handles POST /api/sessions/{sessionID}/signup
func (h *BookingHandler) Signup(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}

	var req request.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := &usecase.SignupRequest{
		SessionID:        sessionID,
		UserID:           targetUser(req.UserID, actor),
		ActorID:          actor,
		DiscountCode:     req.DiscountCode,
		NotificationType: entity.NotificationType(req.NotificationType),
	}
	if req.Status != nil {
		code, err := entity.ParseStatusCode(*req.Status)
		if err != nil {
			utils.ResponseBadRequest(w, err.Error(), nil)
			return
		}
		in.RequestedStatus = &code
	}

	result, err := h.service.Signup(r.Context(), in)
	if err != nil {
		handleServiceError(h.log, w, err, "signup")
		return
	}

	utils.ResponseCreated(w, "success", response.NewSignupResponse(result.Signup, result.Status))
}

// Cancel handles POST /api/sessions/{sessionID}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}

	var req request.CancelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	status, err := h.service.Cancel(r.Context(), &usecase.CancelRequest{
		SessionID: sessionID,
		UserID:    targetUser(req.UserID, actor),
		ActorID:   actor,
		Reason:    req.Reason,
	})
	if err != nil {
		handleServiceError(h.log, w, err, "cancel signup")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewStatusResponse(status))
}

// DecideRequest handles POST /api/sessions/{sessionID}/requests/{signupID}
func (h *BookingHandler) DecideRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}
	signupID, ok := uuidParam(w, r, "signupID")
	if !ok {
		return
	}

	var req request.DecisionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := &usecase.DecisionRequest{
		SessionID:   sessionID,
		SignupID:    signupID,
		ActorID:     actor,
		RequireSeat: req.RequireSeat,
	}

	var (
		status *entity.SignupStatus
		err    error
	)
	if req.Approve {
		status, err = h.service.ApproveRequest(r.Context(), in)
	} else {
		status, err = h.service.DeclineRequest(r.Context(), in)
	}
	if err != nil {
		handleServiceError(h.log, w, err, "decide request")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewStatusResponse(status))
}

// DecideRequests handles POST /api/sessions/{sessionID}/requests
func (h *BookingHandler) DecideRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}

	var req request.BatchDecisionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	decisions := make(map[uuid.UUID]bool, len(req.Decisions))
	for _, d := range req.Decisions {
		decisions[uuid.MustParse(d.SignupID)] = d.Approve
	}

	result, err := h.service.ApproveRequests(r.Context(), sessionID, actor, decisions)
	if err != nil {
		handleServiceError(h.log, w, err, "decide requests")
		return
	}

	if len(result.Failed) > 0 {
		h.log.Warn("Some request decisions failed",
			zap.String("session_id", sessionID.String()),
			zap.Int("failed", len(result.Failed)))
		utils.ResponseJSON(w, http.StatusUnprocessableEntity, false, "Some decisions could not be applied", result, nil)
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// TakeAttendance handles POST /api/sessions/{sessionID}/attendance
func (h *BookingHandler) TakeAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	sessionID, ok := uuidParam(w, r, "sessionID")
	if !ok {
		return
	}

	var req request.AttendanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	attendance := make(map[uuid.UUID]entity.StatusCode, len(req.Attendance))
	for _, item := range req.Attendance {
		code, err := entity.ParseStatusCode(item.Status)
		if err != nil {
			utils.ResponseBadRequest(w, err.Error(), nil)
			return
		}
		attendance[uuid.MustParse(item.SignupID)] = code
	}

	result, err := h.service.TakeAttendance(r.Context(), sessionID, actor, attendance)
	if err != nil {
		handleServiceError(h.log, w, err, "take attendance")
		return
	}

	switch {
	case result.NoOp:
		utils.ResponseSuccess(w, "Session has not started, attendance not taken", result)
	case result.HasFailures():
		h.log.Warn("Some attendance records failed",
			zap.String("session_id", sessionID.String()),
			zap.Int("failed", len(result.Failed)))
		utils.ResponseJSON(w, http.StatusUnprocessableEntity, false, "Some attendance records could not be saved", result, nil)
	default:
		utils.ResponseSuccess(w, "success", result)
	}
}

// SetStatus handles PUT /api/signups/{signupID}/status
func (h *BookingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	signupID, ok := uuidParam(w, r, "signupID")
	if !ok {
		return
	}

	var req request.SetStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	code, err := entity.ParseStatusCode(req.Status)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	status, err := h.service.SetStatus(r.Context(), &usecase.SetStatusRequest{
		SignupID:   signupID,
		StatusCode: code,
		ActorID:    actor,
		Note:       req.Note,
		Grade:      req.Grade,
	})
	if err != nil {
		handleServiceError(h.log, w, err, "set status")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewStatusResponse(status))
}

// decodeAndValidate treats an empty body as an empty object.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}
