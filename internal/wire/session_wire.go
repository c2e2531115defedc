package wire

import (
	"facetoface-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSession(r chi.Router, sessionHandler *adaptor.SessionHandler, log *zap.Logger) {
	// ==================== READ ROUTES ====================
	r.Get("/api/activities/{activityID}/sessions", sessionHandler.ListSessions)

	r.Get("/api/sessions/{sessionID}", sessionHandler.GetSession)
	r.Get("/api/sessions/{sessionID}/attendees", sessionHandler.ListAttendees)
	r.Get("/api/sessions/{sessionID}/requests", sessionHandler.ListRequests)
	r.Get("/api/sessions/{sessionID}/cancellations", sessionHandler.ListCancellations)

	r.Get("/api/signups/{signupID}/history", sessionHandler.StatusHistory)

	// GET /api/status-options?take_attendance=true - selectable statuses
	r.Get("/api/status-options", sessionHandler.StatusOptions)
}
