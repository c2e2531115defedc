package wire

import (
	"facetoface-booking/internal/adaptor"
	"facetoface-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, log *zap.Logger) {
	// ==================== ACTOR ROUTES (require X-User-ID) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor(log))

		// POST /api/sessions/{sessionID}/signup - book the actor or user_id
		r.Post("/api/sessions/{sessionID}/signup", bookingHandler.Signup)

		// POST /api/sessions/{sessionID}/cancel - cancel a live booking
		r.Post("/api/sessions/{sessionID}/cancel", bookingHandler.Cancel)

		// POST /api/sessions/{sessionID}/requests - batch approve/decline
		r.Post("/api/sessions/{sessionID}/requests", bookingHandler.DecideRequests)

		// POST /api/sessions/{sessionID}/requests/{signupID} - approve/decline one
		r.Post("/api/sessions/{sessionID}/requests/{signupID}", bookingHandler.DecideRequest)

		// POST /api/sessions/{sessionID}/attendance - take attendance
		r.Post("/api/sessions/{sessionID}/attendance", bookingHandler.TakeAttendance)

		// PUT /api/signups/{signupID}/status - staff override
		r.Put("/api/signups/{signupID}/status", bookingHandler.SetStatus)
	})
}
