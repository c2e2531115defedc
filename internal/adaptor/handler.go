package adaptor

import (
	"facetoface-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Session *SessionHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Session: NewSessionHandler(service.Session, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}
