package usecase

import (
	"facetoface-booking/internal/data/repository"
	"facetoface-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking BookingService
	Session SessionService
}

// NewService builds every service over repo. Grades go to repo.Grade; publisher may be nil.
func NewService(repo *repository.Repository, publisher EventPublisher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Booking: NewBookingService(repo, repo.Grade, publisher, config.Booking, log),
		Session: NewSessionService(repo, log),
	}
}
