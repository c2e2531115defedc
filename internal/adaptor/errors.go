package adaptor

import (
	"errors"
	"net/http"

	"facetoface-booking/internal/usecase"
	"facetoface-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps usecase errors to HTTP responses.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var pe *usecase.PersistenceError

	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrSignupNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrInvalidStatus):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrAlreadyBooked),
		errors.Is(err, usecase.ErrNotSignedUp),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrSessionAtCapacity):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, err.Error())

	case errors.As(err, &pe):
		log.Error(operation+" failed - storage",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("storage_op", pe.Op))
		utils.ResponseInternalError(w, "Internal server error")

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// uuidParam reads a UUID path parameter and answers 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// actorID returns the acting user set by the actor middleware.
func actorID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

// targetUser resolves an optional user_id from a body, defaulting to the actor.
func targetUser(raw *string, actor uuid.UUID) uuid.UUID {
	if raw == nil || *raw == "" {
		return actor
	}
	return uuid.MustParse(*raw)
}
