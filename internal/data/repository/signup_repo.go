package repository

import (
	"context"
	"errors"
	"fmt"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SignupRepository interface {
	Create(ctx context.Context, signup *entity.Signup) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Signup, error)
	FindBySessionAndUser(ctx context.Context, sessionID, userID uuid.UUID) (*entity.Signup, error)
	// FindActiveByActivityAndUser returns the user's signups on any session of the
	// activity whose current status is a live booking.
	FindActiveByActivityAndUser(ctx context.Context, activityID, userID uuid.UUID) ([]*entity.Signup, error)
	Update(ctx context.Context, signup *entity.Signup) error
}

type signupRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSignupRepository(db database.Querier, log *zap.Logger) SignupRepository {
	return &signupRepository{
		db:  db,
		log: log.With(zap.String("repository", "signup")),
	}
}

const signupColumns = `su.id, su.session_id, su.user_id, su.discount_code, su.notification_type, su.created_at, su.updated_at`

func scanSignup(row pgx.Row) (*entity.Signup, error) {
	var s entity.Signup
	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.UserID,
		&s.DiscountCode,
		&s.NotificationType,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *signupRepository) Create(ctx context.Context, signup *entity.Signup) error {
	query := `
		INSERT INTO facetoface_signups (id, session_id, user_id, discount_code, notification_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		signup.ID,
		signup.SessionID,
		signup.UserID,
		signup.DiscountCode,
		string(signup.NotificationType),
		signup.CreatedAt,
		signup.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create signup",
			zap.Error(err),
			zap.String("session_id", signup.SessionID.String()),
			zap.String("user_id", signup.UserID.String()),
		)
		return fmt.Errorf("create signup for session %s: %w", signup.SessionID, err)
	}

	return nil
}

func (r *signupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Signup, error) {
	query := `SELECT ` + signupColumns + ` FROM facetoface_signups su WHERE su.id = $1`

	signup, err := scanSignup(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find signup by ID",
			zap.Error(err),
			zap.String("signup_id", id.String()),
		)
		return nil, fmt.Errorf("find signup by ID %s: %w", id, err)
	}

	return signup, nil
}

func (r *signupRepository) FindBySessionAndUser(ctx context.Context, sessionID, userID uuid.UUID) (*entity.Signup, error) {
	query := `SELECT ` + signupColumns + ` FROM facetoface_signups su WHERE su.session_id = $1 AND su.user_id = $2`

	signup, err := scanSignup(r.db.QueryRow(ctx, query, sessionID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find signup by session and user",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find signup for session %s user %s: %w", sessionID, userID, err)
	}

	return signup, nil
}

func (r *signupRepository) FindActiveByActivityAndUser(ctx context.Context, activityID, userID uuid.UUID) ([]*entity.Signup, error) {
	query := `
		SELECT ` + signupColumns + `
		FROM facetoface_signups su
		JOIN facetoface_sessions s ON s.id = su.session_id
		JOIN facetoface_signup_statuses ss ON ss.signup_id = su.id AND ss.superseded = false
		WHERE s.activity_id = $1
			AND su.user_id = $2
			AND ss.status_code >= $3
			AND ss.status_code < $4
		ORDER BY su.created_at
	`

	rows, err := r.db.Query(ctx, query, activityID, userID, int(entity.StatusRequested), int(entity.StatusNoShow))
	if err != nil {
		r.log.Error("Failed to find active signups",
			zap.Error(err),
			zap.String("activity_id", activityID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active signups for activity %s: %w", activityID, err)
	}
	defer rows.Close()

	var signups []*entity.Signup
	for rows.Next() {
		s, err := scanSignup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signup row: %w", err)
		}
		signups = append(signups, s)
	}

	return signups, rows.Err()
}

func (r *signupRepository) Update(ctx context.Context, signup *entity.Signup) error {
	query := `
		UPDATE facetoface_signups
		SET discount_code = $2, notification_type = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		signup.ID,
		signup.DiscountCode,
		string(signup.NotificationType),
		signup.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update signup",
			zap.Error(err),
			zap.String("signup_id", signup.ID.String()),
		)
		return fmt.Errorf("update signup %s: %w", signup.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("signup %s not found", signup.ID)
	}

	return nil
}
