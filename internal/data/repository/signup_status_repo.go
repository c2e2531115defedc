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

// StatusRepository reads and appends the per-signup status log.
// A partial unique index keeps at most one row per signup with superseded = false,
// so callers supersede before inserting the new current row.
type StatusRepository interface {
	FindCurrent(ctx context.Context, signupID uuid.UUID) (*entity.SignupStatus, error)
	Insert(ctx context.Context, status *entity.SignupStatus) error
	// Supersede marks every current row of the signup except exceptID as superseded.
	Supersede(ctx context.Context, signupID, exceptID uuid.UUID) (int64, error)
	// CountActive counts signups of the session whose current status is >= minStatus.
	CountActive(ctx context.Context, sessionID uuid.UUID, minStatus entity.StatusCode) (int, error)
	History(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error)
	// ListBySessionAndStatus lists signups with their current status. A non-empty
	// codes slice matches exactly; otherwise current status must be >= minStatus.
	ListBySessionAndStatus(ctx context.Context, sessionID uuid.UUID, codes []entity.StatusCode, minStatus entity.StatusCode) ([]entity.Attendee, error)
}

type statusRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStatusRepository(db database.Querier, log *zap.Logger) StatusRepository {
	return &statusRepository{
		db:  db,
		log: log.With(zap.String("repository", "signup_status")),
	}
}

const statusColumns = `ss.id, ss.signup_id, ss.status_code, ss.created_by, ss.note, ss.grade, ss.superseded, ss.created_at`

func scanStatus(row pgx.Row) (*entity.SignupStatus, error) {
	var s entity.SignupStatus
	err := row.Scan(
		&s.ID,
		&s.SignupID,
		&s.StatusCode,
		&s.CreatedBy,
		&s.Note,
		&s.Grade,
		&s.Superseded,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statusRepository) FindCurrent(ctx context.Context, signupID uuid.UUID) (*entity.SignupStatus, error) {
	query := `
		SELECT ` + statusColumns + `
		FROM facetoface_signup_statuses ss
		WHERE ss.signup_id = $1 AND ss.superseded = false
	`

	status, err := scanStatus(r.db.QueryRow(ctx, query, signupID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find current status",
			zap.Error(err),
			zap.String("signup_id", signupID.String()),
		)
		return nil, fmt.Errorf("find current status of signup %s: %w", signupID, err)
	}

	return status, nil
}

func (r *statusRepository) Insert(ctx context.Context, status *entity.SignupStatus) error {
	query := `
		INSERT INTO facetoface_signup_statuses (id, signup_id, status_code, created_by, note, grade, superseded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		status.ID,
		status.SignupID,
		int(status.StatusCode),
		status.CreatedBy,
		status.Note,
		status.Grade,
		status.Superseded,
		status.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert status",
			zap.Error(err),
			zap.String("signup_id", status.SignupID.String()),
			zap.Stringer("status", status.StatusCode),
		)
		return fmt.Errorf("insert status for signup %s: %w", status.SignupID, err)
	}

	return nil
}

func (r *statusRepository) Supersede(ctx context.Context, signupID, exceptID uuid.UUID) (int64, error) {
	query := `
		UPDATE facetoface_signup_statuses
		SET superseded = true
		WHERE signup_id = $1 AND superseded = false AND id <> $2
	`

	result, err := r.db.Exec(ctx, query, signupID, exceptID)
	if err != nil {
		r.log.Error("Failed to supersede statuses",
			zap.Error(err),
			zap.String("signup_id", signupID.String()),
		)
		return 0, fmt.Errorf("supersede statuses of signup %s: %w", signupID, err)
	}

	return result.RowsAffected(), nil
}

func (r *statusRepository) CountActive(ctx context.Context, sessionID uuid.UUID, minStatus entity.StatusCode) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM facetoface_signups su
		JOIN facetoface_signup_statuses ss ON ss.signup_id = su.id AND ss.superseded = false
		WHERE su.session_id = $1 AND ss.status_code >= $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, sessionID, int(minStatus)).Scan(&count); err != nil {
		r.log.Error("Failed to count attendees",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return 0, fmt.Errorf("count attendees of session %s: %w", sessionID, err)
	}

	return count, nil
}

func (r *statusRepository) History(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error) {
	query := `
		SELECT ` + statusColumns + `
		FROM facetoface_signup_statuses ss
		WHERE ss.signup_id = $1
		ORDER BY ss.created_at, ss.superseded DESC
	`

	rows, err := r.db.Query(ctx, query, signupID)
	if err != nil {
		r.log.Error("Failed to load status history",
			zap.Error(err),
			zap.String("signup_id", signupID.String()),
		)
		return nil, fmt.Errorf("load status history of signup %s: %w", signupID, err)
	}
	defer rows.Close()

	var history []entity.SignupStatus
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan status row: %w", err)
		}
		history = append(history, *s)
	}

	return history, rows.Err()
}

func (r *statusRepository) ListBySessionAndStatus(ctx context.Context, sessionID uuid.UUID, codes []entity.StatusCode, minStatus entity.StatusCode) ([]entity.Attendee, error) {
	query := `
		SELECT ` + signupColumns + `, ` + statusColumns + `
		FROM facetoface_signups su
		JOIN facetoface_signup_statuses ss ON ss.signup_id = su.id AND ss.superseded = false
		WHERE su.session_id = $1
	`
	args := []any{sessionID}
	if len(codes) > 0 {
		raw := make([]int, len(codes))
		for i, c := range codes {
			raw[i] = int(c)
		}
		query += ` AND ss.status_code = ANY($2)`
		args = append(args, raw)
	} else {
		query += ` AND ss.status_code >= $2`
		args = append(args, int(minStatus))
	}
	query += ` ORDER BY ss.created_at, su.created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list signups by status",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return nil, fmt.Errorf("list signups of session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var attendees []entity.Attendee
	for rows.Next() {
		var a entity.Attendee
		err := rows.Scan(
			&a.Signup.ID,
			&a.Signup.SessionID,
			&a.Signup.UserID,
			&a.Signup.DiscountCode,
			&a.Signup.NotificationType,
			&a.Signup.CreatedAt,
			&a.Signup.UpdatedAt,
			&a.Status.ID,
			&a.Status.SignupID,
			&a.Status.StatusCode,
			&a.Status.CreatedBy,
			&a.Status.Note,
			&a.Status.Grade,
			&a.Status.Superseded,
			&a.Status.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attendee row: %w", err)
		}
		attendees = append(attendees, a)
	}

	return attendees, rows.Err()
}
