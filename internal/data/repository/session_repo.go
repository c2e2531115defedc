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

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	// FindByIDForUpdate locks the session row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entity.Session, error)
}

type sessionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSessionRepository(db database.Querier, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

const sessionColumns = `s.id, s.activity_id, s.capacity, s.allow_overbook, s.dates_known, s.details,
		s.duration, s.normal_cost, s.discount_cost, s.created_at, s.updated_at`

func scanSession(row pgx.Row) (*entity.Session, error) {
	var s entity.Session
	err := row.Scan(
		&s.ID,
		&s.ActivityID,
		&s.Capacity,
		&s.AllowOverbook,
		&s.DatesKnown,
		&s.Details,
		&s.Duration,
		&s.NormalCost,
		&s.DiscountCost,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO facetoface_sessions (id, activity_id, capacity, allow_overbook, dates_known, details,
			duration, normal_cost, discount_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.ActivityID,
		session.Capacity,
		session.AllowOverbook,
		session.DatesKnown,
		session.Details,
		session.Duration,
		session.NormalCost,
		session.DiscountCost,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("session_id", session.ID.String()),
		)
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}

	for i := range session.Dates {
		d := &session.Dates[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.SessionID = session.ID
		_, err := r.db.Exec(ctx,
			`INSERT INTO facetoface_session_dates (id, session_id, time_start, time_finish) VALUES ($1, $2, $3, $4)`,
			d.ID, d.SessionID, d.Start, d.Finish,
		)
		if err != nil {
			return fmt.Errorf("create session %s date: %w", session.ID, err)
		}
	}

	for field, data := range session.CustomData {
		_, err := r.db.Exec(ctx,
			`INSERT INTO facetoface_session_data (id, session_id, field, data) VALUES ($1, $2, $3, $4)`,
			uuid.New(), session.ID, field, data,
		)
		if err != nil {
			return fmt.Errorf("create session %s field %s: %w", session.ID, field, err)
		}
	}

	for role, users := range session.Trainers {
		for _, userID := range users {
			_, err := r.db.Exec(ctx,
				`INSERT INTO facetoface_session_roles (id, session_id, role, user_id) VALUES ($1, $2, $3, $4)`,
				uuid.New(), session.ID, role, userID,
			)
			if err != nil {
				return fmt.Errorf("create session %s trainer: %w", session.ID, err)
			}
		}
	}

	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM facetoface_sessions s WHERE s.id = $1`
	return r.findOne(ctx, query, id)
}

func (r *sessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM facetoface_sessions s WHERE s.id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *sessionRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Session, error) {
	session, err := scanSession(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session by ID",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("find session by ID %s: %w", id, err)
	}

	if err := r.hydrate(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entity.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM facetoface_sessions s
		LEFT JOIN (
			SELECT session_id, MIN(time_start) AS min_start
			FROM facetoface_session_dates
			GROUP BY session_id
		) m ON m.session_id = s.id
		WHERE s.activity_id = $1
		ORDER BY s.dates_known, m.min_start
	`

	rows, err := r.db.Query(ctx, query, activityID)
	if err != nil {
		r.log.Error("Failed to list sessions by activity",
			zap.Error(err),
			zap.String("activity_id", activityID.String()),
		)
		return nil, fmt.Errorf("list sessions by activity %s: %w", activityID, err)
	}

	var sessions []*entity.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			rows.Close()
			r.log.Error("Failed to scan session row", zap.Error(err))
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	// hydrate after the cursor is closed; a transaction can only run one query at a time
	for _, s := range sessions {
		if err := r.hydrate(ctx, s); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

// hydrate loads dates, custom data and trainers eagerly.
func (r *sessionRepository) hydrate(ctx context.Context, s *entity.Session) error {
	dates, err := r.findDates(ctx, s.ID)
	if err != nil {
		return err
	}
	s.Dates = dates

	if s.CustomData, err = r.findCustomData(ctx, s.ID); err != nil {
		return err
	}
	if s.Trainers, err = r.findTrainers(ctx, s.ID); err != nil {
		return err
	}
	return nil
}

func (r *sessionRepository) findDates(ctx context.Context, sessionID uuid.UUID) ([]entity.SessionDate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, time_start, time_finish
		FROM facetoface_session_dates
		WHERE session_id = $1
		ORDER BY time_start
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find session %s dates: %w", sessionID, err)
	}
	defer rows.Close()

	var dates []entity.SessionDate
	for rows.Next() {
		var d entity.SessionDate
		if err := rows.Scan(&d.ID, &d.SessionID, &d.Start, &d.Finish); err != nil {
			return nil, fmt.Errorf("scan session date row: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *sessionRepository) findCustomData(ctx context.Context, sessionID uuid.UUID) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT field, data FROM facetoface_session_data WHERE session_id = $1
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find session %s custom data: %w", sessionID, err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan session data row: %w", err)
		}
		data[field] = value
	}
	return data, rows.Err()
}

func (r *sessionRepository) findTrainers(ctx context.Context, sessionID uuid.UUID) (map[string][]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT role, user_id FROM facetoface_session_roles WHERE session_id = $1 ORDER BY role
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find session %s trainers: %w", sessionID, err)
	}
	defer rows.Close()

	trainers := make(map[string][]uuid.UUID)
	for rows.Next() {
		var role string
		var userID uuid.UUID
		if err := rows.Scan(&role, &userID); err != nil {
			return nil, fmt.Errorf("scan session role row: %w", err)
		}
		trainers[role] = append(trainers[role], userID)
	}
	return trainers, rows.Err()
}
