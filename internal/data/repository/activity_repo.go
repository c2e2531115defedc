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

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error)
	Update(ctx context.Context, activity *entity.Activity) error
}

type activityRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewActivityRepository(db database.Querier, log *zap.Logger) ActivityRepository {
	return &activityRepository{
		db:  db,
		log: log.With(zap.String("repository", "activity")),
	}
}

func (r *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	query := `
		INSERT INTO facetoface_activities (id, course_id, name, shortname, approval_required, multiple_signups, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		activity.ID,
		activity.CourseID,
		activity.Name,
		activity.ShortName,
		activity.ApprovalRequired,
		activity.MultipleSignups,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create activity",
			zap.Error(err),
			zap.String("activity_id", activity.ID.String()),
		)
		return fmt.Errorf("create activity %s: %w", activity.ID, err)
	}

	return nil
}

func (r *activityRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	query := `
		SELECT id, course_id, name, shortname, approval_required, multiple_signups, created_at, updated_at
		FROM facetoface_activities
		WHERE id = $1
	`

	var a entity.Activity
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.CourseID,
		&a.Name,
		&a.ShortName,
		&a.ApprovalRequired,
		&a.MultipleSignups,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find activity by ID",
			zap.Error(err),
			zap.String("activity_id", id.String()),
		)
		return nil, fmt.Errorf("find activity by ID %s: %w", id, err)
	}

	return &a, nil
}

func (r *activityRepository) Update(ctx context.Context, activity *entity.Activity) error {
	query := `
		UPDATE facetoface_activities
		SET name = $2, shortname = $3, approval_required = $4, multiple_signups = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		activity.ID,
		activity.Name,
		activity.ShortName,
		activity.ApprovalRequired,
		activity.MultipleSignups,
		activity.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update activity",
			zap.Error(err),
			zap.String("activity_id", activity.ID.String()),
		)
		return fmt.Errorf("update activity %s: %w", activity.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("activity %s not found", activity.ID)
	}

	return nil
}
