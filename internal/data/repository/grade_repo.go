package repository

import (
	"context"
	"fmt"
	"time"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GradeRepository interface {
	Record(ctx context.Context, grade *entity.GradeRecord) error
	// RecordGrade is the grading sink used by take attendance.
	RecordGrade(ctx context.Context, signupID, userID uuid.UUID, grade int, actorID uuid.UUID) error
	FindBySignup(ctx context.Context, signupID uuid.UUID) ([]entity.GradeRecord, error)
}

type gradeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGradeRepository(db database.Querier, log *zap.Logger) GradeRepository {
	return &gradeRepository{
		db:  db,
		log: log.With(zap.String("repository", "grade")),
	}
}

func (r *gradeRepository) Record(ctx context.Context, grade *entity.GradeRecord) error {
	query := `
		INSERT INTO facetoface_grades (id, signup_id, user_id, grade, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		grade.ID,
		grade.SignupID,
		grade.UserID,
		grade.Grade,
		grade.CreatedBy,
		grade.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to record grade",
			zap.Error(err),
			zap.String("signup_id", grade.SignupID.String()),
			zap.Int("grade", grade.Grade),
		)
		return fmt.Errorf("record grade for signup %s: %w", grade.SignupID, err)
	}

	return nil
}

func (r *gradeRepository) RecordGrade(ctx context.Context, signupID, userID uuid.UUID, grade int, actorID uuid.UUID) error {
	return r.Record(ctx, &entity.GradeRecord{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		SignupID:   signupID,
		UserID:     userID,
		Grade:      grade,
		CreatedBy:  actorID,
	})
}

func (r *gradeRepository) FindBySignup(ctx context.Context, signupID uuid.UUID) ([]entity.GradeRecord, error) {
	query := `
		SELECT id, signup_id, user_id, grade, created_by, created_at
		FROM facetoface_grades
		WHERE signup_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, signupID)
	if err != nil {
		r.log.Error("Failed to find grades",
			zap.Error(err),
			zap.String("signup_id", signupID.String()),
		)
		return nil, fmt.Errorf("find grades of signup %s: %w", signupID, err)
	}
	defer rows.Close()

	var grades []entity.GradeRecord
	for rows.Next() {
		var g entity.GradeRecord
		if err := rows.Scan(&g.ID, &g.SignupID, &g.UserID, &g.Grade, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan grade row: %w", err)
		}
		grades = append(grades, g)
	}

	return grades, rows.Err()
}
