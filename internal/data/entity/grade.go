package entity

import (
	"github.com/google/uuid"
)

// GradeRecord is an attendance grade written for completion tracking.
type GradeRecord struct {
	BaseSimple
	SignupID  uuid.UUID `db:"signup_id"`
	UserID    uuid.UUID `db:"user_id"`
	Grade     int       `db:"grade"`
	CreatedBy uuid.UUID `db:"created_by"`
}
