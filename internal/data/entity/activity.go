package entity

import (
	"github.com/google/uuid"
)

// Activity is a Face-to-Face instance inside a course. Sessions belong to it.
type Activity struct {
	Base
	CourseID         uuid.UUID `db:"course_id"`
	Name             string    `db:"name"`
	ShortName        string    `db:"shortname"`
	ApprovalRequired bool      `db:"approval_required"`
	MultipleSignups  bool      `db:"multiple_signups"`
}
