package usecase

import "facetoface-booking/internal/data/entity"

const (
	GradeNoShow            = 0
	GradePartiallyAttended = 50
	GradeFullyAttended     = 100
)

// GradeFor maps an attendance outcome to a completion grade.
// ok is false for codes that are not gradable.
func GradeFor(code entity.StatusCode) (grade int, ok bool) {
	switch code {
	case entity.StatusNoShow:
		return GradeNoShow, true
	case entity.StatusPartiallyAttended:
		return GradePartiallyAttended, true
	case entity.StatusFullyAttended:
		return GradeFullyAttended, true
	default:
		return 0, false
	}
}
