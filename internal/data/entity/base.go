package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base carries identity and timestamps for rows that are updated in place.
type Base struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewBase(now time.Time) Base {
	return Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch marks the row as modified at now.
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now
}

// BaseSimple is for append-only rows such as status history and grades.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

func NewBaseSimple(now time.Time) BaseSimple {
	return BaseSimple{ID: uuid.New(), CreatedAt: now}
}
