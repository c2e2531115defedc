package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sessionCols = []string{
	"id", "activity_id", "capacity", "allow_overbook", "dates_known", "details",
	"duration", "normal_cost", "discount_cost", "created_at", "updated_at",
}

func TestSessionRepository_FindByIDForUpdateLocksAndHydrates(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())

	id, activityID, trainer := uuid.New(), uuid.New(), uuid.New()
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	cost := 45.0

	mock.ExpectQuery(`FROM facetoface_sessions s WHERE s.id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(sessionCols).
			AddRow(id, activityID, 12, false, true, "Bring a laptop", 180, &cost, (*float64)(nil), created, created))
	mock.ExpectQuery(`FROM facetoface_session_dates\s+WHERE session_id = \$1\s+ORDER BY time_start`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "session_id", "time_start", "time_finish"}).
			AddRow(uuid.New(), id, start, start.Add(3*time.Hour)))
	mock.ExpectQuery(`FROM facetoface_session_data WHERE session_id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"field", "data"}).AddRow("location", "Room 4"))
	mock.ExpectQuery(`FROM facetoface_session_roles WHERE session_id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"role", "user_id"}).AddRow("trainer", trainer))

	session, err := repo.FindByIDForUpdate(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 12, session.Capacity)
	assert.True(t, session.DatesKnown)
	require.NotNil(t, session.NormalCost)
	assert.Equal(t, 45.0, *session.NormalCost)
	assert.Nil(t, session.DiscountCost)
	require.Len(t, session.Dates, 1)
	assert.Equal(t, start, session.Dates[0].Start)
	assert.Equal(t, "Room 4", session.CustomData["location"])
	assert.Equal(t, []uuid.UUID{trainer}, session.Trainers["trainer"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindByIDDoesNotLock(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectQuery(`FROM facetoface_sessions s WHERE s.id = \$1$`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(sessionCols))

	session, err := repo.FindByID(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_FindByIDForUpdateError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewSessionRepository(mock, zap.NewNop())
	id := uuid.New()
	dbErr := errors.New("lock timeout")

	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(id).
		WillReturnError(dbErr)

	session, err := repo.FindByIDForUpdate(context.Background(), id)

	require.ErrorIs(t, err, dbErr)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}
