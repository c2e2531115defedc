package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"facetoface-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	supersedeSQL = `UPDATE facetoface_signup_statuses\s+SET superseded = true\s+WHERE signup_id = \$1 AND superseded = false AND id <> \$2`
	insertSQL    = `INSERT INTO facetoface_signup_statuses \(id, signup_id, status_code, created_by, note, grade, superseded, created_at\)`
)

var statusCols = []string{"id", "signup_id", "status_code", "created_by", "note", "grade", "superseded", "created_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestStatusRepository_Supersede(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStatusRepository(mock, zap.NewNop())
	signupID, keep := uuid.New(), uuid.New()

	mock.ExpectExec(supersedeSQL).
		WithArgs(signupID, keep).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := repo.Supersede(context.Background(), signupID, keep)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_SupersedeError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStatusRepository(mock, zap.NewNop())
	signupID := uuid.New()
	dbErr := errors.New("deadlock detected")

	mock.ExpectExec(supersedeSQL).
		WithArgs(signupID, pgxmock.AnyArg()).
		WillReturnError(dbErr)

	_, err := repo.Supersede(context.Background(), signupID, uuid.New())

	require.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), signupID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_InsertArgs(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStatusRepository(mock, zap.NewNop())

	grade := 50
	status := &entity.SignupStatus{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		SignupID:   uuid.New(),
		StatusCode: entity.StatusPartiallyAttended,
		CreatedBy:  uuid.New(),
		Note:       "left at lunch",
		Grade:      &grade,
	}

	// status codes travel as plain ints
	mock.ExpectExec(insertSQL).
		WithArgs(status.ID, status.SignupID, 90, status.CreatedBy, "left at lunch", status.Grade, false, status.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Insert(context.Background(), status))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_FindCurrent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStatusRepository(mock, zap.NewNop())

	signupID, statusID, actor := uuid.New(), uuid.New(), uuid.New()
	createdAt := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	grade := 100

	mock.ExpectQuery(`FROM facetoface_signup_statuses ss\s+WHERE ss.signup_id = \$1 AND ss.superseded = false`).
		WithArgs(signupID).
		WillReturnRows(pgxmock.NewRows(statusCols).
			AddRow(statusID, signupID, entity.StatusFullyAttended, actor, "", &grade, false, createdAt))

	status, err := repo.FindCurrent(context.Background(), signupID)

	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, statusID, status.ID)
	assert.Equal(t, entity.StatusFullyAttended, status.StatusCode)
	assert.False(t, status.Superseded)
	require.NotNil(t, status.Grade)
	assert.Equal(t, 100, *status.Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_FindCurrentNone(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStatusRepository(mock, zap.NewNop())
	signupID := uuid.New()

	mock.ExpectQuery(`superseded = false`).
		WithArgs(signupID).
		WillReturnRows(pgxmock.NewRows(statusCols))

	status, err := repo.FindCurrent(context.Background(), signupID)

	require.NoError(t, err)
	assert.Nil(t, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_CountActive(t *testing.T) {
	mock := newMockPool(t)
	repo := NewStatusRepository(mock, zap.NewNop())
	sessionID := uuid.New()

	mock.ExpectQuery(`JOIN facetoface_signup_statuses ss ON ss.signup_id = su.id AND ss.superseded = false\s+WHERE su.session_id = \$1 AND ss.status_code >= \$2`).
		WithArgs(sessionID, 70).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountActive(context.Background(), sessionID, entity.StatusBooked)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusRepository_ListBySessionAndStatus(t *testing.T) {
	tests := []struct {
		name      string
		codes     []entity.StatusCode
		minStatus entity.StatusCode
		sql       string
		arg       any
	}{
		{
			name:  "exact codes",
			codes: []entity.StatusCode{entity.StatusRequested},
			sql:   `ss.status_code = ANY\(\$2\)\s+ORDER BY ss.created_at, su.created_at`,
			arg:   []int{40},
		},
		{
			name:      "minimum status",
			minStatus: entity.StatusApproved,
			sql:       `ss.status_code >= \$2\s+ORDER BY ss.created_at, su.created_at`,
			arg:       50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockPool(t)
			repo := NewStatusRepository(mock, zap.NewNop())
			sessionID := uuid.New()

			mock.ExpectQuery(tt.sql).
				WithArgs(sessionID, tt.arg).
				WillReturnRows(pgxmock.NewRows(statusCols))

			attendees, err := repo.ListBySessionAndStatus(context.Background(), sessionID, tt.codes, tt.minStatus)

			require.NoError(t, err)
			assert.Empty(t, attendees)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
