package repository

import (
	"context"
	"errors"
	"fmt"

	"facetoface-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Transactor runs fn inside one transaction. fn receives a Repository bound to
// that transaction; returning an error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo *Repository) error) error
}

type Repository struct {
	Activity ActivityRepository
	Session  SessionRepository
	Signup   SignupRepository
	Status   StatusRepository
	Grade    GradeRepository

	Transactor
}

func NewRepository(db database.PgxIface, activities *ActivityCache, log *zap.Logger) *Repository {
	repo := newScopedRepository(db, activities, log)
	repo.Transactor = &pgTransactor{
		db:         db,
		activities: activities,
		log:        log.With(zap.String("repository", "transactor")),
	}
	return repo
}

func newScopedRepository(db database.Querier, activities *ActivityCache, log *zap.Logger) *Repository {
	var activity ActivityRepository = NewActivityRepository(db, log)
	if activities != nil {
		activity = NewCachedActivityRepository(activity, activities, log)
	}

	return &Repository{
		Activity: activity,
		Session:  NewSessionRepository(db, log),
		Signup:   NewSignupRepository(db, log),
		Status:   NewStatusRepository(db, log),
		Grade:    NewGradeRepository(db, log),
	}
}

type pgTransactor struct {
	db         database.PgxIface
	activities *ActivityCache
	log        *zap.Logger
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repo *Repository) error) (err error) {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	scoped := newScopedRepository(tx, t.activities, t.log)
	scoped.Transactor = joinedTx{repo: scoped}

	if err = fn(ctx, scoped); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// joinedTx lets code already inside a transaction call WithinTx again
// without opening a second one.
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repo *Repository) error) error {
	return fn(ctx, j.repo)
}
