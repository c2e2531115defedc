// Package memory is an in-process implementation of the repository port.
// Transactions work on a copy of the state that replaces the original only
// when the callback succeeds, and run one at a time.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"facetoface-booking/internal/data/entity"
	"facetoface-booking/internal/data/repository"

	"github.com/google/uuid"
)

var (
	ErrDuplicateSignup  = errors.New("memory: signup already exists for session and user")
	ErrDuplicateCurrent = errors.New("memory: signup already has a current status")
	ErrNotFound         = errors.New("memory: record not found")
)

// FaultFunc is consulted before every operation; a non-nil error is returned
// from the operation unchanged. Ops are named like "status.insert".
type FaultFunc func(op string, id uuid.UUID) error

type state struct {
	activities map[uuid.UUID]entity.Activity
	sessions   map[uuid.UUID]entity.Session
	signups    map[uuid.UUID]entity.Signup
	statuses   []entity.SignupStatus
	grades     []entity.GradeRecord
}

func newState() *state {
	return &state{
		activities: make(map[uuid.UUID]entity.Activity),
		sessions:   make(map[uuid.UUID]entity.Session),
		signups:    make(map[uuid.UUID]entity.Signup),
	}
}

// clone copies the containers. Stored values are never mutated in place,
// so sharing them between copies is safe.
func (s *state) clone() *state {
	return &state{
		activities: maps.Clone(s.activities),
		sessions:   maps.Clone(s.sessions),
		signups:    maps.Clone(s.signups),
		statuses:   append([]entity.SignupStatus(nil), s.statuses...),
		grades:     append([]entity.GradeRecord(nil), s.grades...),
	}
}

type Store struct {
	mu    sync.Mutex
	state *state
	fault FaultFunc
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// SetFault installs f; nil removes it.
func (s *Store) SetFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// Repository returns the bundle operating outside any transaction.
func (s *Store) Repository() *repository.Repository {
	repo := newRepository(&scope{store: s})
	repo.Transactor = s
	return repo
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repo *repository.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	txScope := &scope{store: s, tx: work}
	repo := newRepository(txScope)
	repo.Transactor = joined{repo: repo}

	if err := fn(ctx, repo); err != nil {
		return err
	}

	s.state = work
	return nil
}

type joined struct {
	repo *repository.Repository
}

func (j joined) WithinTx(ctx context.Context, fn func(ctx context.Context, repo *repository.Repository) error) error {
	return fn(ctx, j.repo)
}

// scope resolves which state an operation sees: the transaction copy, or the
// committed state under the store lock.
type scope struct {
	store *Store
	tx    *state
}

func (sc *scope) run(op string, id uuid.UUID, fn func(st *state) error) error {
	if sc.tx != nil {
		if err := sc.store.checkFault(op, id); err != nil {
			return err
		}
		return fn(sc.tx)
	}

	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	if err := sc.store.checkFault(op, id); err != nil {
		return err
	}
	return fn(sc.store.state)
}

func (s *Store) checkFault(op string, id uuid.UUID) error {
	if s.fault == nil {
		return nil
	}
	return s.fault(op, id)
}

func newRepository(sc *scope) *repository.Repository {
	return &repository.Repository{
		Activity: &activityRepo{sc: sc},
		Session:  &sessionRepo{sc: sc},
		Signup:   &signupRepo{sc: sc},
		Status:   &statusRepo{sc: sc},
		Grade:    &gradeRepo{sc: sc},
	}
}
