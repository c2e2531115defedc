package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"facetoface-booking/internal/data/entity"

	"github.com/google/uuid"
)

func copySession(s entity.Session) entity.Session {
	s.Dates = slices.Clone(s.Dates)
	s.CustomData = maps.Clone(s.CustomData)
	if s.Trainers != nil {
		trainers := make(map[string][]uuid.UUID, len(s.Trainers))
		for role, users := range s.Trainers {
			trainers[role] = slices.Clone(users)
		}
		s.Trainers = trainers
	}
	s.NormalCost = copyCost(s.NormalCost)
	s.DiscountCost = copyCost(s.DiscountCost)
	return s
}

func copyCost(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func copyStatus(s entity.SignupStatus) entity.SignupStatus {
	if s.Grade != nil {
		g := *s.Grade
		s.Grade = &g
	}
	return s
}

// current returns the index of the signup's non-superseded row, or -1.
func (st *state) current(signupID uuid.UUID) int {
	for i := len(st.statuses) - 1; i >= 0; i-- {
		if st.statuses[i].SignupID == signupID && !st.statuses[i].Superseded {
			return i
		}
	}
	return -1
}

type activityRepo struct{ sc *scope }

func (r *activityRepo) Create(ctx context.Context, activity *entity.Activity) error {
	return r.sc.run("activity.create", activity.ID, func(st *state) error {
		st.activities[activity.ID] = *activity
		return nil
	})
}

func (r *activityRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Activity, error) {
	var found *entity.Activity
	err := r.sc.run("activity.find", id, func(st *state) error {
		if a, ok := st.activities[id]; ok {
			found = &a
		}
		return nil
	})
	return found, err
}

func (r *activityRepo) Update(ctx context.Context, activity *entity.Activity) error {
	return r.sc.run("activity.update", activity.ID, func(st *state) error {
		if _, ok := st.activities[activity.ID]; !ok {
			return fmt.Errorf("activity %s: %w", activity.ID, ErrNotFound)
		}
		st.activities[activity.ID] = *activity
		return nil
	})
}

type sessionRepo struct{ sc *scope }

func (r *sessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return r.sc.run("session.create", session.ID, func(st *state) error {
		for i := range session.Dates {
			if session.Dates[i].ID == uuid.Nil {
				session.Dates[i].ID = uuid.New()
			}
			session.Dates[i].SessionID = session.ID
		}
		st.sessions[session.ID] = copySession(*session)
		return nil
	})
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	return r.find("session.find", id)
}

// FindByIDForUpdate needs no row lock: transactions are already serialised.
func (r *sessionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	return r.find("session.find_for_update", id)
}

func (r *sessionRepo) find(op string, id uuid.UUID) (*entity.Session, error) {
	var found *entity.Session
	err := r.sc.run(op, id, func(st *state) error {
		if s, ok := st.sessions[id]; ok {
			s = copySession(s)
			s.Dates = s.SortedDates()
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *sessionRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := r.sc.run("session.list", activityID, func(st *state) error {
		for _, s := range st.sessions {
			if s.ActivityID != activityID {
				continue
			}
			s = copySession(s)
			s.Dates = s.SortedDates()
			sessions = append(sessions, &s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.DatesKnown != b.DatesKnown {
			return !a.DatesKnown
		}
		as, bs := a.EarliestStart(), b.EarliestStart()
		if as.IsZero() != bs.IsZero() {
			return !as.IsZero()
		}
		if !as.Equal(bs) {
			return as.Before(bs)
		}
		return a.ID.String() < b.ID.String()
	})
	return sessions, nil
}

type signupRepo struct{ sc *scope }

func (r *signupRepo) Create(ctx context.Context, signup *entity.Signup) error {
	return r.sc.run("signup.create", signup.ID, func(st *state) error {
		for _, existing := range st.signups {
			if existing.SessionID == signup.SessionID && existing.UserID == signup.UserID {
				return ErrDuplicateSignup
			}
		}
		st.signups[signup.ID] = *signup
		return nil
	})
}

func (r *signupRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Signup, error) {
	var found *entity.Signup
	err := r.sc.run("signup.find", id, func(st *state) error {
		if s, ok := st.signups[id]; ok {
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *signupRepo) FindBySessionAndUser(ctx context.Context, sessionID, userID uuid.UUID) (*entity.Signup, error) {
	var found *entity.Signup
	err := r.sc.run("signup.find_by_session_user", sessionID, func(st *state) error {
		for _, s := range st.signups {
			if s.SessionID == sessionID && s.UserID == userID {
				found = &s
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *signupRepo) FindActiveByActivityAndUser(ctx context.Context, activityID, userID uuid.UUID) ([]*entity.Signup, error) {
	var signups []*entity.Signup
	err := r.sc.run("signup.find_active", activityID, func(st *state) error {
		for _, s := range st.signups {
			if s.UserID != userID {
				continue
			}
			session, ok := st.sessions[s.SessionID]
			if !ok || session.ActivityID != activityID {
				continue
			}
			idx := st.current(s.ID)
			if idx < 0 || !st.statuses[idx].StatusCode.IsActive() {
				continue
			}
			signups = append(signups, &s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(signups, func(i, j int) bool {
		return signups[i].CreatedAt.Before(signups[j].CreatedAt)
	})
	return signups, nil
}

func (r *signupRepo) Update(ctx context.Context, signup *entity.Signup) error {
	return r.sc.run("signup.update", signup.ID, func(st *state) error {
		if _, ok := st.signups[signup.ID]; !ok {
			return fmt.Errorf("signup %s: %w", signup.ID, ErrNotFound)
		}
		st.signups[signup.ID] = *signup
		return nil
	})
}

type statusRepo struct{ sc *scope }

func (r *statusRepo) FindCurrent(ctx context.Context, signupID uuid.UUID) (*entity.SignupStatus, error) {
	var found *entity.SignupStatus
	err := r.sc.run("status.find_current", signupID, func(st *state) error {
		if idx := st.current(signupID); idx >= 0 {
			s := copyStatus(st.statuses[idx])
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *statusRepo) Insert(ctx context.Context, status *entity.SignupStatus) error {
	return r.sc.run("status.insert", status.SignupID, func(st *state) error {
		if !status.Superseded && st.current(status.SignupID) >= 0 {
			return ErrDuplicateCurrent
		}
		st.statuses = append(st.statuses, copyStatus(*status))
		return nil
	})
}

func (r *statusRepo) Supersede(ctx context.Context, signupID, exceptID uuid.UUID) (int64, error) {
	var affected int64
	err := r.sc.run("status.supersede", signupID, func(st *state) error {
		for i := range st.statuses {
			s := &st.statuses[i]
			if s.SignupID == signupID && !s.Superseded && s.ID != exceptID {
				s.Superseded = true
				affected++
			}
		}
		return nil
	})
	return affected, err
}

func (r *statusRepo) CountActive(ctx context.Context, sessionID uuid.UUID, minStatus entity.StatusCode) (int, error) {
	var count int
	err := r.sc.run("status.count_active", sessionID, func(st *state) error {
		for _, s := range st.statuses {
			if s.Superseded || !s.StatusCode.IsAtLeast(minStatus) {
				continue
			}
			if signup, ok := st.signups[s.SignupID]; ok && signup.SessionID == sessionID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *statusRepo) History(ctx context.Context, signupID uuid.UUID) ([]entity.SignupStatus, error) {
	var history []entity.SignupStatus
	err := r.sc.run("status.history", signupID, func(st *state) error {
		for _, s := range st.statuses {
			if s.SignupID == signupID {
				history = append(history, copyStatus(s))
			}
		}
		return nil
	})
	return history, err
}

func (r *statusRepo) ListBySessionAndStatus(ctx context.Context, sessionID uuid.UUID, codes []entity.StatusCode, minStatus entity.StatusCode) ([]entity.Attendee, error) {
	var attendees []entity.Attendee
	err := r.sc.run("status.list", sessionID, func(st *state) error {
		for _, s := range st.statuses {
			if s.Superseded {
				continue
			}
			if len(codes) > 0 {
				if !slices.Contains(codes, s.StatusCode) {
					continue
				}
			} else if !s.StatusCode.IsAtLeast(minStatus) {
				continue
			}
			signup, ok := st.signups[s.SignupID]
			if !ok || signup.SessionID != sessionID {
				continue
			}
			attendees = append(attendees, entity.Attendee{Signup: signup, Status: copyStatus(s)})
		}
		return nil
	})
	return attendees, err
}

type gradeRepo struct{ sc *scope }

func (r *gradeRepo) Record(ctx context.Context, grade *entity.GradeRecord) error {
	return r.sc.run("grade.record", grade.SignupID, func(st *state) error {
		st.grades = append(st.grades, *grade)
		return nil
	})
}

func (r *gradeRepo) RecordGrade(ctx context.Context, signupID, userID uuid.UUID, grade int, actorID uuid.UUID) error {
	return r.Record(ctx, &entity.GradeRecord{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		SignupID:   signupID,
		UserID:     userID,
		Grade:      grade,
		CreatedBy:  actorID,
	})
}

func (r *gradeRepo) FindBySignup(ctx context.Context, signupID uuid.UUID) ([]entity.GradeRecord, error) {
	var grades []entity.GradeRecord
	err := r.sc.run("grade.find", signupID, func(st *state) error {
		for _, g := range st.grades {
			if g.SignupID == signupID {
				grades = append(grades, g)
			}
		}
		return nil
	})
	return grades, err
}
