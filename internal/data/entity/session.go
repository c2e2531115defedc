package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// SessionDate is one start/finish range of a session.
type SessionDate struct {
	ID        uuid.UUID `db:"id"`
	SessionID uuid.UUID `db:"session_id"`
	Start     time.Time `db:"time_start"`
	Finish    time.Time `db:"time_finish"`
}

// Session is a schedulable event of an Activity. A session without known
// dates is a waitlist-only session.
type Session struct {
	Base
	ActivityID    uuid.UUID `db:"activity_id"`
	Capacity      int       `db:"capacity"`
	AllowOverbook bool      `db:"allow_overbook"`
	DatesKnown    bool      `db:"dates_known"`
	Details       string    `db:"details"`
	Duration      int       `db:"duration"` // minutes
	// Costs are nil when the session has no price set.
	NormalCost    *float64  `db:"normal_cost"`
	DiscountCost  *float64  `db:"discount_cost"`

	Dates      []SessionDate
	CustomData map[string]string
	// Trainers maps a role name to the users holding it.
	Trainers map[string][]uuid.UUID
}

// SortedDates returns a copy of the dates ordered by start time.
func (s *Session) SortedDates() []SessionDate {
	dates := make([]SessionDate, len(s.Dates))
	copy(dates, s.Dates)
	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i].Start.Before(dates[j].Start)
	})
	return dates
}

// EarliestStart returns the first start time, or zero when there are no dates.
func (s *Session) EarliestStart() time.Time {
	dates := s.SortedDates()
	if len(dates) == 0 {
		return time.Time{}
	}
	return dates[0].Start
}

// Cost returns the price a signup pays depending on whether a discount code was
// used. It is nil when no applicable cost is set.
func (s *Session) Cost(discountCode *string) *float64 {
	if discountCode != nil && *discountCode != "" && s.DiscountCost != nil {
		return s.DiscountCost
	}
	return s.NormalCost
}
