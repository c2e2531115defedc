package usecase

import (
	"time"

	"facetoface-booking/internal/data/entity"
)

type LifecycleStatus string

const (
	LifecycleNoDates    LifecycleStatus = "no_dates"
	LifecycleNotStarted LifecycleStatus = "not_started"
	LifecycleInProgress LifecycleStatus = "in_progress"
	LifecycleFinished   LifecycleStatus = "finished"
)

type CapacityStatus string

const (
	CapacityOpen CapacityStatus = "open"
	CapacityFull CapacityStatus = "full"
)

// ComputeLifecycleStatus walks the dates in start order and keeps the status
// of the last one, so a later finished date overrides an earlier one in progress.
func ComputeLifecycleStatus(session *entity.Session, now time.Time) LifecycleStatus {
	if !session.DatesKnown {
		return LifecycleNoDates
	}

	status := LifecycleNoDates
	for _, d := range session.SortedDates() {
		switch {
		case !now.Before(d.Finish):
			status = LifecycleFinished
		case now.Before(d.Start):
			status = LifecycleNotStarted
		default:
			status = LifecycleInProgress
		}
	}
	return status
}

// HasSessionStarted reports whether any date of a dated session began before now.
func HasSessionStarted(session *entity.Session, now time.Time) bool {
	if !session.DatesKnown {
		return false
	}
	for _, d := range session.Dates {
		if d.Start.Before(now) {
			return true
		}
	}
	return false
}

func ComputeCapacityStatus(attendeeCount, capacity int, allowOverbook bool) CapacityStatus {
	if attendeeCount >= capacity && !allowOverbook {
		return CapacityFull
	}
	return CapacityOpen
}

// seatsRemaining never goes negative; overbooked sessions report zero.
func seatsRemaining(booked, capacity int) int {
	return max(0, capacity-booked)
}
