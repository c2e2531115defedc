package entity

import (
	"fmt"
	"strings"
)

// StatusCode is a signup lifecycle state. Higher values are further along
// the lifecycle, so range checks like "booked or later" compare numerically.
type StatusCode int

// Values leave gaps of ten for codes that may be added between existing ones.
const (
	StatusUserCancelled     StatusCode = 10
	StatusDeclined          StatusCode = 30
	StatusRequested         StatusCode = 40
	StatusApproved          StatusCode = 50
	StatusWaitlisted        StatusCode = 60
	StatusBooked            StatusCode = 70
	StatusNoShow            StatusCode = 80
	StatusPartiallyAttended StatusCode = 90
	StatusFullyAttended     StatusCode = 100
)

var statusNames = map[StatusCode]string{
	StatusUserCancelled:     "user_cancelled",
	StatusDeclined:          "declined",
	StatusRequested:         "requested",
	StatusApproved:          "approved",
	StatusWaitlisted:        "waitlisted",
	StatusBooked:            "booked",
	StatusNoShow:            "no_show",
	StatusPartiallyAttended: "partially_attended",
	StatusFullyAttended:     "fully_attended",
}

// AllStatusCodes lists every known code in lifecycle order.
func AllStatusCodes() []StatusCode {
	return []StatusCode{
		StatusUserCancelled,
		StatusDeclined,
		StatusRequested,
		StatusApproved,
		StatusWaitlisted,
		StatusBooked,
		StatusNoShow,
		StatusPartiallyAttended,
		StatusFullyAttended,
	}
}

// Valid reports whether c is one of the known codes.
func (c StatusCode) Valid() bool {
	_, ok := statusNames[c]
	return ok
}

func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(c))
}

// Compare returns -1, 0 or 1 following lifecycle order.
func (c StatusCode) Compare(other StatusCode) int {
	switch {
	case c < other:
		return -1
	case c > other:
		return 1
	default:
		return 0
	}
}

// IsAtLeast reports whether c is at or beyond threshold in the lifecycle.
func (c StatusCode) IsAtLeast(threshold StatusCode) bool {
	return c.Compare(threshold) >= 0
}

// IsActive reports whether c is a live booking: requested up to booked.
// Cancelled, declined and attendance outcomes are not active.
func (c StatusCode) IsActive() bool {
	return c.IsAtLeast(StatusRequested) && c < StatusNoShow
}

// IsAttendance reports whether c is an attendance outcome.
func (c StatusCode) IsAttendance() bool {
	return c.IsAtLeast(StatusNoShow)
}

// ParseStatusCode resolves a status name such as "fully_attended".
func ParseStatusCode(name string) (StatusCode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for code, n := range statusNames {
		if n == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

func (c StatusCode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown status code %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *StatusCode) UnmarshalText(text []byte) error {
	code, err := ParseStatusCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}
