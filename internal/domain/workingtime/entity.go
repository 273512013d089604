package workingtime

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/pkg/validator"
)

type WorkingTime struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time // calendar day, midnight UTC
	Start      TimeOfDay
	End        *TimeOfDay // nil while checked in
	Type       Type
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOpen reports whether the record has not been closed yet.
func (w WorkingTime) IsOpen() bool {
	return w.End == nil
}

// Type is an open set; these are the values the clients ship with.
type Type string

const (
	TypeWork     Type = "work"
	TypeVacation Type = "vacation"
	TypeSick     Type = "sick"
)

// TimeOfDay is a wall-clock time with second precision, stored as the offset from midnight.
type TimeOfDay time.Duration

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// TimeOfDayOf extracts the clock reading of t, dropping sub-second precision.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, ok := validator.IsValidTimeOfDay(s)
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDayOf(t), nil
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t < u
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
