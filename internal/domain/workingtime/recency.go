package workingtime

import "time"

// RecencyPolicy decides which records may stand for the active work session.
// A record qualifies when it is still open, or when it is closed and dated
// between WindowDays before today and today. The zero value means "today only".
type RecencyPolicy struct {
	WindowDays int
}

// RecencyWindow is the date range, inclusive on both ends, in which a closed record counts as recent.
type RecencyWindow struct {
	Since time.Time
	Until time.Time
}

// Window resolves the policy against today.
func (p RecencyPolicy) Window(today time.Time) RecencyWindow {
	return RecencyWindow{
		Since: today.AddDate(0, 0, -p.WindowDays),
		Until: today,
	}
}

// Includes is the recency predicate. Stores must select exactly the records it accepts.
func (w RecencyWindow) Includes(record WorkingTime) bool {
	if record.IsOpen() {
		return true
	}
	return !record.Date.Before(w.Since) && !record.Date.After(w.Until)
}

func (p RecencyPolicy) IsRecent(record WorkingTime, today time.Time) bool {
	return p.Window(today).Includes(record)
}
