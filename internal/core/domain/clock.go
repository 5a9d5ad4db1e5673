package domain

import "time"

// Clock supplies the current instant and the logical issue date. Sequence
// scopes are keyed by the calendar day in the counter hall's operating
// timezone, not by wall-clock UTC, so two requests racing across midnight
// land in the scope their local day dictates.
type Clock interface {
	Now() time.Time
	// Today returns midnight of the current day in the operating timezone.
	Today() time.Time
}

// WallClock is the production Clock, pinned to one location.
type WallClock struct {
	Location *time.Location
}

// NewWallClock builds a clock for the given operating timezone; a nil
// location falls back to UTC.
func NewWallClock(loc *time.Location) WallClock {
	if loc == nil {
		loc = time.UTC
	}
	return WallClock{Location: loc}
}

func (c WallClock) Now() time.Time {
	return time.Now().In(c.Location)
}

func (c WallClock) Today() time.Time {
	return DateOf(c.Now())
}

// DateOf truncates an instant to midnight of its calendar day, keeping the
// location so date equality is stable within one timezone.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
