// Package dayclock provides the canonical calendar-day source used for
// quota comparisons. All counters compare day keys by string equality,
// never by elapsed time.
package dayclock

import "time"

// DayKeyLayout formats days as zero-padded YYYY-MM-DD so that string
// equality implies same-day.
const DayKeyLayout = "2006-01-02"

// Clock produces the current time and the current day key.
type Clock interface {
	Now() time.Time
	DayKey() string
}

// SystemClock derives day keys from the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a SystemClock pinned to loc. A nil location
// falls back to UTC so day boundaries are stable across server replicas.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

func (c SystemClock) DayKey() string {
	return c.Now().Format(DayKeyLayout)
}

// FixedClock always reports the same instant. Tests use it to pin the
// current day or simulate a rollover.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

func (c FixedClock) DayKey() string { return c.Time.Format(DayKeyLayout) }

// NextDay returns the day key immediately after the given one.
func NextDay(dayKey string) (string, error) {
	day, err := time.Parse(DayKeyLayout, dayKey)
	if err != nil {
		return "", err
	}
	return day.AddDate(0, 0, 1).Format(DayKeyLayout), nil
}
