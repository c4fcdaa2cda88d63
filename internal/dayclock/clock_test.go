package dayclock

import (
	"testing"
	"time"
)

func TestSystemClockDayKeyIsZeroPadded(t *testing.T) {
	clock := NewSystemClock(time.UTC)
	key := clock.DayKey()
	if len(key) != 10 {
		t.Fatalf("expected YYYY-MM-DD day key, got %q", key)
	}
	if _, err := time.Parse(DayKeyLayout, key); err != nil {
		t.Fatalf("day key %q does not parse: %v", key, err)
	}
}

func TestSystemClockNilLocationDefaultsToUTC(t *testing.T) {
	clock := SystemClock{}
	if got := clock.Now().Location(); got != time.UTC {
		t.Fatalf("expected UTC, got %v", got)
	}
}

func TestFixedClockDayKey(t *testing.T) {
	clock := FixedClock{Time: time.Date(2024, 1, 9, 23, 59, 0, 0, time.UTC)}
	if got := clock.DayKey(); got != "2024-01-09" {
		t.Fatalf("expected 2024-01-09, got %q", got)
	}
}

func TestNextDay(t *testing.T) {
	next, err := NextDay("2024-01-31")
	if err != nil {
		t.Fatalf("next day: %v", err)
	}
	if next != "2024-02-01" {
		t.Fatalf("expected 2024-02-01, got %q", next)
	}

	if _, err := NextDay("not-a-day"); err == nil {
		t.Fatalf("expected error for malformed day key")
	}
}

func TestDayKeyRespectsLocation(t *testing.T) {
	// 2024-01-02T03:00 UTC is still 2024-01-01 in UTC-5.
	loc := time.FixedZone("UTC-5", -5*60*60)
	instant := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	clock := FixedClock{Time: instant.In(loc)}
	if got := clock.DayKey(); got != "2024-01-01" {
		t.Fatalf("expected 2024-01-01 in UTC-5, got %q", got)
	}
}
