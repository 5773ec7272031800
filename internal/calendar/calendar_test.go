package calendar

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustNew(t *testing.T, workingDays []string, holidays []string, unit DurationUnit) *Calendar {
	t.Helper()
	hols := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		hols = append(hols, date(h))
	}
	c, err := New(workingDays, hols, unit)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestIsWorkingDay_DefaultWeek(t *testing.T) {
	c := mustNew(t, nil, nil, UnitWorkingDays)

	// 2025-01-06 is a Monday
	if !c.IsWorkingDay(date("2025-01-06")) {
		t.Error("expected Monday to be a working day")
	}
	if c.IsWorkingDay(date("2025-01-04")) {
		t.Error("expected Saturday to be non-working")
	}
	if c.IsWorkingDay(date("2025-01-05")) {
		t.Error("expected Sunday to be non-working")
	}
}

func TestIsWorkingDay_Holiday(t *testing.T) {
	c := mustNew(t, nil, []string{"2025-01-06"}, UnitWorkingDays)

	if c.IsWorkingDay(date("2025-01-06")) {
		t.Error("expected holiday Monday to be non-working")
	}
	if !c.IsWorkingDay(date("2025-01-07")) {
		t.Error("expected Tuesday after holiday to be working")
	}
}

func TestIsWorkingDay_TimeOfDayIgnored(t *testing.T) {
	c := mustNew(t, nil, []string{"2025-01-06"}, UnitWorkingDays)

	noon := time.Date(2025, 1, 6, 12, 30, 0, 0, time.UTC)
	if c.IsWorkingDay(noon) {
		t.Error("expected holiday match regardless of time of day")
	}
}

func TestIsWorkingDay_SixDayWeek(t *testing.T) {
	c := mustNew(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, nil, UnitWorkingDays)

	if !c.IsWorkingDay(date("2025-01-04")) {
		t.Error("expected Saturday to be working in a six-day week")
	}
	if c.IsWorkingDay(date("2025-01-05")) {
		t.Error("expected Sunday to remain non-working")
	}
}

func TestNew_UnknownWeekday(t *testing.T) {
	if _, err := New([]string{"Monday"}, nil, UnitWorkingDays); err == nil {
		t.Fatal("expected error for full weekday name")
	}
}

func TestAddWorkingDays_SkipsWeekend(t *testing.T) {
	c := mustNew(t, nil, nil, UnitWorkingDays)

	// Friday + 1 working day = Monday
	got := c.AddWorkingDays(date("2025-01-10"), 1)
	if want := date("2025-01-13"); !got.Equal(want) {
		t.Errorf("Friday+1 = %s, want %s", got.Format(DateLayout), want.Format(DateLayout))
	}
}

func TestAddWorkingDays_SkipsHoliday(t *testing.T) {
	c := mustNew(t, nil, []string{"2025-01-13"}, UnitWorkingDays)

	// Friday + 1 working day, Monday is a holiday → Tuesday
	got := c.AddWorkingDays(date("2025-01-10"), 1)
	if want := date("2025-01-14"); !got.Equal(want) {
		t.Errorf("got %s, want %s", got.Format(DateLayout), want.Format(DateLayout))
	}
}

func TestAddWorkingDays_Zero(t *testing.T) {
	c := mustNew(t, nil, nil, UnitWorkingDays)

	start := date("2025-01-08")
	if got := c.AddWorkingDays(start, 0); !got.Equal(start) {
		t.Errorf("expected start unchanged, got %s", got.Format(DateLayout))
	}
}

func TestAddWorkingDays_Negative(t *testing.T) {
	c := mustNew(t, nil, nil, UnitWorkingDays)

	// Monday - 1 working day = Friday
	got := c.AddWorkingDays(date("2025-01-13"), -1)
	if want := date("2025-01-10"); !got.Equal(want) {
		t.Errorf("Monday-1 = %s, want %s", got.Format(DateLayout), want.Format(DateLayout))
	}
}

func TestAddWorkingDays_CalendarMode(t *testing.T) {
	c := mustNew(t, nil, nil, UnitCalendarDays)

	got := c.AddWorkingDays(date("2025-01-10"), 3)
	if want := date("2025-01-13"); !got.Equal(want) {
		t.Errorf("got %s, want %s", got.Format(DateLayout), want.Format(DateLayout))
	}
	got = c.AddWorkingDays(date("2025-01-10"), -3)
	if want := date("2025-01-07"); !got.Equal(want) {
		t.Errorf("got %s, want %s", got.Format(DateLayout), want.Format(DateLayout))
	}
}

func TestDaysBetween_HalfOpen(t *testing.T) {
	c := mustNew(t, nil, nil, UnitWorkingDays)

	// Mon..Fri: [Mon, Fri) = 4 working days
	if got := c.DaysBetween(date("2025-01-06"), date("2025-01-10")); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
	// Across a weekend: [Fri, Mon) = 1
	if got := c.DaysBetween(date("2025-01-10"), date("2025-01-13")); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := c.DaysBetween(date("2025-01-06"), date("2025-01-06")); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestDaysBetween_SignedWhenReversed(t *testing.T) {
	c := mustNew(t, nil, nil, UnitWorkingDays)

	if got := c.DaysBetween(date("2025-01-10"), date("2025-01-06")); got != -4 {
		t.Errorf("got %d, want -4", got)
	}

	cal := mustNew(t, nil, nil, UnitCalendarDays)
	if got := cal.DaysBetween(date("2025-01-10"), date("2025-01-06")); got != -4 {
		t.Errorf("calendar mode: got %d, want -4", got)
	}
}

func TestAddDaysBetween_RoundTrip(t *testing.T) {
	c := mustNew(t, nil, []string{"2025-01-01", "2025-12-25"}, UnitWorkingDays)

	start := date("2024-12-30")
	for n := 0; n <= 30; n++ {
		end := c.AddWorkingDays(start, n)
		if got := c.DaysBetween(start, end); got != n {
			t.Fatalf("round trip failed for n=%d: got %d", n, got)
		}
	}
}
