package timezone_test

import (
	"testing"
	"time"

	"hotel/shared/timezone"
)

func TestTimezoneFormat(t *testing.T) {
	if got := timezone.Format(time.Time{}, time.RFC3339); got != "" {
		t.Errorf("Format() of zero time = %q, want empty", got)
	}

	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	want := testTime.In(timezone.GetLocation()).Format(time.RFC3339)

	if got := timezone.Format(testTime, time.RFC3339); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if parsed.Location() != timezone.GetLocation() {
		t.Errorf("Parse() location = %s, want %s", parsed.Location(), timezone.GetLocation())
	}
}

func TestDateHelpers(t *testing.T) {
	instant := time.Date(2024, 6, 1, 23, 59, 59, 0, time.FixedZone("UTC-3", -3*60*60))

	date := timezone.DateOf(instant)
	if !date.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DateOf() = %v, want 2024-06-01 UTC midnight", date)
	}

	parsed, err := timezone.ParseDate("2024-06-05")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}

	if got := timezone.FormatDate(parsed); got != "2024-06-05" {
		t.Errorf("FormatDate() = %s, want 2024-06-05", got)
	}

	if got := timezone.FormatDate(timezone.AddDays(parsed, 90)); got != "2024-09-03" {
		t.Errorf("AddDays() = %s, want 2024-09-03", got)
	}

	if _, err := timezone.ParseDate("05/06/2024"); err == nil {
		t.Error("ParseDate() accepted a non ISO date")
	}
}

func TestToday(t *testing.T) {
	clock := timezone.ClockFunc(func() time.Time {
		return time.Date(2024, 6, 1, 12, 0, 0, 0, timezone.GetLocation())
	})

	today := timezone.Today(clock)
	if timezone.FormatDate(today) != "2024-06-01" {
		t.Errorf("Today() = %s, want 2024-06-01", timezone.FormatDate(today))
	}

	if today.Hour() != 0 || today.Location() != time.UTC {
		t.Errorf("Today() should be UTC midnight, got %v", today)
	}
}

func TestDaysBetween(t *testing.T) {
	luanda := time.FixedZone("WAT", 60*60)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{name: "midnights", from: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), to: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), want: 4},
		{name: "times of day ignored", from: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC), to: time.Date(2024, 6, 5, 1, 0, 0, 0, time.UTC), want: 4},
		{name: "fixed zone dates", from: time.Date(2024, 6, 1, 0, 0, 0, 0, luanda), to: time.Date(2024, 6, 3, 0, 0, 0, 0, luanda), want: 2},
		{name: "same day", from: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), to: time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC), want: 0},
		{name: "reversed", from: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), to: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), want: -2},
		{name: "across leap day", from: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), to: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timezone.DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
