package calendar

import (
	"context"
	"sync"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEasterSundayReferenceYears(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2026, time.April, 5},
		{2027, time.March, 28},
		{2000, time.April, 23},
		{1999, time.April, 4},
	}

	for _, tc := range cases {
		got := easterSunday(tc.year)
		if got.Month() != tc.month || got.Day() != tc.day {
			t.Errorf("easterSunday(%d) = %s, want %s %d", tc.year, got.Format("2006-01-02"), tc.month, tc.day)
		}
	}
}

func TestEasterDerivedHolidays(t *testing.T) {
	svc := NewService(nil)

	// Easter 2024 is March 31, so Good Friday is March 29.
	h, ok := svc.GetHoliday(date(2024, time.March, 29))
	if !ok {
		t.Fatal("expected Good Friday 2024 to be a holiday")
	}
	if h.Name != "Viernes Santo" {
		t.Errorf("expected Viernes Santo, got %s", h.Name)
	}
	if !h.HighDemand {
		t.Error("Good Friday should be flagged high demand")
	}

	if _, ok := svc.GetHoliday(date(2024, time.March, 28)); !ok {
		t.Error("expected Maundy Thursday 2024-03-28 to be a holiday")
	}
}

func TestFixedHolidays(t *testing.T) {
	svc := NewService(nil)

	if !svc.IsHoliday(date(2025, time.January, 1)) {
		t.Error("Jan 1 should be a holiday")
	}
	if !svc.IsHoliday(date(2025, time.December, 25)) {
		t.Error("Dec 25 should be a holiday")
	}
	if svc.IsHoliday(date(2025, time.March, 3)) {
		t.Error("Mar 3 should not be a holiday")
	}
}

func TestHighDemandLayering(t *testing.T) {
	svc := NewService(nil)

	// High-demand holiday.
	if !svc.IsHighDemand(date(2025, time.December, 25)) {
		t.Error("Christmas should be high demand")
	}
	// Ordinary holiday is not high demand by itself.
	if svc.IsHighDemand(date(2025, time.October, 12)) {
		t.Error("Oct 12 should not be high demand")
	}

	// Curated window layered on top of a plain week.
	window := &DemandWindow{
		Year:      2025,
		Name:      "Feria local",
		StartDate: date(2025, time.June, 9),
		EndDate:   date(2025, time.June, 15),
	}
	if err := svc.AddDemandWindow(context.Background(), window); err != nil {
		t.Fatalf("add window failed: %v", err)
	}

	if !svc.IsHighDemand(date(2025, time.June, 11)) {
		t.Error("date inside curated window should be high demand")
	}
	if svc.IsHighDemand(date(2025, time.June, 16)) {
		t.Error("date after curated window should not be high demand")
	}
	if svc.IsHoliday(date(2025, time.June, 11)) {
		t.Error("curated window must not turn dates into holidays")
	}
}

func TestConcurrentWindowReadsAndEdits(t *testing.T) {
	svc := NewService(nil)
	const year = 2031

	// Warm the year cache so readers and the writer share one entry.
	svc.IsHighDemand(date(year, time.January, 10))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					svc.IsHighDemand(date(year, time.June, 11))
					svc.ListDemandWindows(year)
				}
			}
		}()
	}

	const edits = 200
	for i := 0; i < edits; i++ {
		window := &DemandWindow{
			Year:      year,
			Name:      "Feria local",
			StartDate: date(year, time.June, 9),
			EndDate:   date(year, time.June, 15),
		}
		if err := svc.AddDemandWindow(context.Background(), window); err != nil {
			t.Fatalf("add window failed: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	if !svc.IsHighDemand(date(year, time.June, 11)) {
		t.Error("curated window should be visible after concurrent edits")
	}
	if got := len(svc.ListDemandWindows(year)); got != edits {
		t.Errorf("expected %d windows, got %d", edits, got)
	}
}

func TestLazyYearComputation(t *testing.T) {
	svc := NewService(nil)

	// A far future year must be computable on first request.
	if !svc.IsHoliday(date(2042, time.January, 1)) {
		t.Error("lazily computed year should include fixed holidays")
	}
	// Easter 2042 is April 6.
	if !svc.IsHoliday(date(2042, time.April, 6)) {
		t.Error("lazily computed year should include Easter Sunday")
	}
}
