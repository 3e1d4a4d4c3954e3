package align_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"barrel/internal/align"
	"barrel/internal/timeseries"
)

func TestConcatDaysOrdersByFlightDay(t *testing.T) {
	day2 := day1.Add(24 * time.Hour)
	first := series(t, day1, time.Minute, "3G_GPS_Alt", make([]float64, 100)...)
	second := series(t, day2, time.Minute, "3G_GPS_Alt", make([]float64, 80)...)

	merged, err := align.ConcatDays(map[string]*timeseries.Table{
		"20150826": second,
		"20150825": first,
	})
	if err != nil {
		t.Fatalf("ConcatDays: %v", err)
	}
	if merged.Len() != 180 {
		t.Fatalf("expected 180 rows, got %d", merged.Len())
	}
	for i := 1; i < merged.Len(); i++ {
		if !merged.Time(i).After(merged.Time(i - 1)) {
			t.Fatalf("row %d not strictly after row %d", i, i-1)
		}
	}
	if !merged.Time(99).Before(day2) || merged.Time(100).Before(day2) {
		t.Fatal("day-1 rows must precede all day-2 rows")
	}
}

func TestConcatDaysFillsMissingColumns(t *testing.T) {
	first := series(t, day1, time.Second, "a", 1, 2)
	second := series(t, day1.Add(time.Hour), time.Second, "b", 3)

	merged, err := align.ConcatDays(map[string]*timeseries.Table{"1": first, "2": second})
	if err != nil {
		t.Fatalf("ConcatDays: %v", err)
	}
	a, _ := merged.Column("a")
	b, _ := merged.Column("b")
	if !math.IsNaN(a[2]) || !math.IsNaN(b[0]) || b[2] != 3 {
		t.Fatalf("unexpected fill: a=%v b=%v", a, b)
	}
}

func TestMergeDaysWrapsFlightDay(t *testing.T) {
	table := series(t, day1, time.Second, "a", 1)
	days := map[string][]align.Payload{
		"20150825": {{ID: "3G", Table: table}, {ID: "3F", Table: table}},
		"20150826": {{ID: "3G", Table: table}},
	}
	_, _, err := align.MergeDays(days, time.Second)
	if err == nil || !strings.Contains(err.Error(), "20150826") {
		t.Fatalf("expected failure naming the incomplete day, got %v", err)
	}

	delete(days, "20150826")
	merged, stats, err := align.MergeDays(days, time.Second)
	if err != nil {
		t.Fatalf("MergeDays: %v", err)
	}
	if merged["20150825"].Len() != 1 || stats["20150825"].Matched != 1 {
		t.Fatalf("unexpected merge result: %+v", stats)
	}
}
