package report_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"barrel/internal/detect"
	"barrel/internal/report"
	"barrel/internal/timeseries"
)

var t0 = time.Date(2015, 8, 26, 4, 30, 0, 0, time.UTC)

func result(corr, sigA, sigB []float64) *detect.Result {
	times := make([]time.Time, len(corr))
	for i := range times {
		times[i] = t0.Add(time.Duration(i) * detect.FastSpectraCadence)
	}
	return &detect.Result{
		Times:             times,
		Channels:          [2]string{"3G_FSPC1a", "3F_FSPC1a"},
		Correlation:       corr,
		Significance:      [2][]float64{sigA, sigB},
		CorrelationWindow: 20,
		BaselineWindow:    6000,
	}
}

func TestSummarizeGroupsCoincidentRuns(t *testing.T) {
	nan := math.NaN()
	r := result(
		[]float64{nan, 0.9, 0.95, 0.2, 0.9, 0.99, 0.99},
		[]float64{nan, 3, 4, 5, 1, 6, 7},
		[]float64{nan, 2.5, 3, 3, 3, 8, 2},
	)
	s, err := report.Summarize(r, report.Thresholds{Significance: 2, Correlation: 0.8}, 10)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Samples != 7 || !s.Start.Equal(t0) {
		t.Fatalf("unexpected span %d from %s", s.Samples, s.Start)
	}
	if s.Coincident != 3 || s.EventCount != 2 || len(s.Events) != 2 {
		t.Fatalf("expected 3 coincident samples in 2 events, got %d/%d/%d", s.Coincident, s.EventCount, len(s.Events))
	}
	first := s.Events[0]
	if first.Samples != 2 || !first.Start.Equal(r.Times[1]) || !first.End.Equal(r.Times[2]) {
		t.Fatalf("unexpected first event %+v", first)
	}
	if first.PeakCorrelation != 0.95 || first.PeakSignificance != [2]float64{4, 3} {
		t.Fatalf("unexpected peaks %+v", first)
	}
	if first.Duration() != 100*time.Millisecond {
		t.Fatalf("unexpected duration %s", first.Duration())
	}
	if s.Events[1].Samples != 1 || !s.Events[1].Start.Equal(r.Times[5]) {
		t.Fatalf("unexpected second event %+v", s.Events[1])
	}

	if s.Channels[0].Defined != 6 || s.Channels[0].Max != 7 || s.Channels[0].Above != 5 {
		t.Fatalf("unexpected channel summary %+v", s.Channels[0])
	}
	if s.Correlation.Defined != 6 || s.Correlation.Max != 0.99 || s.Correlation.Above != 5 {
		t.Fatalf("unexpected correlation summary %+v", s.Correlation)
	}
	if math.IsNaN(s.Channels[1].P99) || s.Channels[1].P99 > s.Channels[1].Max {
		t.Fatalf("p99 %v should not exceed max %v", s.Channels[1].P99, s.Channels[1].Max)
	}
}

func TestSummarizeLimitsListedEvents(t *testing.T) {
	r := result(
		[]float64{0.9, 0, 0.9, 0, 0.9},
		[]float64{3, 3, 3, 3, 3},
		[]float64{3, 3, 3, 3, 3},
	)
	s, err := report.Summarize(r, report.Thresholds{Significance: 2, Correlation: 0.8}, 1)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.EventCount != 3 || len(s.Events) != 1 || s.Coincident != 3 {
		t.Fatalf("expected 3 events with 1 listed, got %d/%d", s.EventCount, len(s.Events))
	}
}

func TestSummarizeAllWarmUpEncodesAsJSON(t *testing.T) {
	nan := math.NaN()
	r := result([]float64{nan, nan}, []float64{nan, nan}, []float64{nan, nan})
	s, err := report.Summarize(r, report.Thresholds{Significance: 2, Correlation: 0.8}, 5)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Coincident != 0 || s.Channels[0].Defined != 0 {
		t.Fatalf("warm-up samples should not count: %+v", s)
	}
	if _, err := json.Marshal(s); err != nil {
		t.Fatalf("summary should encode as JSON: %v", err)
	}
}

func TestSummarizeNilResult(t *testing.T) {
	if _, err := report.Summarize(nil, report.Thresholds{}, 1); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestLabelUsesNearestEphemeris(t *testing.T) {
	r := result([]float64{0.9, 0.9}, []float64{3, 3}, []float64{3, 3})
	s, err := report.Summarize(r, report.Thresholds{Significance: 2, Correlation: 0.8}, 5)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	ephem, err := timeseries.New(
		[]time.Time{t0.Add(-40 * time.Second), t0.Add(30 * time.Second)},
		[]string{"3G_L_Kp2", "3F_L_Kp2", "dist_km"},
		[][]float64{{5.1, 5.2}, {math.NaN(), 6.0}, {120, 130}},
	)
	if err != nil {
		t.Fatalf("timeseries.New: %v", err)
	}
	s.Label(ephem, []string{"3G_L_Kp2", "3F_L_Kp2", "dist_km", "absent"}, 5*time.Minute)
	labels := s.Events[0].Labels
	if labels["3G_L_Kp2"] != 5.2 || labels["dist_km"] != 130 || labels["3F_L_Kp2"] != 6.0 {
		t.Fatalf("unexpected labels %v", labels)
	}
	if _, ok := labels["absent"]; ok {
		t.Fatalf("absent column should be skipped: %v", labels)
	}

	s.Events[0].Labels = nil
	s.Label(ephem, []string{"dist_km"}, 10*time.Second)
	if s.Events[0].Labels != nil {
		t.Fatalf("expected no labels outside tolerance, got %v", s.Events[0].Labels)
	}
}
