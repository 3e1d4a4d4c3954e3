package report

import (
	"errors"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"barrel/internal/detect"
)

// Thresholds are the values above which samples count as significant.
type Thresholds struct {
	Significance float64 `json:"significance"`
	Correlation  float64 `json:"correlation"`
}

// ChannelSummary describes one channel's significance series. Max and P99
// are zero when no sample is defined.
type ChannelSummary struct {
	Channel string  `json:"channel"`
	Defined int     `json:"defined"`
	Max     float64 `json:"max"`
	P99     float64 `json:"p99"`
	Above   int     `json:"above"`
}

// CorrelationSummary describes the rolling correlation series.
type CorrelationSummary struct {
	Defined int     `json:"defined"`
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
	Above   int     `json:"above"`
}

// Event is a run of consecutive coincident samples.
type Event struct {
	Start            time.Time          `json:"start"`
	End              time.Time          `json:"end"`
	Samples          int                `json:"samples"`
	PeakCorrelation  float64            `json:"peak_correlation"`
	PeakSignificance [2]float64         `json:"peak_significance"`
	Labels           map[string]float64 `json:"labels,omitempty"`
}

// Duration is the span covered by the event, including the final sample.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start) + detect.FastSpectraCadence
}

// Summary is the consumer-side view of one detection run.
type Summary struct {
	Samples           int                `json:"samples"`
	Start             time.Time          `json:"start"`
	End               time.Time          `json:"end"`
	CorrelationWindow int                `json:"correlation_window"`
	BaselineWindow    int                `json:"baseline_window"`
	Thresholds        Thresholds         `json:"thresholds"`
	Channels          [2]ChannelSummary  `json:"channels"`
	Correlation       CorrelationSummary `json:"correlation"`
	Coincident        int                `json:"coincident_samples"`
	EventCount        int                `json:"event_count"`
	Events            []Event            `json:"events"`
}

// Summarize applies thresholds to result. At most maxEvents events are
// listed; EventCount always holds the total. maxEvents <= 0 lists none.
func Summarize(result *detect.Result, th Thresholds, maxEvents int) (*Summary, error) {
	if result == nil {
		return nil, errors.New("report: nil detection result")
	}
	s := &Summary{
		Samples:           result.Len(),
		CorrelationWindow: result.CorrelationWindow,
		BaselineWindow:    result.BaselineWindow,
		Thresholds:        th,
		Events:            []Event{},
	}
	if s.Samples > 0 {
		s.Start = result.Times[0]
		s.End = result.Times[s.Samples-1]
	}
	for i, name := range result.Channels {
		s.Channels[i] = summarizeChannel(name, result.Significance[i], th.Significance)
	}
	s.Correlation = summarizeCorrelation(result.Correlation, th.Correlation)

	var current *Event
	for i := 0; i < s.Samples; i++ {
		if !coincident(result, i, th) {
			current = nil
			continue
		}
		s.Coincident++
		if current == nil {
			s.EventCount++
			if len(s.Events) >= maxEvents {
				// Keep counting without listing.
				current = &Event{}
				continue
			}
			s.Events = append(s.Events, Event{Start: result.Times[i]})
			current = &s.Events[len(s.Events)-1]
			current.PeakSignificance = [2]float64{math.Inf(-1), math.Inf(-1)}
			current.PeakCorrelation = math.Inf(-1)
		}
		current.End = result.Times[i]
		current.Samples++
		current.PeakCorrelation = math.Max(current.PeakCorrelation, result.Correlation[i])
		for ch := range current.PeakSignificance {
			current.PeakSignificance[ch] = math.Max(current.PeakSignificance[ch], result.Significance[ch][i])
		}
	}
	return s, nil
}

func coincident(r *detect.Result, i int, th Thresholds) bool {
	c := r.Correlation[i]
	a := r.Significance[0][i]
	b := r.Significance[1][i]
	// NaN comparisons are false, so warm-up samples never qualify.
	return c > th.Correlation && a > th.Significance && b > th.Significance
}

func summarizeChannel(name string, values []float64, threshold float64) ChannelSummary {
	out := ChannelSummary{Channel: name}
	data := defined(values)
	out.Defined = len(data)
	if len(data) == 0 {
		return out
	}
	out.Max, _ = stats.Max(data)
	out.P99, _ = stats.Percentile(data, 99)
	out.Above = countAbove(data, threshold)
	return out
}

func summarizeCorrelation(values []float64, threshold float64) CorrelationSummary {
	var out CorrelationSummary
	data := defined(values)
	out.Defined = len(data)
	if len(data) == 0 {
		return out
	}
	out.Mean, _ = stats.Mean(data)
	out.Max, _ = stats.Max(data)
	out.Above = countAbove(data, threshold)
	return out
}

func defined(values []float64) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func countAbove(data stats.Float64Data, threshold float64) int {
	n := 0
	for _, v := range data {
		if v > threshold {
			n++
		}
	}
	return n
}
