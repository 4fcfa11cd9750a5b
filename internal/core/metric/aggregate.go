// Package metric contains pure aggregation helpers for metric samples.
package metric

import "time"

// Sample is one measured value of a metric at a point in time.
type Sample struct {
	Value     float64
	Timestamp time.Time
}

// Latest returns the most recent sample. Returns false when the slice
// is empty.
func Latest(samples []Sample) (Sample, bool) {
	if len(samples) == 0 {
		return Sample{}, false
	}
	latest := samples[0]
	for _, s := range samples[1:] {
		if s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	return latest, true
}

// Average returns the arithmetic mean of all sample values. Returns
// false when the slice is empty.
func Average(samples []Sample) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.Value
	}
	return sum / float64(len(samples)), true
}

// Baseline computes the historical baseline for deviation checks: the
// average of the samples preceding the latest one, limited to the most
// recent window entries when window > 0. Returns false when there is no
// history to average (fewer than two samples).
func Baseline(samples []Sample, window int) (float64, bool) {
	if len(samples) < 2 {
		return 0, false
	}

	sorted := sortByTime(samples)
	history := sorted[:len(sorted)-1]
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	return Average(history)
}

// DeviationRatio returns current/baseline. Returns false when the
// baseline is zero, since the ratio is undefined there.
func DeviationRatio(current, baseline float64) (float64, bool) {
	if baseline == 0 {
		return 0, false
	}
	return current / baseline, true
}

func sortByTime(samples []Sample) []Sample {
	out := append([]Sample(nil), samples...)
	// Insertion sort - sample windows are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Timestamp.Before(out[j-1].Timestamp); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
