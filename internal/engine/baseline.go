package engine

import (
	"math"
	"sort"
	"time"
)

const (
	// MinBaselineSamples is the minimum number of sampled days before a
	// signal's statistics are reported.
	MinBaselineSamples = 7
	// MinBaselineCoverage is the minimum coverage percentage before a
	// signal's statistics are reported.
	MinBaselineCoverage = 70.0
)

// SignalStats holds per-signal baseline statistics. Mean, Median and Std
// stay nil until the coverage gate passes: nil means "not enough
// evidence", which is distinct from a value of zero.
type SignalStats struct {
	Mean            *float64 `json:"mean"`
	Median          *float64 `json:"median"`
	Std             *float64 `json:"std"`
	CoveragePercent float64  `json:"coverage_percent"`
	Samples         int      `json:"samples"`
}

// BaselineSnapshot is an immutable view of a user's trailing-window
// statistics. Recomputing from the same inputs yields an identical value.
type BaselineSnapshot struct {
	WindowDays int                       `json:"window_days"`
	StartDate  string                    `json:"start_date"`
	EndDate    string                    `json:"end_date"`
	Signals    map[SignalKey]SignalStats `json:"signals"`
}

// Round2 rounds to 2 decimal places. All derived floats use it so output
// stays stable across reimplementations.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// populationStd is the population standard deviation: the baseline
// describes the observed window itself, not an inference about a larger
// population.
func populationStd(values []float64) float64 {
	m := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - m
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// ComputeSignalStats aggregates one signal's sampled values over a window.
// Statistics populate only when samples >= MinBaselineSamples and coverage
// >= MinBaselineCoverage; a single gated sample reports std 0.0 by
// convention rather than nil.
func ComputeSignalStats(values []float64, windowDays int) SignalStats {
	samples := len(values)
	coverage := 0.0
	if windowDays > 0 {
		coverage = Round2(float64(samples) / float64(windowDays) * 100)
	}
	stats := SignalStats{
		CoveragePercent: coverage,
		Samples:         samples,
	}
	if samples >= MinBaselineSamples && coverage >= MinBaselineCoverage {
		m := Round2(mean(values))
		md := Round2(median(values))
		sd := 0.0
		if samples >= 2 {
			sd = Round2(populationStd(values))
		}
		stats.Mean = &m
		stats.Median = &md
		stats.Std = &sd
	}
	return stats
}

// ComputeBaseline builds a snapshot from per-day signal vectors. Days
// outside [start, end] contribute nothing; each signal is aggregated
// independently.
func ComputeBaseline(signalsByDay map[time.Time]SignalVector, windowDays int, start, end time.Time) BaselineSnapshot {
	valuesByKey := make(map[SignalKey][]float64, len(SignalKeys))

	days := make([]time.Time, 0, len(signalsByDay))
	for day := range signalsByDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, day := range days {
		if day.Before(start) || day.After(end) {
			continue
		}
		vector := signalsByDay[day]
		for _, key := range SignalKeys {
			if value, ok := vector[key]; ok {
				valuesByKey[key] = append(valuesByKey[key], value)
			}
		}
	}

	signals := make(map[SignalKey]SignalStats, len(SignalKeys))
	for _, key := range SignalKeys {
		signals[key] = ComputeSignalStats(valuesByKey[key], windowDays)
	}

	return BaselineSnapshot{
		WindowDays: windowDays,
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Signals:    signals,
	}
}
