package engine

import "sort"

// DriftStatus classifies today's deviation from the baseline.
type DriftStatus string

const (
	DriftMissing DriftStatus = "missing"
	DriftDown    DriftStatus = "down"
	DriftStable  DriftStatus = "stable"
	DriftUp      DriftStatus = "up"
)

// driftZThreshold is the z-score (or raw-delta fallback) magnitude at
// which a signal counts as moved.
const driftZThreshold = 1.0

// DriftEntry describes one signal's deviation. Delta and Z are nil when
// the corresponding side of the comparison is unavailable.
type DriftEntry struct {
	Delta  *float64    `json:"delta"`
	Z      *float64    `json:"z"`
	Status DriftStatus `json:"status"`
}

// DriftChange is one ranked entry of the top-changes list.
type DriftChange struct {
	Signal  SignalKey `json:"signal"`
	Delta   float64   `json:"delta"`
	Message string    `json:"message"`
}

// DriftReport is the full output of the drift comparison.
type DriftReport struct {
	Drift           map[SignalKey]DriftEntry `json:"drift"`
	TopChanges      []DriftChange            `json:"top_changes"`
	Confidence      float64                  `json:"confidence"`
	Recommendations []string                 `json:"recommendations"`
}

// ClassifyDrift classifies by z-score when one is computable, otherwise
// falls back to the raw delta with the same thresholds on the 0-10 scale.
func ClassifyDrift(delta, z *float64) DriftStatus {
	if delta == nil {
		return DriftMissing
	}
	if z != nil {
		if *z <= -driftZThreshold {
			return DriftDown
		}
		if *z >= driftZThreshold {
			return DriftUp
		}
	}
	if *delta <= -driftZThreshold {
		return DriftDown
	}
	if *delta >= driftZThreshold {
		return DriftUp
	}
	return DriftStable
}

// driftMessage returns the direction-aware plain-language message for a
// moved signal, or "" for stable/missing ones.
func driftMessage(key SignalKey, status DriftStatus) string {
	if status != DriftUp && status != DriftDown {
		return ""
	}
	switch key {
	case SignalSleep:
		if status == DriftDown {
			return "Sleep is lower than your 2-week baseline."
		}
		return "Sleep is higher than your 2-week baseline."
	case SignalAnxiety:
		if status == DriftUp {
			return "Anxiety is higher than usual."
		}
		return "Anxiety is lower than usual."
	case SignalMood:
		if status == DriftDown {
			return "Mood is lower than your baseline."
		}
		return "Mood is higher than your baseline."
	case SignalEnergy:
		if status == DriftDown {
			return "Energy is lower than your baseline."
		}
		return "Energy is higher than your baseline."
	case SignalSocial:
		if status == DriftUp {
			return "Isolation signals are higher than usual."
		}
		return "Isolation signals are lower than usual."
	case SignalHopelessness:
		if status == DriftUp {
			return "Hopelessness signals are higher than usual."
		}
		return "Hopelessness signals are lower than usual."
	}
	return ""
}

// computeConfidence rewards both a well-populated baseline and a
// fully-answered today.
func computeConfidence(baseline map[SignalKey]SignalStats, today SignalVector) float64 {
	if len(baseline) == 0 {
		return 0.2
	}
	coverageSum := 0.0
	coverageCount := 0
	for _, stats := range baseline {
		coverageSum += stats.CoveragePercent / 100
		coverageCount++
	}
	baselineCoverage := 0.0
	if coverageCount > 0 {
		baselineCoverage = coverageSum / float64(coverageCount)
	}
	todayCoverage := float64(len(today)) / float64(len(SignalKeys))
	return Round2(Clamp(0.5*baselineCoverage+0.5*todayCoverage, 0.05, 0.95))
}

// buildRecommendations emits one message per moved signal in SignalKeys
// order, an aggregate grounding suggestion when 2+ signals moved down, and
// a stability message when nothing moved. Output is capped at 5.
func buildRecommendations(drift map[SignalKey]DriftEntry) []string {
	var messages []string
	downCount := 0
	for _, key := range SignalKeys {
		entry := drift[key]
		if entry.Status == DriftDown {
			downCount++
		}
		if message := driftMessage(key, entry.Status); message != "" {
			messages = append(messages, message)
		}
	}
	if downCount >= 2 {
		messages = append(messages, "Several signals are lower than your baseline. Try a 5-minute grounding or breathing exercise.")
	}
	if len(messages) == 0 {
		messages = append(messages, "Signals look stable compared to your baseline. Keep using the check-in to track changes.")
	}
	if len(messages) > 5 {
		messages = messages[:5]
	}
	return messages
}

// ComputeDrift compares today's signals to the baseline and derives per-
// signal classifications, the 3 largest deviations, a confidence score and
// recommendations.
func ComputeDrift(today SignalVector, baseline map[SignalKey]SignalStats) DriftReport {
	drift := make(map[SignalKey]DriftEntry, len(SignalKeys))
	for _, key := range SignalKeys {
		stats := baseline[key]
		var delta, z *float64
		if todayValue, ok := today[key]; ok && stats.Mean != nil {
			d := Round2(todayValue - *stats.Mean)
			delta = &d
			if stats.Std != nil && *stats.Std > 0 {
				zv := Round2(d / *stats.Std)
				z = &zv
			}
		}
		drift[key] = DriftEntry{
			Delta:  delta,
			Z:      z,
			Status: ClassifyDrift(delta, z),
		}
	}

	var changes []DriftChange
	for _, key := range SignalKeys {
		entry := drift[key]
		if entry.Delta == nil {
			continue
		}
		changes = append(changes, DriftChange{
			Signal:  key,
			Delta:   *entry.Delta,
			Message: driftMessage(key, entry.Status),
		})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return abs(changes[i].Delta) > abs(changes[j].Delta)
	})
	if len(changes) > 3 {
		changes = changes[:3]
	}

	return DriftReport{
		Drift:           drift,
		TopChanges:      changes,
		Confidence:      computeConfidence(baseline, today),
		Recommendations: buildRecommendations(drift),
	}
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
