package engine

import "time"

// EngagementSignal summarizes how consistently a user has been checking
// in. Its confidence bonus feeds the rapid scorer as an external input.
type EngagementSignal struct {
	AnsweredLast7Days int     `json:"answered_last_7_days"`
	StreakDays        int     `json:"streak_days"`
	ConfidenceBonus   float64 `json:"confidence_bonus"`
}

// CurrentStreak counts consecutive check-in days ending today (or
// yesterday, so an unanswered today does not break the streak yet).
// dates must be distinct calendar days.
func CurrentStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d.Format("2006-01-02")] = true
	}
	day := today
	if !set[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
		if !set[day.Format("2006-01-02")] {
			return 0
		}
	}
	streak := 0
	for set[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// BestStreak is the longest run of consecutive check-in days.
func BestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	set := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		set[day.Format("2006-01-02")] = day
	}
	best := 0
	for key, day := range set {
		prev := day.AddDate(0, 0, -1).Format("2006-01-02")
		if _, ok := set[prev]; ok {
			continue // not the start of a run
		}
		length := 0
		cursor := key
		cursorDay := day
		for {
			if _, ok := set[cursor]; !ok {
				break
			}
			length++
			cursorDay = cursorDay.AddDate(0, 0, 1)
			cursor = cursorDay.Format("2006-01-02")
		}
		if length > best {
			best = length
		}
	}
	return best
}

// ComputeEngagement derives the engagement signal from distinct check-in
// dates: +0.03 for 5+ answered days in the trailing week, +0.02 for a 3+
// day streak, capped at +0.05 total.
func ComputeEngagement(dates []time.Time, today time.Time) EngagementSignal {
	weekStart := today.AddDate(0, 0, -(RotationLookbackDays - 1))
	answered := 0
	for _, d := range dates {
		if !d.Before(weekStart) && !d.After(today) {
			answered++
		}
	}
	streak := CurrentStreak(dates, today)
	bonus := 0.0
	if answered >= 5 {
		bonus += 0.03
	}
	if streak >= 3 {
		bonus += 0.02
	}
	if bonus > 0.05 {
		bonus = 0.05
	}
	return EngagementSignal{
		AnsweredLast7Days: answered,
		StreakDays:        streak,
		ConfidenceBonus:   bonus,
	}
}
