package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// SignalKey identifies one of the canonical wellbeing signals.
type SignalKey string

const (
	SignalMood         SignalKey = "mood_score"
	SignalAnxiety      SignalKey = "anxiety_score"
	SignalSleep        SignalKey = "sleep_hours"
	SignalEnergy       SignalKey = "energy_score"
	SignalSocial       SignalKey = "social_score"
	SignalHopelessness SignalKey = "hopelessness_score"
)

// SignalKeys lists every canonical signal in a stable order.
var SignalKeys = []SignalKey{
	SignalMood,
	SignalAnxiety,
	SignalSleep,
	SignalEnergy,
	SignalSocial,
	SignalHopelessness,
}

// SignalVector maps signal keys to values for a single day.
// sleep_hours is on a 0-12 scale, everything else 0-10.
type SignalVector map[SignalKey]float64

var firstNumberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ParseFirstNumber extracts the first signed decimal number embedded in
// free text. Absence of any digit is "not numeric", not an error.
func ParseFirstNumber(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	match := firstNumberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Clamp bounds value into [low, high].
func Clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

// NormalizeScale rescales value from [sourceMin, sourceMax] onto
// [0, targetMax], clamping out-of-range input instead of rejecting it.
func NormalizeScale(value, sourceMin, sourceMax, targetMax float64) float64 {
	if sourceMax == sourceMin {
		return Clamp(value, 0, targetMax)
	}
	ratio := (value - sourceMin) / (sourceMax - sourceMin)
	return Clamp(ratio*targetMax, 0, targetMax)
}

// ParseYesNo interprets yes/no style answers. The second return is false
// when the text is neither.
func ParseYesNo(text string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}

// normalizeSocial maps the three social categories onto social_score.
// "support" is inverted: having support lowers the signal.
func normalizeSocial(category, raw string) (float64, bool) {
	switch category {
	case "isolation":
		flag, ok := ParseYesNo(raw)
		if !ok {
			return 0, false
		}
		if flag {
			return 10, true
		}
		return 0, true
	case "support":
		flag, ok := ParseYesNo(raw)
		if !ok {
			return 0, false
		}
		if flag {
			return 0, true
		}
		return 10, true
	case "connection":
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "connected":
			return 0, true
		case "neutral":
			return 5, true
		case "isolated":
			return 10, true
		}
	}
	return 0, false
}

// NormalizeDailyAnswer maps a raw daily questionnaire answer for a category
// to a canonical signal. The boolean is false when the category is unknown
// or the text cannot be interpreted; the caller simply drops the answer.
func NormalizeDailyAnswer(category, answerText string) (SignalKey, float64, bool) {
	if category == "" {
		return "", 0, false
	}
	numeric, hasNumber := ParseFirstNumber(answerText)
	switch category {
	case "mood", "anxiety", "energy":
		if !hasNumber {
			return "", 0, false
		}
		return SignalKey(category + "_score"), NormalizeScale(numeric, 1, 10, 10), true
	case "sleep":
		if !hasNumber {
			return "", 0, false
		}
		return SignalSleep, Clamp(numeric, 0, 12), true
	case "hopelessness":
		if hasNumber {
			return SignalHopelessness, NormalizeScale(numeric, 1, 10, 10), true
		}
		flag, ok := ParseYesNo(answerText)
		if !ok {
			return "", 0, false
		}
		if flag {
			return SignalHopelessness, 10, true
		}
		return SignalHopelessness, 0, true
	case "isolation", "support", "connection":
		value, ok := normalizeSocial(category, answerText)
		if !ok {
			return "", 0, false
		}
		return SignalSocial, value, true
	}
	return "", 0, false
}

// NormalizeMicroAnswer maps a one-tap micro check-in value to a canonical
// signal. Micro scales are 1-5 and are stretched to 0-10; a value above 5
// is treated as already being on the 1-10 scale.
func NormalizeMicroAnswer(category, raw string) (SignalKey, float64, bool) {
	if category == "" {
		return "", 0, false
	}
	numeric, hasNumber := ParseFirstNumber(raw)
	switch category {
	case "mood", "anxiety", "energy", "hopelessness":
		if !hasNumber {
			return "", 0, false
		}
		var value float64
		if numeric <= 5 {
			value = NormalizeScale(numeric, 1, 5, 10)
		} else {
			value = NormalizeScale(numeric, 1, 10, 10)
		}
		key := SignalKey(category + "_score")
		if category == "hopelessness" {
			key = SignalHopelessness
		}
		return key, value, true
	case "isolation", "support", "connection":
		value, ok := normalizeSocial(category, raw)
		if !ok {
			return "", 0, false
		}
		return SignalSocial, value, true
	}
	return "", 0, false
}
