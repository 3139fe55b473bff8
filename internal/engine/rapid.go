package engine

import "strings"

// RapidLevel is the rapid assessment risk tier.
type RapidLevel string

const (
	RapidGreen  RapidLevel = "GREEN"
	RapidYellow RapidLevel = "YELLOW"
	RapidRed    RapidLevel = "RED"
)

const (
	// RapidRedThreshold and RapidYellowThreshold split the additive score
	// into tiers.
	RapidRedThreshold    = 12
	RapidYellowThreshold = 6
	// RapidPlanFloorScore is the minimum score when a self-harm plan or
	// intent is reported, regardless of the additive total.
	RapidPlanFloorScore = 18
	// RapidMinSeconds is the fastest plausible completion time; anything
	// quicker is flagged too_fast.
	RapidMinSeconds = 25
)

// Rapid validity and soft flags.
const (
	FlagTooFast              = "too_fast"
	FlagFailedAttentionCheck = "failed_attention_check"
	FlagDuplicateAnswers     = "duplicate_answers"
	FlagPatternedAnswers     = "patterned_answers"
	FlagExtremeOnlyAnswers   = "extreme_only_answers"
)

// Rapid battery answer slugs.
const (
	SlugRapidMood             = "rapid_mood"
	SlugRapidAnxiety          = "rapid_anxiety"
	SlugRapidHopeless         = "rapid_hopeless"
	SlugRapidIsolation        = "rapid_isolation"
	SlugRapidSleep            = "rapid_sleep"
	SlugRapidAppetite         = "rapid_appetite"
	SlugRapidSupport          = "rapid_support"
	SlugRapidSelfHarmThoughts = "rapid_self_harm_thoughts"
	SlugRapidSelfHarmPlan     = "rapid_self_harm_plan"
	SlugRapidSubstance        = "rapid_substance"
	SlugRapidAttentionCheck   = "rapid_attention_check"
)

// AttentionCheckExpected is the answer the attention-check item must carry.
const AttentionCheckExpected = "sometimes"

// RapidExplanation is one labeled contribution to the rapid score.
type RapidExplanation struct {
	Signal SignalName `json:"signal"`
	Weight int        `json:"weight"`
	Reason string     `json:"reason"`
}

// SignalName labels a rapid rule, distinct from the canonical SignalKey
// vocabulary of the baseline pipeline.
type SignalName string

// RapidResult is the scored outcome of a rapid battery.
type RapidResult struct {
	Level              RapidLevel         `json:"level"`
	Score              int                `json:"score"`
	Signals            []string           `json:"signals"`
	Explanations       []RapidExplanation `json:"explanations"`
	RecommendedActions []string           `json:"recommended_actions"`
	CrisisGuidance     []string           `json:"crisis_guidance,omitempty"`
}

// IsChoice reports whether a choice answer equals the target,
// case-insensitively.
func IsChoice(value, target string) bool {
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(target))
}

func yes(answers map[string]string, slug string) bool {
	flag, ok := ParseYesNo(answers[slug])
	return ok && flag
}

func no(answers map[string]string, slug string) bool {
	flag, ok := ParseYesNo(answers[slug])
	return ok && !flag
}

// ScoreRapid combines the fixed rapid battery into a weighted score, tier
// and ranked explanations. Each rule contributes independently; a reported
// self-harm plan forces RED and floors the score at RapidPlanFloorScore,
// with the override explanation carrying only the incremental weight
// needed to reach the floor.
func ScoreRapid(answersBySlug map[string]string) RapidResult {
	score := 0
	var signals []string
	var explanations []RapidExplanation

	add := func(signal SignalName, weight int, reason string) {
		explanations = append(explanations, RapidExplanation{Signal: signal, Weight: weight, Reason: reason})
		signals = append(signals, reason)
	}

	if mood, ok := ParseFirstNumber(answersBySlug[SlugRapidMood]); ok && mood <= 3 {
		score += 3
		add("low_mood", 3, "Low mood rating")
	}
	if anxiety, ok := ParseFirstNumber(answersBySlug[SlugRapidAnxiety]); ok && anxiety >= 8 {
		score += 3
		add("high_anxiety", 3, "High anxiety rating")
	}
	if yes(answersBySlug, SlugRapidHopeless) {
		score += 4
		add("hopelessness", 4, "Reported hopelessness")
	}
	if yes(answersBySlug, SlugRapidIsolation) {
		score += 2
		add("isolation", 2, "Reported isolation")
	}
	if IsChoice(answersBySlug[SlugRapidSleep], "Poor") {
		score++
		add("poor_sleep", 1, "Poor sleep")
	}
	if IsChoice(answersBySlug[SlugRapidAppetite], "Poor") {
		score++
		add("low_appetite", 1, "Low appetite")
	}
	if no(answersBySlug, SlugRapidSupport) {
		score++
		add("limited_support", 1, "Limited support right now")
	}
	if yes(answersBySlug, SlugRapidSubstance) {
		score++
		add("substance_use", 1, "Substance use today")
	}
	if yes(answersBySlug, SlugRapidSelfHarmThoughts) {
		score += 6
		add("self_harm_thoughts", 6, "Self-harm thoughts")
	}

	var level RapidLevel
	var crisisGuidance []string
	if yes(answersBySlug, SlugRapidSelfHarmPlan) {
		before := score
		level = RapidRed
		if score < RapidPlanFloorScore {
			score = RapidPlanFloorScore
		}
		increment := score - before
		if increment < 0 {
			increment = 0
		}
		add("self_harm_plan", increment, "Self-harm plan or intent")
		crisisGuidance = CrisisResources()
	} else if score >= RapidRedThreshold {
		level = RapidRed
		crisisGuidance = CrisisResources()
	} else if score >= RapidYellowThreshold {
		level = RapidYellow
	} else {
		level = RapidGreen
	}

	return RapidResult{
		Level:              level,
		Score:              score,
		Signals:            dedupe(signals),
		Explanations:       explanations,
		RecommendedActions: RecommendedActions(level),
		CrisisGuidance:     crisisGuidance,
	}
}

// TopExplanations sorts explanations by weight descending (stable) and
// truncates to the 3 shown to the user.
func TopExplanations(explanations []RapidExplanation) []RapidExplanation {
	sorted := make([]RapidExplanation, len(explanations))
	copy(sorted, explanations)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Weight > sorted[j-1].Weight; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	return sorted
}

// RapidValidity evaluates the validity gate for a submission: too-fast
// completion or a failed attention check invalidates it for history and
// baseline purposes without altering the computed score.
func RapidValidity(answersBySlug map[string]string, timeTakenSeconds float64) (invalidFlags []string) {
	if timeTakenSeconds < RapidMinSeconds {
		invalidFlags = append(invalidFlags, FlagTooFast)
	}
	attention := strings.ToLower(strings.TrimSpace(answersBySlug[SlugRapidAttentionCheck]))
	if attention != AttentionCheckExpected {
		invalidFlags = append(invalidFlags, FlagFailedAttentionCheck)
	}
	return invalidFlags
}

// DetectPatternedAnswers reports whether 80%+ of the non-attention-check
// answers are identical (or all of them, when 5+ are present).
func DetectPatternedAnswers(answersBySlug map[string]string) bool {
	var values []string
	for slug, value := range answersBySlug {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if slug == SlugRapidAttentionCheck || trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	if len(values) < 5 {
		return false
	}
	counts := make(map[string]int, len(values))
	mostCommon := 0
	for _, value := range values {
		counts[value]++
		if counts[value] > mostCommon {
			mostCommon = counts[value]
		}
	}
	if mostCommon == len(values) {
		return true
	}
	return float64(mostCommon)/float64(len(values)) >= 0.8
}

// DetectExtremeOnlyAnswers reports whether both mood and anxiety are at
// scale extremes (<=2 or >=9), which reduces confidence in the submission.
func DetectExtremeOnlyAnswers(answersBySlug map[string]string) bool {
	var numeric []float64
	for _, slug := range []string{SlugRapidMood, SlugRapidAnxiety} {
		if value, ok := ParseFirstNumber(answersBySlug[slug]); ok {
			numeric = append(numeric, value)
		}
	}
	if len(numeric) < 2 {
		return false
	}
	for _, value := range numeric {
		if value > 2 && value < 9 {
			return false
		}
	}
	return true
}

// RapidConfidence derives a confidence score from completion time and
// quality flags: 0.6 base, bonuses for unhurried completion, penalties per
// flag, clamped into [0.05, 0.95].
func RapidConfidence(timeTakenSeconds float64, qualityFlags []string) float64 {
	confidence := 0.6
	if timeTakenSeconds >= 60 {
		confidence += 0.15
	} else if timeTakenSeconds >= 35 {
		confidence += 0.10
	}
	for _, flag := range qualityFlags {
		switch flag {
		case FlagTooFast:
			confidence -= 0.20
		case FlagFailedAttentionCheck:
			confidence -= 0.25
		case FlagDuplicateAnswers, FlagPatternedAnswers, FlagExtremeOnlyAnswers:
			confidence -= 0.10
		}
	}
	return Clamp(confidence, 0.05, 0.95)
}

// ApplyEngagementBonus adds an externally derived engagement bonus (from
// recent check-in streaks) to a confidence score, capped at 0.95. The
// scorer accepts the bonus as input; it never computes it.
func ApplyEngagementBonus(confidence, bonus float64) float64 {
	if bonus <= 0 {
		return confidence
	}
	result := confidence + bonus
	if result > 0.95 {
		result = 0.95
	}
	return result
}

// RecommendedActions returns tier-appropriate self-care suggestions.
func RecommendedActions(level RapidLevel) []string {
	switch level {
	case RapidRed:
		return []string{
			"Pause and focus on slow breathing for 2 minutes.",
			"Move to a safer, quieter space if possible.",
			"Reach out to someone you trust and let them know you need support.",
		}
	case RapidYellow:
		return []string{
			"Do a 2-minute grounding exercise (name 5 things you can see).",
			"Drink water and take a short break from screens.",
			"Write down one small next step you can do today.",
		}
	}
	return []string{
		"Take a slow breath and notice how your body feels.",
		"Pick one small, kind action for yourself in the next hour.",
		"Stay connected to a supportive person if you can.",
	}
}

// CrisisResources are always attached to RED results.
func CrisisResources() []string {
	return []string{
		"If you feel unsafe, contact local emergency services.",
		"Reach out to a trusted person or local crisis line.",
		"If you are in the U.S., you can call or text 988 for immediate support.",
	}
}
