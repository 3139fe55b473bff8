package engine

import (
	"regexp"
	"strings"
)

// CrisisLevel is the severity tier of a crisis detection.
type CrisisLevel string

const (
	CrisisNone     CrisisLevel = "none"
	CrisisElevated CrisisLevel = "elevated"
	CrisisHigh     CrisisLevel = "high"
)

// CrisisInput carries the structured flags evaluated alongside free text.
// Pointer fields distinguish "not reported" from zero.
type CrisisInput struct {
	SelfHarmPlan      bool
	SelfHarmIntent    bool
	SelfHarmThoughts  bool
	HopelessnessScore *float64
	RiskScore         *int
}

// CrisisResult is the outcome of a crisis scan. MatchedTerms preserves
// first-match order with duplicates removed.
type CrisisResult struct {
	IsCrisis     bool        `json:"is_crisis"`
	Level        CrisisLevel `json:"level"`
	MatchedTerms []string    `json:"matched_terms"`
	Reason       string      `json:"reason"`
}

// highPattern pairs a pattern name with its compiled whole-word regex.
type highPattern struct {
	name string
	re   *regexp.Regexp
}

var highPatterns = compileHighPatterns([]string{
	`kill myself`,
	`i will kill myself`,
	`i am going to kill myself`,
	`commit suicide`,
	`suicide`,
	`suicidal`,
	`end my life`,
	`end it all`,
	`want to die`,
	`plan to (die|kill myself|end my life|end it)`,
})

func compileHighPatterns(phrases []string) []highPattern {
	patterns := make([]highPattern, 0, len(phrases))
	for _, phrase := range phrases {
		patterns = append(patterns, highPattern{
			name: phrase,
			re:   regexp.MustCompile(`\b` + phrase + `\b`),
		})
	}
	return patterns
}

// elevatedTerms is a looser substring list than the HIGH patterns.
var elevatedTerms = []string{
	"self-harm",
	"self harm",
	"hurt myself",
	"cut myself",
	"overdose",
	"no reason to live",
	"can't go on",
	"cant go on",
	"no way out",
	"better off dead",
	"end it",
	"hopeless",
}

var selfHarmHintTerms = []string{"self-harm", "self harm", "hurt myself", "cut myself"}

var alarmingTerms = []string{"can't go on", "no way out", "better off dead"}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	result := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		result = append(result, term)
	}
	return result
}

// DetectCrisis scans free text plus structured flags for self-harm risk.
// HIGH is evaluated first and short-circuits; ELEVATED requires structured
// corroboration alongside distress language. The detector fails open to
// none rather than erroring.
func DetectCrisis(texts []string, structured CrisisInput) CrisisResult {
	combined := strings.ToLower(strings.Join(texts, " "))

	var highMatches []string
	for _, pattern := range highPatterns {
		if pattern.re.MatchString(combined) {
			highMatches = append(highMatches, pattern.name)
		}
	}
	if structured.SelfHarmPlan || structured.SelfHarmIntent {
		highMatches = append(highMatches, "self_harm_plan")
	}
	if len(highMatches) > 0 {
		return CrisisResult{
			IsCrisis:     true,
			Level:        CrisisHigh,
			MatchedTerms: dedupe(highMatches),
			Reason:       "Explicit self-harm intent or plan detected.",
		}
	}

	var elevatedMatches []string
	for _, term := range elevatedTerms {
		if strings.Contains(combined, term) {
			elevatedMatches = append(elevatedMatches, term)
		}
	}

	hopelessFlag := structured.HopelessnessScore != nil && *structured.HopelessnessScore >= 8
	selfHarmHint := structured.SelfHarmThoughts || containsAny(combined, selfHarmHintTerms)
	alarmingText := containsAny(combined, alarmingTerms)
	highRisk := structured.RiskScore != nil && *structured.RiskScore >= 18

	if (hopelessFlag && selfHarmHint) || (highRisk && alarmingText) {
		return CrisisResult{
			IsCrisis:     true,
			Level:        CrisisElevated,
			MatchedTerms: dedupe(elevatedMatches),
			Reason:       "Elevated risk signals with distress language.",
		}
	}

	return CrisisResult{
		IsCrisis:     false,
		Level:        CrisisNone,
		MatchedTerms: dedupe(elevatedMatches),
		Reason:       "",
	}
}
