package engine

import (
	"regexp"
	"strings"
)

// Quality flags, persisted bit-exact by callers.
const (
	FlagTooShort            = "too_short"
	FlagLowWordCount        = "low_word_count"
	FlagRepeatedCharacters  = "repeated_characters"
	FlagKeyboardSmash       = "keyboard_smash"
	FlagRepeatedTokens      = "repeated_tokens"
	FlagProfanityOnly       = "profanity_only"
	FlagDuplicateRecent     = "duplicate_recent"
	FlagRapidSubmissions    = "rapid_submissions"
	FlagRepeatedAcrossField = "repeated_across_fields"
)

// LowQualityCutoff is the score below which input does not count toward
// the baseline.
const LowQualityCutoff = 60

// QualityResult is the plausibility verdict for a submission.
type QualityResult struct {
	Score         int      `json:"quality_score"`
	Flags         []string `json:"flags"`
	IsLowQuality  bool     `json:"is_low_quality"`
	ReasonSummary string   `json:"reason_summary"`
}

var (
	wordPattern          = regexp.MustCompile(`\b\w+\b`)
	keyboardSmashPattern = regexp.MustCompile(`[bcdfghjklmnpqrstvwxyz]{5,}`)
)

// hasRepeatedChars reports whether any non-newline rune occurs 5 or more
// times in a row, matching the backreference pattern `(.)\1{4,}` that Go's
// RE2 engine cannot compile.
func hasRepeatedChars(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev && r != '\n' {
			run++
			if run >= 5 {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

var profanitySet = map[string]struct{}{
	"fuck": {}, "shit": {}, "bitch": {}, "asshole": {}, "damn": {}, "cunt": {},
}

var qualityDeductions = map[string]int{
	FlagTooShort:            15,
	FlagLowWordCount:        15,
	FlagRepeatedCharacters:  10,
	FlagRepeatedTokens:      10,
	FlagKeyboardSmash:       10,
	FlagProfanityOnly:       20,
	FlagDuplicateRecent:     25,
	FlagRapidSubmissions:    10,
	FlagRepeatedAcrossField: 10,
}

var qualityFlagLabels = map[string]string{
	FlagTooShort:            "Too short",
	FlagLowWordCount:        "Not enough words",
	FlagRepeatedCharacters:  "Repeated characters",
	FlagRepeatedTokens:      "Repetitive wording",
	FlagKeyboardSmash:       "Looks like keyboard mash",
	FlagProfanityOnly:       "Profanity only",
	FlagDuplicateRecent:     "Same as a recent entry",
	FlagRapidSubmissions:    "Many submissions in a short time",
	FlagRepeatedAcrossField: "Same answer across fields",
}

// SummarizeQualityFlags joins the human labels of up to the first 3 flags.
func SummarizeQualityFlags(flags []string) string {
	if len(flags) == 0 {
		return "Looks good."
	}
	limit := len(flags)
	if limit > 3 {
		limit = 3
	}
	labels := make([]string, 0, limit)
	for _, flag := range flags[:limit] {
		label, ok := qualityFlagLabels[flag]
		if !ok {
			label = flag
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, "; ")
}

func scoreFromFlags(flags []string) QualityResult {
	score := 100
	for _, flag := range flags {
		score -= qualityDeductions[flag]
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return QualityResult{
		Score:         score,
		Flags:         flags,
		IsLowQuality:  score < LowQualityCutoff,
		ReasonSummary: SummarizeQualityFlags(flags),
	}
}

func isDuplicateOfRecent(lowered string, recent []string) bool {
	if lowered == "" {
		return false
	}
	for _, item := range recent {
		if strings.ToLower(strings.TrimSpace(item)) == lowered {
			return true
		}
	}
	return false
}

// AssessTextQuality scores a free-text submission for plausibility.
// recentTexts are the user's last few submissions of the same kind;
// shortWindowCount is how many submissions landed in the last 10 minutes.
func AssessTextQuality(text string, recentTexts []string, shortWindowCount int) QualityResult {
	var flags []string
	cleaned := strings.TrimSpace(text)
	lowered := strings.ToLower(cleaned)
	tokens := wordPattern.FindAllString(lowered, -1)

	if len(cleaned) < 30 {
		flags = append(flags, FlagTooShort)
	}
	if len(tokens) < 5 {
		flags = append(flags, FlagLowWordCount)
	}
	if hasRepeatedChars(lowered) {
		flags = append(flags, FlagRepeatedCharacters)
	}
	if keyboardSmashPattern.MatchString(lowered) {
		flags = append(flags, FlagKeyboardSmash)
	}
	if len(tokens) > 0 && uniqueRatio(tokens) < 0.5 {
		flags = append(flags, FlagRepeatedTokens)
	}
	if allProfanity(tokens) {
		flags = append(flags, FlagProfanityOnly)
	}
	if len(recentTexts) > 0 && isDuplicateOfRecent(lowered, recentTexts) {
		flags = append(flags, FlagDuplicateRecent)
	}
	if shortWindowCount >= 4 {
		flags = append(flags, FlagRapidSubmissions)
	}

	return scoreFromFlags(flags)
}

// AssessStructuredQuality scores a batch of short structured answers.
// Thresholds are looser than for free text: all-numeric batches are not
// penalized for brevity, and the repeated-token ratio drops to 0.4.
func AssessStructuredQuality(answers []string, recentTexts []string, shortWindowCount int) QualityResult {
	var flags []string
	cleaned := make([]string, 0, len(answers))
	for _, answer := range answers {
		cleaned = append(cleaned, strings.TrimSpace(answer))
	}
	combined := strings.TrimSpace(strings.Join(cleaned, " | "))
	lowered := strings.ToLower(combined)
	tokens := wordPattern.FindAllString(lowered, -1)

	if combined == "" {
		flags = append(flags, FlagTooShort)
	} else {
		numericOnly := true
		for _, item := range cleaned {
			if item == "" {
				continue
			}
			if !isDigits(item) {
				numericOnly = false
				break
			}
		}
		if len(combined) < 4 && !numericOnly {
			flags = append(flags, FlagTooShort)
		}
		if len(tokens) < 2 && !numericOnly {
			flags = append(flags, FlagLowWordCount)
		}
	}

	if len(cleaned) >= 2 {
		unique := make(map[string]struct{})
		for _, item := range cleaned {
			if item != "" {
				unique[strings.ToLower(item)] = struct{}{}
			}
		}
		if len(unique) == 1 && len(cleaned[0]) >= 4 {
			flags = append(flags, FlagRepeatedAcrossField)
		}
	}

	if hasRepeatedChars(lowered) {
		flags = append(flags, FlagRepeatedCharacters)
	}
	if keyboardSmashPattern.MatchString(lowered) {
		flags = append(flags, FlagKeyboardSmash)
	}
	if len(tokens) > 0 && uniqueRatio(tokens) < 0.4 {
		flags = append(flags, FlagRepeatedTokens)
	}
	if allProfanity(tokens) {
		flags = append(flags, FlagProfanityOnly)
	}
	if len(recentTexts) > 0 && isDuplicateOfRecent(lowered, recentTexts) {
		flags = append(flags, FlagDuplicateRecent)
	}
	if shortWindowCount >= 4 {
		flags = append(flags, FlagRapidSubmissions)
	}

	return scoreFromFlags(flags)
}

func uniqueRatio(tokens []string) float64 {
	unique := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		unique[token] = struct{}{}
	}
	return float64(len(unique)) / float64(len(tokens))
}

func allProfanity(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if _, ok := profanitySet[token]; !ok {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
