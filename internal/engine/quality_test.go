package engine

import (
	"strings"
	"testing"
)

func hasFlag(flags []string, want string) bool {
	for _, flag := range flags {
		if flag == want {
			return true
		}
	}
	return false
}

func TestAssessTextQuality_ShortInput(t *testing.T) {
	result := AssessTextQuality("hi", nil, 0)
	if !hasFlag(result.Flags, FlagTooShort) || !hasFlag(result.Flags, FlagLowWordCount) {
		t.Errorf("flags = %v, want too_short and low_word_count", result.Flags)
	}
	if result.Score >= 100 {
		t.Errorf("score = %d, want below 100", result.Score)
	}
}

func TestAssessTextQuality_KeyboardSmash(t *testing.T) {
	result := AssessTextQuality("asdfghjkl", nil, 0)
	if !hasFlag(result.Flags, FlagKeyboardSmash) {
		t.Errorf("flags = %v, want keyboard_smash", result.Flags)
	}
}

func TestAssessTextQuality_CleanEntry(t *testing.T) {
	text := "Today went better than expected, I took a long walk and called my sister in the evening."
	result := AssessTextQuality(text, nil, 0)
	if len(result.Flags) != 0 {
		t.Errorf("flags = %v, want none", result.Flags)
	}
	if result.Score != 100 || result.IsLowQuality {
		t.Errorf("result = %+v, want perfect score", result)
	}
	if result.ReasonSummary != "Looks good." {
		t.Errorf("summary = %q", result.ReasonSummary)
	}
}

func TestAssessTextQuality_DuplicateAndCadence(t *testing.T) {
	text := "Same old day again with nothing new happening around here at all."
	recent := []string{"  " + strings.ToUpper(text) + "  "}

	result := AssessTextQuality(text, recent, 4)

	if !hasFlag(result.Flags, FlagDuplicateRecent) {
		t.Errorf("flags = %v, want duplicate_recent (case/space-insensitive)", result.Flags)
	}
	if !hasFlag(result.Flags, FlagRapidSubmissions) {
		t.Errorf("flags = %v, want rapid_submissions at 4 in window", result.Flags)
	}
	// 25 + 10 off a clean text: 65, still above the cutoff.
	if result.Score != 65 || result.IsLowQuality {
		t.Errorf("score = %d low=%v, want 65 and not low quality", result.Score, result.IsLowQuality)
	}
}

func TestAssessTextQuality_RepeatedCharactersAndTokens(t *testing.T) {
	result := AssessTextQuality("aaaaaah bad bad bad bad bad", nil, 0)
	if !hasFlag(result.Flags, FlagRepeatedCharacters) {
		t.Errorf("flags = %v, want repeated_characters", result.Flags)
	}
	if !hasFlag(result.Flags, FlagRepeatedTokens) {
		t.Errorf("flags = %v, want repeated_tokens", result.Flags)
	}
}

func TestAssessStructuredQuality(t *testing.T) {
	tests := []struct {
		name      string
		answers   []string
		wantFlag  string
		dontWant  string
	}{
		{
			name:     "identical non-trivial answers",
			answers:  []string{"okay okay", "okay okay"},
			wantFlag: FlagRepeatedAcrossField,
		},
		{
			name:     "numeric-only batch is not too short",
			answers:  []string{"7", "4"},
			dontWant: FlagTooShort,
		},
		{
			name:     "short text batch is too short",
			answers:  []string{"a", "b"},
			wantFlag: FlagTooShort,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AssessStructuredQuality(tt.answers, nil, 0)
			if tt.wantFlag != "" && !hasFlag(result.Flags, tt.wantFlag) {
				t.Errorf("flags = %v, want %s", result.Flags, tt.wantFlag)
			}
			if tt.dontWant != "" && hasFlag(result.Flags, tt.dontWant) {
				t.Errorf("flags = %v, must not contain %s", result.Flags, tt.dontWant)
			}
		})
	}
}

func TestSummarizeQualityFlags_TopThree(t *testing.T) {
	flags := []string{FlagTooShort, FlagKeyboardSmash, FlagRepeatedTokens, FlagProfanityOnly}
	summary := SummarizeQualityFlags(flags)
	if strings.Contains(summary, "Profanity") {
		t.Errorf("summary = %q, want only first 3 flags", summary)
	}
	if !strings.Contains(summary, "Too short") {
		t.Errorf("summary = %q, want human label", summary)
	}
}

func TestQualityScoreFloor(t *testing.T) {
	// Stack enough flags that the raw deduction would go negative.
	result := AssessTextQuality("fuck fuck fuck fuck", []string{"fuck fuck fuck fuck"}, 5)
	if result.Score < 0 {
		t.Errorf("score = %d, want floored at 0", result.Score)
	}
	if !result.IsLowQuality {
		t.Error("heavily flagged input must be low quality")
	}
}
