package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// RotationLookbackDays is the trailing window used for freshness and
// category coverage when selecting questions.
const RotationLookbackDays = 7

// Question is one selectable item of a question pool. Pools are immutable
// configuration; the scheduler never mutates them.
type Question struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Format   string `json:"format,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// RotationSeed derives the deterministic 64-bit seed for a user, date and
// check-in kind: the first 16 hex digits of
// SHA-256("{user}:{date}:{kind}:{salt}") interpreted as an integer. Same
// inputs always yield the same seed; it is never persisted.
func RotationSeed(userID string, targetDate time.Time, kind, salt string) uint64 {
	material := fmt.Sprintf("%s:%s:%s:%s", userID, targetDate.Format("2006-01-02"), kind, salt)
	digest := sha256.Sum256([]byte(material))
	seed, _ := strconv.ParseUint(hex.EncodeToString(digest[:])[:16], 16, 64)
	return seed
}

// SelectQuestions deterministically picks count questions from the pool.
// Already-excluded items never appear; items not answered in the trailing
// window ("fresh") are preferred, padded with recently answered ones only
// when the fresh pool is too small; within the candidates, items whose
// category is missing from the trailing window are shuffled ahead of the
// rest so coverage trends toward the full category set over a rolling
// week. All shuffling uses a PRNG keyed on seed, so the selection is
// reproducible and auditable.
func SelectQuestions(
	pool []Question,
	missingCategories map[string]bool,
	recentQuestionIDs map[int64]bool,
	excludedIDs map[int64]bool,
	count int,
	seed uint64,
) []Question {
	if count <= 0 {
		return nil
	}
	var candidates []Question
	for _, q := range pool {
		if !excludedIDs[q.ID] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	var fresh, stale []Question
	for _, q := range candidates {
		if recentQuestionIDs[q.ID] {
			stale = append(stale, q)
		} else {
			fresh = append(fresh, q)
		}
	}
	ordered := fresh
	if len(fresh) < count {
		ordered = append(append([]Question{}, fresh...), stale...)
	}

	var missing, others []Question
	for _, q := range ordered {
		if missingCategories[q.Category] {
			missing = append(missing, q)
		} else {
			others = append(others, q)
		}
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	rng.Shuffle(len(missing), func(i, j int) { missing[i], missing[j] = missing[j], missing[i] })
	rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	selected := missing
	if len(selected) > count {
		selected = selected[:count]
	}
	if len(selected) < count {
		remaining := count - len(selected)
		if remaining > len(others) {
			remaining = len(others)
		}
		selected = append(selected, others[:remaining]...)
	}
	return selected
}
