package domain

import (
	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// QuestionKind represents which flow a question belongs to.
type QuestionKind string

const (
	QuestionKindDaily QuestionKind = "daily"
	QuestionKindMicro QuestionKind = "micro"
	QuestionKindRapid QuestionKind = "rapid"
)

// QuestionRecord is one catalog question. The catalog is fixed
// configuration seeded into the database at startup; IDs are stable
// across deployments so rotation history stays meaningful.
type QuestionRecord struct {
	ID       int64        `gorm:"primaryKey" json:"id"`
	Slug     string       `gorm:"type:varchar(80);uniqueIndex;not null" json:"slug"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Category string       `gorm:"type:varchar(40);not null;default:''" json:"category"`
	Kind     QuestionKind `gorm:"type:varchar(10);not null;index" json:"kind"`
	Format   string       `gorm:"type:varchar(20);not null;default:''" json:"format"`
	Choices  []string     `gorm:"serializer:json;type:text" json:"choices,omitempty"`
	Core     bool         `gorm:"not null;default:false" json:"core"`
	Position int          `gorm:"not null;default:0" json:"position"`
}

func (QuestionRecord) TableName() string {
	return "questions"
}

// ToEngine converts a catalog row into the scheduler's value type.
func (q QuestionRecord) ToEngine() engine.Question {
	return engine.Question{
		ID:       q.ID,
		Slug:     q.Slug,
		Text:     q.Text,
		Category: q.Category,
		Kind:     string(q.Kind),
		Format:   q.Format,
		Choices:  q.Choices,
	}
}

// NextQuestionsResponse is the response body for question selection.
// @Description Deterministic question selection for a user and date.
type NextQuestionsResponse struct {
	// Target date the selection was computed for
	Date string `json:"date" example:"2024-05-20"`
	// Flow the selection belongs to
	Kind QuestionKind `json:"kind" example:"daily"`
	// Ordered questions to present
	Questions []engine.Question `json:"questions"`
}

// DailyCoreQuestions are asked on every daily check-in, in order.
func DailyCoreQuestions() []QuestionRecord {
	return []QuestionRecord{
		{ID: 1, Slug: "daily_mood", Text: "Rate your mood today (1-10).", Category: "mood", Kind: QuestionKindDaily, Format: "scale", Core: true, Position: 1},
		{ID: 2, Slug: "daily_anxiety", Text: "Rate your anxiety today (1-10).", Category: "anxiety", Kind: QuestionKindDaily, Format: "scale", Core: true, Position: 2},
		{ID: 3, Slug: "daily_sleep", Text: "How many hours did you sleep?", Category: "sleep", Kind: QuestionKindDaily, Format: "number", Core: true, Position: 3},
		{ID: 4, Slug: "daily_energy", Text: "How is your energy level today?", Category: "energy", Kind: QuestionKindDaily, Format: "scale", Core: true, Position: 4},
		{ID: 5, Slug: "daily_stress", Text: "How stressed do you feel today?", Category: "stress", Kind: QuestionKindDaily, Format: "scale", Core: true, Position: 5},
		{ID: 6, Slug: "daily_focus", Text: "How is your focus today?", Category: "focus", Kind: QuestionKindDaily, Format: "scale", Core: true, Position: 6},
	}
}

// DailyRotatingQuestions is the pool the scheduler draws the two extra
// daily questions from.
func DailyRotatingQuestions() []QuestionRecord {
	return []QuestionRecord{
		{ID: 7, Slug: "daily_isolation", Text: "Do you feel isolated today?", Category: "isolation", Kind: QuestionKindDaily, Format: "yesno"},
		{ID: 8, Slug: "daily_hopeless", Text: "Have you felt hopeless today?", Category: "hopelessness", Kind: QuestionKindDaily, Format: "yesno"},
		{ID: 9, Slug: "daily_irritability", Text: "How irritable do you feel today?", Category: "irritability", Kind: QuestionKindDaily, Format: "scale"},
		{ID: 10, Slug: "daily_appetite", Text: "How is your appetite today?", Category: "appetite", Kind: QuestionKindDaily, Format: "scale"},
		{ID: 11, Slug: "daily_motivation", Text: "How motivated do you feel today?", Category: "motivation", Kind: QuestionKindDaily, Format: "scale"},
		{ID: 12, Slug: "daily_support", Text: "Did you feel supported today?", Category: "support", Kind: QuestionKindDaily, Format: "yesno"},
		{ID: 13, Slug: "daily_activity", Text: "Did you get any movement or activity today?", Category: "activity", Kind: QuestionKindDaily, Format: "yesno"},
		{ID: 14, Slug: "daily_overwhelm", Text: "How overwhelmed did you feel today?", Category: "overwhelm", Kind: QuestionKindDaily, Format: "scale"},
		{ID: 15, Slug: "daily_confidence", Text: "How confident do you feel today?", Category: "confidence", Kind: QuestionKindDaily, Format: "scale"},
		{ID: 16, Slug: "daily_gratitude", Text: "Name one thing that felt okay today.", Category: "gratitude", Kind: QuestionKindDaily, Format: "text"},
	}
}

// MicroQuestions is the pulse-check pool; two are selected per day.
func MicroQuestions() []QuestionRecord {
	fiveScale := []string{"1", "2", "3", "4", "5"}
	return []QuestionRecord{
		{ID: 101, Slug: "micro_mood", Text: "How is your mood right now?", Category: "mood", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 102, Slug: "micro_anxiety", Text: "How anxious do you feel right now?", Category: "anxiety", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 103, Slug: "micro_stress", Text: "How stressed do you feel right now?", Category: "stress", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 104, Slug: "micro_energy", Text: "How is your energy right now?", Category: "energy", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 105, Slug: "micro_connection", Text: "How connected do you feel today?", Category: "connection", Kind: QuestionKindMicro, Format: "choice", Choices: []string{"Connected", "Neutral", "Isolated"}},
		{ID: 106, Slug: "micro_hopeful", Text: "How hopeful do you feel right now?", Category: "hopelessness", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 107, Slug: "micro_irritability", Text: "How irritable do you feel right now?", Category: "irritability", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 108, Slug: "micro_focus", Text: "How focused do you feel right now?", Category: "focus", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 109, Slug: "micro_appetite", Text: "How is your appetite right now?", Category: "appetite", Kind: QuestionKindMicro, Format: "scale", Choices: fiveScale},
		{ID: 110, Slug: "micro_recovery", Text: "Did you take a short pause or break today?", Category: "recovery", Kind: QuestionKindMicro, Format: "choice", Choices: []string{"Yes", "No"}},
	}
}

// RapidBattery is the fixed ordered rapid check-in set, attention check
// included. It is never rotated.
func RapidBattery() []QuestionRecord {
	goodOkayPoor := []string{"Good", "Okay", "Poor"}
	return []QuestionRecord{
		{ID: 201, Slug: engine.SlugRapidMood, Text: "Rate your mood right now (1-10).", Kind: QuestionKindRapid, Format: "scale", Position: 1},
		{ID: 202, Slug: engine.SlugRapidAnxiety, Text: "Rate your anxiety right now (1-10).", Kind: QuestionKindRapid, Format: "scale", Position: 2},
		{ID: 203, Slug: engine.SlugRapidHopeless, Text: "Are you feeling hopeless right now?", Kind: QuestionKindRapid, Format: "yesno", Position: 3},
		{ID: 204, Slug: engine.SlugRapidIsolation, Text: "Do you feel isolated right now?", Kind: QuestionKindRapid, Format: "yesno", Position: 4},
		{ID: 205, Slug: engine.SlugRapidSleep, Text: "How was your sleep last night?", Kind: QuestionKindRapid, Format: "choice", Choices: goodOkayPoor, Position: 5},
		{ID: 206, Slug: engine.SlugRapidAppetite, Text: "How is your appetite today?", Kind: QuestionKindRapid, Format: "choice", Choices: goodOkayPoor, Position: 6},
		{ID: 207, Slug: engine.SlugRapidSupport, Text: "Do you have someone you can reach out to right now?", Kind: QuestionKindRapid, Format: "yesno", Position: 7},
		{ID: 208, Slug: engine.SlugRapidSelfHarmThoughts, Text: "Are you having thoughts of self-harm?", Kind: QuestionKindRapid, Format: "yesno", Position: 8},
		{ID: 209, Slug: engine.SlugRapidSelfHarmPlan, Text: "Do you have intent or a plan to act on those thoughts?", Kind: QuestionKindRapid, Format: "yesno", Position: 9},
		{ID: 210, Slug: engine.SlugRapidSubstance, Text: "Have you used alcohol or substances to cope today?", Kind: QuestionKindRapid, Format: "yesno", Position: 10},
		{ID: 211, Slug: engine.SlugRapidAttentionCheck, Text: "Attention check: select 'Sometimes' for this item.", Kind: QuestionKindRapid, Format: "choice", Choices: []string{"Never", "Sometimes", "Often"}, Position: 11},
	}
}

// AllQuestions is the full catalog in seeding order.
func AllQuestions() []QuestionRecord {
	var all []QuestionRecord
	all = append(all, DailyCoreQuestions()...)
	all = append(all, DailyRotatingQuestions()...)
	all = append(all, MicroQuestions()...)
	all = append(all, RapidBattery()...)
	return all
}
