package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindtriage/mindtriage-api/internal/domain"
	"github.com/mindtriage/mindtriage-api/internal/engine"
)

const seededDays = 21

// Run seeds the database with demo users and three weeks of check-in
// history. Safe to call multiple times.
func Run(db *gorm.DB) error {
	users := []domain.User{
		{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), DisplayName: "Demo Steady", Timezone: "Europe/Amsterdam"},
		{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), DisplayName: "Demo Dip", Timezone: "America/New_York"},
	}

	for _, user := range users {
		if err := db.Where("id = ?", user.ID).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.ID, err)
		}
	}

	core := domain.DailyCoreQuestions()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i, user := range users {
		// The second demo user trends downward so drift reports show
		// movement out of the box.
		dip := i == 1
		if err := seedAnswersForUser(db, user, core, dip, rng); err != nil {
			return err
		}
	}

	log.Println("Seed completed")
	return nil
}

func seedAnswersForUser(db *gorm.DB, user domain.User, core []domain.QuestionRecord, dip bool, rng *rand.Rand) error {
	now := time.Now().UTC()
	for day := 0; day < seededDays; day++ {
		date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -day)

		mood := 6 + rng.Intn(3)
		anxiety := 3 + rng.Intn(3)
		sleep := 6.5 + rng.Float64()*1.5
		energy := 6 + rng.Intn(3)
		if dip && day < 3 {
			mood = 2 + rng.Intn(2)
			anxiety = 8 + rng.Intn(2)
			sleep = 4 + rng.Float64()
			energy = 2 + rng.Intn(2)
		}
		values := map[string]string{
			"daily_mood":    strconv.Itoa(mood),
			"daily_anxiety": strconv.Itoa(anxiety),
			"daily_sleep":   strconv.FormatFloat(sleep, 'f', 1, 64),
			"daily_energy":  strconv.Itoa(energy),
			"daily_stress":  strconv.Itoa(3 + rng.Intn(4)),
			"daily_focus":   strconv.Itoa(5 + rng.Intn(4)),
		}

		for _, question := range core {
			raw, ok := values[question.Slug]
			if !ok {
				continue
			}
			clientReqID := fmt.Sprintf("seed-%s-%s-%s", user.ID, question.Slug, date.Format("2006-01-02"))
			answer := domain.Answer{
				UserID:          user.ID,
				EntryDate:       date,
				Kind:            domain.CheckinKindDaily,
				QuestionID:      question.ID,
				QuestionSlug:    question.Slug,
				Category:        question.Category,
				RawText:         raw,
				QualityScore:    100,
				QualityFlags:    []string{},
				ClientRequestID: &clientReqID,
			}
			if key, val, ok := engine.NormalizeDailyAnswer(question.Category, raw); ok {
				keyStr := string(key)
				answer.SignalKey = &keyStr
				answer.SignalValue = &val
			}
			if err := db.Where("client_request_id = ?", clientReqID).FirstOrCreate(&answer).Error; err != nil {
				return fmt.Errorf("failed to create seed answer: %w", err)
			}
		}
	}
	return nil
}
