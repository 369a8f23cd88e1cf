package progress

import (
	"time"

	"github.com/example/bgcoach/pkg/models"
)

// applyOutcome updates the streak counters and mastery level of a record
// after one drill. Counters (attempts, correct) must already include the new
// outcome. Promotion and demotion thresholds are asymmetric: promotion needs
// a short streak at high overall accuracy, demotion a short failure streak at
// markedly lower accuracy, so a single mistake cannot oscillate the level.
func (c *Config) applyOutcome(rec *models.ProgressRecord, isCorrect bool) {
	if isCorrect {
		rec.ConsecutiveCorrect++
		rec.ConsecutiveIncorrect = 0

		if rec.TotalAttempts >= c.MinReviewsForMastery &&
			rec.ConsecutiveCorrect >= c.PromotionStreak &&
			rec.Accuracy() >= c.TargetAccuracy {
			if rec.MasteryLevel < c.MaxMasteryLevel() {
				rec.MasteryLevel++
			}
			// Prevents double-leveling on the same streak
			rec.ConsecutiveCorrect = 0
		}
		return
	}

	rec.ConsecutiveIncorrect++
	rec.ConsecutiveCorrect = 0

	if rec.ConsecutiveIncorrect >= c.DemotionStreak &&
		rec.Accuracy() < c.DemotionAccuracy {
		if rec.MasteryLevel > 0 {
			rec.MasteryLevel--
		}
	}
}

// interval returns the review interval for a mastery level
func (c *Config) interval(level int) time.Duration {
	if level < 0 {
		level = 0
	}
	if level > c.MaxMasteryLevel() {
		level = c.MaxMasteryLevel()
	}
	return time.Duration(c.IntervalDays[level]) * 24 * time.Hour
}
