package models

import "time"

// ProgressRecord tracks a learner's mastery of a single grammar item
type ProgressRecord struct {
	ItemID                string     `json:"item_id"`
	MasteryLevel          int        `json:"mastery_level"`           // 0 = unseen/weak, 5 = fully mastered
	TotalAttempts         int        `json:"total_attempts"`
	CorrectAttempts       int        `json:"correct_attempts"`
	ConsecutiveCorrect    int        `json:"consecutive_correct"`     // Reset on an incorrect answer
	ConsecutiveIncorrect  int        `json:"consecutive_incorrect"`   // Reset on a correct answer
	AverageResponseTimeMs float64    `json:"average_response_time_ms"` // EWMA, zero until first timed sample
	TotalHintsUsed        int        `json:"total_hints_used"`
	FirstSeenDate         time.Time  `json:"first_seen_date"`
	LastReviewDate        time.Time  `json:"last_review_date"`
	NextDueDate           *time.Time `json:"next_due_date"` // Nil until the first review
}

// Accuracy returns the overall share of correct attempts for the item
func (p *ProgressRecord) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.CorrectAttempts) / float64(p.TotalAttempts)
}

// IsDue reports whether the item is scheduled for review at the given time
func (p *ProgressRecord) IsDue(now time.Time) bool {
	return p.NextDueDate != nil && !p.NextDueDate.After(now)
}
