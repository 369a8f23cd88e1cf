package models

import "time"

// DrillOutcome is the per-drill result attached to a lesson completion
type DrillOutcome struct {
	Type      string `json:"type"`
	Prompt    string `json:"prompt,omitempty"`
	IsCorrect bool   `json:"is_correct"`
}

// LessonProgress tracks completions of a mini-lesson. One record per lesson
// id, overwritten (not appended) on each completion.
type LessonProgress struct {
	LessonID      string         `json:"lesson_id"`
	CompletedAt   time.Time      `json:"completed_at"`
	AccuracyScore float64        `json:"accuracy_score"`
	TimeSpentMs   int64          `json:"time_spent_ms"`
	DrillResults  []DrillOutcome `json:"drill_results,omitempty"`
	Attempts      int            `json:"attempts"`
}
