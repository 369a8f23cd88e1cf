package models

import "time"

// DrillResult is one append-only entry in the drill log. Entries are never
// edited after being written; the log is only appended to and truncated from
// the head when the capacity cap is reached.
type DrillResult struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	DrillType      string    `json:"drill_type"` // e.g. "transform", "fill", "lesson"
	UserAnswer     string    `json:"user_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
	ResponseTimeMs int       `json:"response_time_ms"` // 0 when the drill was not timed
	HintUsed       bool      `json:"hint_used"`
	Timestamp      time.Time `json:"timestamp"`
}
