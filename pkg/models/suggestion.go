package models

import "time"

// SuggestionRecord marks one surfaced lesson suggestion. Used solely to
// enforce rate limits; evicted once older than the rate-limit window.
type SuggestionRecord struct {
	LessonID  string    `json:"lesson_id"`
	Timestamp time.Time `json:"timestamp"`
}
