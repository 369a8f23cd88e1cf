package models

import "time"

// ErrorEvent is one detected language error from the speech/grammar pipeline.
// Events are read-only after creation and live in a bounded ring buffer.
type ErrorEvent struct {
	ID            string            `json:"id"`
	Pattern       string            `json:"pattern"` // Grouping key, e.g. "bg.no_infinitive.da_present"
	UserText      string            `json:"user_text"`
	CorrectedText string            `json:"corrected_text"`
	Confidence    float64           `json:"confidence"` // Detection confidence in [0,1]
	Context       map[string]string `json:"context,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
