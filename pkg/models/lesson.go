package models

// TriggerCondition describes when a lesson should be suggested based on the
// learner's recent error stream
type TriggerCondition struct {
	MinOccurrences      int      `json:"min_occurrences"`      // Matching errors required, default 2
	TimeWindowHours     int      `json:"time_window_hours"`    // Lookback window, default 24
	ConfidenceThreshold float64  `json:"confidence_threshold"` // Mean confidence required, default 0.7
	Patterns            []string `json:"patterns"`             // Regex patterns, sanitized before compiling
}

// LessonDrill is a single exercise inside a mini-lesson
type LessonDrill struct {
	Type        string `json:"type"` // "transform", "fill", "choice"
	Prompt      string `json:"prompt"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// Lesson is a remedial mini-lesson from the content catalog
type Lesson struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Level         []string         `json:"level,omitempty"` // CEFR levels, e.g. ["A2", "B1"]
	Explanation   string           `json:"explanation,omitempty"`
	ErrorPatterns []string         `json:"error_patterns"` // Pattern keys this lesson remediates
	Trigger       TriggerCondition `json:"trigger"`
	Drills        []LessonDrill    `json:"drills,omitempty"`
}
