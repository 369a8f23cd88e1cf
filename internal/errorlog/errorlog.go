package errorlog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bgcoach/pkg/models"
)

// DefaultCapacity bounds the error buffer; oldest entries are evicted first
const DefaultCapacity = 100

// Log is a bounded, time-ordered buffer of detected language errors. Events
// are immutable once recorded.
type Log struct {
	mu       sync.Mutex
	capacity int
	events   []models.ErrorEvent
	now      func() time.Time
}

// New creates an error log with the given capacity (DefaultCapacity if <= 0)
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		now:      time.Now,
	}
}

// Record appends a detected error and returns the stored event. When the
// buffer is full the oldest entry is evicted.
func (l *Log) Record(pattern, userText, correctedText string, confidence float64, context map[string]string) models.ErrorEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := models.ErrorEvent{
		ID:            uuid.New().String(),
		Pattern:       pattern,
		UserText:      userText,
		CorrectedText: correctedText,
		Confidence:    confidence,
		Context:       context,
		Timestamp:     l.now(),
	}
	l.events = append(l.events, event)
	if len(l.events) > l.capacity {
		l.events = l.events[len(l.events)-l.capacity:]
	}
	return event
}

// Recent returns copies of all events newer than now minus the window,
// preserving insertion order
func (l *Log) Recent(window time.Duration) []models.ErrorEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-window)
	var out []models.ErrorEvent
	for _, e := range l.events {
		if e.Timestamp.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// GroupByPattern splits events by their pattern key. The returned key slice
// holds patterns in first-seen order; each group preserves insertion order.
func GroupByPattern(events []models.ErrorEvent) ([]string, map[string][]models.ErrorEvent) {
	var order []string
	groups := make(map[string][]models.ErrorEvent)
	for _, e := range events {
		if _, seen := groups[e.Pattern]; !seen {
			order = append(order, e.Pattern)
		}
		groups[e.Pattern] = append(groups[e.Pattern], e)
	}
	return order, groups
}

// Stats is the aggregate view over the error buffer
type Stats struct {
	Total            int    `json:"total"`
	Recent           int    `json:"recent"` // Within the last 24 hours
	DistinctPatterns int    `json:"distinct_patterns"`
	TopPattern       string `json:"top_pattern,omitempty"`
	TopPatternCount  int    `json:"top_pattern_count"`
}

// Statistics summarizes the buffer: totals, distinct patterns and the most
// frequent pattern. Frequency ties keep the first-seen pattern.
func (l *Log) Statistics() Stats {
	l.mu.Lock()
	events := make([]models.ErrorEvent, len(l.events))
	copy(events, l.events)
	now := l.now()
	l.mu.Unlock()

	stats := Stats{Total: len(events)}
	cutoff := now.Add(-24 * time.Hour)
	for _, e := range events {
		if e.Timestamp.After(cutoff) {
			stats.Recent++
		}
	}

	order, groups := GroupByPattern(events)
	stats.DistinctPatterns = len(order)
	for _, pattern := range order {
		if len(groups[pattern]) > stats.TopPatternCount {
			stats.TopPattern = pattern
			stats.TopPatternCount = len(groups[pattern])
		}
	}
	return stats
}
