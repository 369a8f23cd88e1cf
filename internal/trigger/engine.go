package trigger

import (
	"context"
	"log"
	"time"

	"github.com/example/bgcoach/internal/errorlog"
	"github.com/example/bgcoach/pkg/models"
)

// Trigger defaults applied when a lesson's descriptor leaves a field unset
const (
	DefaultMinOccurrences      = 2
	DefaultTimeWindowHours     = 24
	DefaultConfidenceThreshold = 0.7
)

// CatalogClient is the read-only catalog surface the engine depends on
type CatalogClient interface {
	GetLesson(ctx context.Context, lessonID string) (*models.Lesson, error)
	LessonsForPattern(ctx context.Context, pattern string) ([]models.Lesson, error)
}

// Engine decides whether a lesson should currently be suggested based on the
// learner's recent error stream and the lesson's trigger descriptor
type Engine struct {
	catalog CatalogClient
	now     func() time.Time
}

// New creates a trigger engine backed by the given catalog
func New(catalog CatalogClient) *Engine {
	return &Engine{
		catalog: catalog,
		now:     time.Now,
	}
}

// Evaluate reports whether the lesson's trigger condition holds over the
// recent errors. Catalog failures and malformed patterns degrade to false;
// nothing here aborts the evaluation loop.
func (e *Engine) Evaluate(ctx context.Context, lessonID string, recent []models.ErrorEvent) bool {
	lesson, err := e.catalog.GetLesson(ctx, lessonID)
	if err != nil {
		log.Printf("Error loading lesson %s for evaluation: %v", lessonID, err)
		return false
	}
	return e.evaluateLesson(lesson, recent)
}

func (e *Engine) evaluateLesson(lesson *models.Lesson, recent []models.ErrorEvent) bool {
	trig := lesson.Trigger
	minOccurrences := trig.MinOccurrences
	if minOccurrences <= 0 {
		minOccurrences = DefaultMinOccurrences
	}
	windowHours := trig.TimeWindowHours
	if windowHours <= 0 {
		windowHours = DefaultTimeWindowHours
	}
	threshold := trig.ConfidenceThreshold
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}

	matchers := make([]func(string) bool, 0, len(trig.Patterns))
	for _, pattern := range trig.Patterns {
		re, ok := compilePattern(pattern)
		if !ok {
			log.Printf("Warning: lesson %s has unusable trigger pattern %q, treating as non-matching", lesson.ID, pattern)
			continue
		}
		matchers = append(matchers, re.MatchString)
	}
	if len(matchers) == 0 {
		return false
	}

	cutoff := e.now().Add(-time.Duration(windowHours) * time.Hour)
	matched := 0
	confidenceSum := 0.0
	for _, event := range recent {
		if !event.Timestamp.After(cutoff) {
			continue
		}
		for _, matches := range matchers {
			if matches(event.Pattern) {
				matched++
				confidenceSum += event.Confidence
				break
			}
		}
	}

	if matched < minOccurrences {
		return false
	}
	return confidenceSum/float64(matched) >= threshold
}

// BestCandidate picks the dominant error pattern in the recent stream and
// returns the first associated lesson whose trigger condition holds, or nil.
// Group-size ties keep the first-seen pattern.
func (e *Engine) BestCandidate(ctx context.Context, recent []models.ErrorEvent) *models.Lesson {
	order, groups := errorlog.GroupByPattern(recent)
	if len(order) == 0 {
		return nil
	}

	top := order[0]
	for _, pattern := range order[1:] {
		if len(groups[pattern]) > len(groups[top]) {
			top = pattern
		}
	}

	lessons, err := e.catalog.LessonsForPattern(ctx, top)
	if err != nil {
		log.Printf("Error fetching lessons for pattern %s: %v", top, err)
		return nil
	}
	for i := range lessons {
		if e.evaluateLesson(&lessons[i], recent) {
			return &lessons[i]
		}
	}
	return nil
}
