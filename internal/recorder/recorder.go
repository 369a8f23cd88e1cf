package recorder

import (
	"fmt"
	"time"

	"github.com/example/bgcoach/internal/progress"
	"github.com/example/bgcoach/pkg/models"
)

// PassingAccuracy is the lesson score counted as a correct review
const PassingAccuracy = 0.7

// Recorder writes lesson-completion outcomes back into the progress store,
// closing the loop between suggested lessons and review scheduling
type Recorder struct {
	store *progress.Store
	now   func() time.Time
}

// New creates a recorder writing into the given progress store
func New(store *progress.Store) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
	}
}

// Commit records one completed lesson: a drill-log entry of type "lesson"
// (correct iff the accuracy score reaches PassingAccuracy) and an overwrite
// of the lesson-progress entry with an incremented attempt counter.
func (r *Recorder) Commit(lessonID string, accuracyScore float64, timeSpentMs int64, drillResults []models.DrillOutcome) error {
	passed := accuracyScore >= PassingAccuracy
	if err := r.store.RecordDrillResult(lessonID, "lesson", "", "", passed, 0, false); err != nil {
		return fmt.Errorf("failed to record lesson drill result: %v", err)
	}

	attempts := 1
	if prior, ok := r.store.LessonProgressFor(lessonID); ok {
		attempts = prior.Attempts + 1
	}

	lp := models.LessonProgress{
		LessonID:      lessonID,
		CompletedAt:   r.now(),
		AccuracyScore: accuracyScore,
		TimeSpentMs:   timeSpentMs,
		DrillResults:  drillResults,
		Attempts:      attempts,
	}
	if err := r.store.SetLessonProgress(lp); err != nil {
		return fmt.Errorf("failed to store lesson progress: %v", err)
	}
	return nil
}
