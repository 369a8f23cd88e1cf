package coach

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/example/bgcoach/internal/errorlog"
	"github.com/example/bgcoach/internal/progress"
	"github.com/example/bgcoach/internal/storage"
	"github.com/example/bgcoach/internal/throttle"
	"github.com/example/bgcoach/internal/trigger"
	"github.com/example/bgcoach/pkg/models"
)

// memoryCatalog serves one lesson per pattern and counts fetches
type memoryCatalog struct {
	mu      sync.Mutex
	fetches int
	// When set, the first LessonsForPattern call signals entered and then
	// blocks until release is closed
	entered chan struct{}
	release chan struct{}
}

func (m *memoryCatalog) lessonFor(pattern string) models.Lesson {
	return models.Lesson{
		ID: "lesson.for." + pattern,
		Trigger: models.TriggerCondition{
			MinOccurrences:      2,
			TimeWindowHours:     24,
			ConfidenceThreshold: 0.7,
			Patterns:            []string{pattern},
		},
	}
}

func (m *memoryCatalog) GetLesson(ctx context.Context, lessonID string) (*models.Lesson, error) {
	lesson := m.lessonFor(lessonID)
	return &lesson, nil
}

func (m *memoryCatalog) LessonsForPattern(ctx context.Context, pattern string) ([]models.Lesson, error) {
	m.mu.Lock()
	m.fetches++
	first := m.fetches == 1
	m.mu.Unlock()
	if first && m.entered != nil {
		close(m.entered)
		<-m.release
	}
	return []models.Lesson{m.lessonFor(pattern)}, nil
}

func (m *memoryCatalog) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// captureNotifier records delivered suggestions and reminders
type captureNotifier struct {
	mu          sync.Mutex
	suggestions []string
	reminders   []int
}

func (n *captureNotifier) SuggestLesson(lesson models.Lesson) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.suggestions = append(n.suggestions, lesson.ID)
	return nil
}

func (n *captureNotifier) RemindDueItems(count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, count)
	return nil
}

func (n *captureNotifier) suggested() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.suggestions))
	copy(out, n.suggestions)
	return out
}

func newTestController(cat *memoryCatalog, thCfg *throttle.Config) (*Controller, *captureNotifier) {
	mem := storage.NewMemoryStore()
	notifier := &captureNotifier{}
	cfg := DefaultConfig()
	cfg.MinEvalGap = 0
	c := New(
		cfg,
		errorlog.New(0),
		trigger.New(cat),
		throttle.New(mem, thCfg),
		progress.New(mem, progress.DefaultConfig()),
		notifier,
	)
	return c, notifier
}

func TestRecordErrorTriggersImmediateSuggestion(t *testing.T) {
	c, notifier := newTestController(&memoryCatalog{}, throttle.DefaultConfig())

	c.RecordError("bg.future.shte", "буду говоря", "ще говоря", 0.9, nil)
	if got := notifier.suggested(); len(got) != 0 {
		t.Fatalf("suggestion surfaced after a single error: %v", got)
	}

	c.RecordError("bg.future.shte", "буду пътувам", "ще пътувам", 0.9, nil)
	got := notifier.suggested()
	if len(got) != 1 || got[0] != "lesson.for.bg.future.shte" {
		t.Errorf("suggestions = %v, want [lesson.for.bg.future.shte]", got)
	}
}

func TestThrottleBlocksRepeatSuggestions(t *testing.T) {
	c, notifier := newTestController(&memoryCatalog{}, throttle.DefaultConfig())

	c.RecordError("bg.future.shte", "", "", 0.9, nil)
	c.RecordError("bg.future.shte", "", "", 0.9, nil)
	// Condition still holds, but the cooldown has not elapsed
	c.RecordError("bg.future.shte", "", "", 0.9, nil)

	if got := notifier.suggested(); len(got) != 1 {
		t.Errorf("suggestions = %v, want exactly one within the cooldown", got)
	}
}

func TestMinimumGapSkipsEvaluation(t *testing.T) {
	cat := &memoryCatalog{}
	c, _ := newTestController(cat, throttle.DefaultConfig())
	c.cfg.MinEvalGap = 10 * time.Second

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	current := base
	c.now = func() time.Time { return current }

	c.errors.Record("bg.future.shte", "", "", 0.9, nil)
	c.errors.Record("bg.future.shte", "", "", 0.9, nil)

	c.Evaluate()
	if got := cat.fetchCount(); got != 1 {
		t.Fatalf("catalog fetches after first evaluation = %d, want 1", got)
	}

	current = base.Add(5 * time.Second)
	c.Evaluate() // within the gap: dropped
	if got := cat.fetchCount(); got != 1 {
		t.Errorf("catalog fetches after gapped call = %d, want still 1", got)
	}

	current = base.Add(11 * time.Second)
	c.Evaluate()
	if got := cat.fetchCount(); got != 2 {
		t.Errorf("catalog fetches after gap elapsed = %d, want 2", got)
	}
}

func TestSupersededEvaluationIsDiscarded(t *testing.T) {
	cat := &memoryCatalog{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	// Generous throttle so discarding can only come from supersession
	thCfg := &throttle.Config{MaxPerHour: 100, Cooldown: 0, Window: time.Hour}
	c, notifier := newTestController(cat, thCfg)

	c.errors.Record("bg.future.shte", "", "", 0.9, nil)
	c.errors.Record("bg.future.shte", "", "", 0.9, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Evaluate() // blocks inside the catalog fetch
	}()
	<-cat.entered

	c.Evaluate() // supersedes the in-flight evaluation
	close(cat.release)
	wg.Wait()

	if got := notifier.suggested(); len(got) != 1 {
		t.Errorf("suggestions = %v, want exactly one (stale result discarded)", got)
	}
}

func TestDueReminderRespectsNotificationHours(t *testing.T) {
	c, notifier := newTestController(&memoryCatalog{}, throttle.DefaultConfig())

	// Seed one already-due item through the import surface
	due := time.Now().Add(-time.Hour)
	state := struct {
		Version  int                     `json:"version"`
		Records  []models.ProgressRecord `json:"records"`
		DrillLog []models.DrillResult    `json:"drillLog"`
	}{
		Version: 1,
		Records: []models.ProgressRecord{{
			ItemID:          "bg.future.shte",
			TotalAttempts:   1,
			CorrectAttempts: 1,
			NextDueDate:     &due,
		}},
	}
	blob, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal seed state: %v", err)
	}
	if err := c.progress.ImportAll(blob); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}

	night := time.Date(2026, 3, 12, 3, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return night }
	c.checkDueReminder()
	if len(notifier.reminders) != 0 {
		t.Errorf("reminder sent at %d:00, outside notification hours", night.Hour())
	}

	day := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return day }
	c.checkDueReminder()
	if len(notifier.reminders) != 1 || notifier.reminders[0] != 1 {
		t.Errorf("reminders = %v, want [1]", notifier.reminders)
	}
}
