package coach

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/bgcoach/internal/errorlog"
	"github.com/example/bgcoach/internal/progress"
	"github.com/example/bgcoach/internal/throttle"
	"github.com/example/bgcoach/internal/trigger"
	"github.com/example/bgcoach/pkg/models"
)

// Notifier is the external notification surface. Presentation is entirely
// outside the core.
type Notifier interface {
	SuggestLesson(lesson models.Lesson) error
	RemindDueItems(count int) error
}

// Controller owns the suggestion loop: it polls the trigger engine on a
// fixed cadence, re-evaluates immediately after every recorded error, and
// gates everything through the suggestion throttle.
type Controller struct {
	cfg      *Config
	errors   *errorlog.Log
	engine   *trigger.Engine
	throttle *throttle.Throttle
	progress *progress.Store
	notifier Notifier

	scheduler *gocron.Scheduler
	now       func() time.Time

	mu         sync.Mutex
	lastEval   time.Time
	generation int
	cancelEval context.CancelFunc
}

// New creates a controller wiring the given components together
func New(cfg *Config, errors *errorlog.Log, engine *trigger.Engine, th *throttle.Throttle, store *progress.Store, notifier Notifier) *Controller {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Controller{
		cfg:       cfg,
		errors:    errors,
		engine:    engine,
		throttle:  th,
		progress:  store,
		notifier:  notifier,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
}

// Start begins the periodic evaluation and reminder jobs
func (c *Controller) Start() {
	c.scheduler.Every(c.cfg.PollInterval).Do(c.Evaluate)
	c.scheduler.Every(1).Hour().Do(c.checkDueReminder)
	c.scheduler.StartAsync()
}

// Stop terminates the scheduled jobs and abandons any in-flight evaluation
func (c *Controller) Stop() {
	c.scheduler.Stop()
	c.mu.Lock()
	if c.cancelEval != nil {
		c.cancelEval()
	}
	c.mu.Unlock()
}

// RecordError is the single inbound call for the speech/grammar pipeline.
// It stores the event and performs an immediate out-of-band evaluation.
func (c *Controller) RecordError(pattern, userText, correctedText string, confidence float64, errContext map[string]string) models.ErrorEvent {
	event := c.errors.Record(pattern, userText, correctedText, confidence, errContext)
	c.Evaluate()
	return event
}

// Evaluate runs one suggestion evaluation. Calls arriving within the minimum
// gap are dropped; starting a new evaluation supersedes any outstanding one,
// whose late result is then discarded instead of applied.
func (c *Controller) Evaluate() {
	c.mu.Lock()
	now := c.now()
	if now.Sub(c.lastEval) < c.cfg.MinEvalGap {
		c.mu.Unlock()
		return
	}
	c.lastEval = now
	if c.cancelEval != nil {
		c.cancelEval()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelEval = cancel
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	// Network fetches happen outside the lock; local state is only touched
	// once the result is fully resolved
	recent := c.errors.Recent(c.cfg.ErrorWindow)
	lesson := c.engine.BestCandidate(ctx, recent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// Superseded by a newer evaluation
		return
	}
	if lesson == nil {
		return
	}
	now = c.now()
	if !c.throttle.CanSuggest(now) {
		return
	}
	c.throttle.RecordSuggestion(lesson.ID, now)
	if err := c.notifier.SuggestLesson(*lesson); err != nil {
		log.Printf("Error delivering lesson suggestion %s: %v", lesson.ID, err)
	}
}

// checkDueReminder notifies the learner about due reviews, but only within
// the configured notification hours
func (c *Controller) checkDueReminder() {
	hour := c.now().Hour()
	if hour < c.cfg.NotificationStartHour || hour > c.cfg.NotificationEndHour {
		return
	}
	count := c.progress.DueCount()
	if count == 0 {
		return
	}
	if err := c.notifier.RemindDueItems(count); err != nil {
		log.Printf("Error sending due-item reminder: %v", err)
	}
}
