package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bgcoach/internal/storage"
	"github.com/example/bgcoach/pkg/models"
)

// ErrInvalidImport is returned when an import blob is missing required fields
var ErrInvalidImport = errors.New("import blob is missing required fields")

// Store owns the durable per-item mastery records, the drill log and the
// lesson-progress map. All state mutations happen under one mutex and are
// written back to the blob store whole after every change.
type Store struct {
	mu  sync.Mutex
	cfg *Config
	st  storage.Store
	now func() time.Time

	records  map[string]*models.ProgressRecord
	order    []string // item ids in first-seen order, for stable ranking
	drillLog []models.DrillResult
	lessons  map[string]models.LessonProgress
}

// persistedState is the on-disk and export shape of the store
type persistedState struct {
	Version        int                              `json:"version"`
	Records        []models.ProgressRecord          `json:"records"`
	DrillLog       []models.DrillResult             `json:"drillLog"`
	LessonProgress map[string]models.LessonProgress `json:"lessonProgress"`
}

// New creates a progress store backed by the given blob store and loads any
// previously persisted state. A corrupt or missing blob starts fresh.
func New(st storage.Store, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Store{
		cfg:     cfg,
		st:      st,
		now:     time.Now,
		records: make(map[string]*models.ProgressRecord),
		lessons: make(map[string]models.LessonProgress),
	}
	s.load()
	return s
}

// load restores state from the progress blob
func (s *Store) load() {
	blob, err := s.st.ReadBlob(storage.ProgressKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to read progress blob, starting fresh: %v", err)
		}
		return
	}
	var state persistedState
	if err := json.Unmarshal(blob, &state); err != nil {
		log.Printf("Warning: progress blob is corrupt, starting fresh: %v", err)
		return
	}
	s.replaceState(&state)
}

// replaceState swaps in the given state. Caller must hold the mutex or be
// the only goroutine with access (construction time).
func (s *Store) replaceState(state *persistedState) {
	s.records = make(map[string]*models.ProgressRecord, len(state.Records))
	s.order = make([]string, 0, len(state.Records))
	for i := range state.Records {
		rec := state.Records[i]
		s.records[rec.ItemID] = &rec
		s.order = append(s.order, rec.ItemID)
	}
	s.drillLog = state.DrillLog
	if state.LessonProgress != nil {
		s.lessons = state.LessonProgress
	} else {
		s.lessons = make(map[string]models.LessonProgress)
	}
}

// snapshotLocked builds the persisted shape from current state
func (s *Store) snapshotLocked() *persistedState {
	state := &persistedState{
		Version:        1,
		Records:        make([]models.ProgressRecord, 0, len(s.order)),
		DrillLog:       s.drillLog,
		LessonProgress: s.lessons,
	}
	for _, id := range s.order {
		state.Records = append(state.Records, *s.records[id])
	}
	return state
}

// persistLocked writes the whole progress blob. A storage failure keeps the
// in-memory state and is surfaced to the caller after being logged.
func (s *Store) persistLocked() error {
	blob, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		return fmt.Errorf("failed to marshal progress state: %v", err)
	}
	if err := s.st.WriteBlob(storage.ProgressKey, blob); err != nil {
		log.Printf("Warning: failed to persist progress, continuing in memory: %v", err)
		return fmt.Errorf("failed to persist progress: %v", err)
	}
	return nil
}

// RecordDrillResult appends a drill result, updates the matching progress
// record and reschedules its next review. responseTimeMs of 0 means the
// drill was not timed.
func (s *Store) RecordDrillResult(itemID, drillType, userAnswer, correctAnswer string, isCorrect bool, responseTimeMs int, hintUsed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.drillLog = append(s.drillLog, models.DrillResult{
		ID:             uuid.New().String(),
		ItemID:         itemID,
		DrillType:      drillType,
		UserAnswer:     userAnswer,
		CorrectAnswer:  correctAnswer,
		IsCorrect:      isCorrect,
		ResponseTimeMs: responseTimeMs,
		HintUsed:       hintUsed,
		Timestamp:      now,
	})
	if len(s.drillLog) > s.cfg.DrillLogCap {
		s.drillLog = s.drillLog[len(s.drillLog)-s.cfg.DrillLogCap:]
	}

	rec, ok := s.records[itemID]
	if !ok {
		rec = &models.ProgressRecord{
			ItemID:        itemID,
			FirstSeenDate: now,
		}
		s.records[itemID] = rec
		s.order = append(s.order, itemID)
	}

	rec.TotalAttempts++
	if isCorrect {
		rec.CorrectAttempts++
	}
	if hintUsed {
		rec.TotalHintsUsed++
	}
	if responseTimeMs > 0 {
		w := s.cfg.ResponseTimeEWMAWeight
		if rec.AverageResponseTimeMs == 0 {
			rec.AverageResponseTimeMs = float64(responseTimeMs)
		} else {
			rec.AverageResponseTimeMs = (1-w)*rec.AverageResponseTimeMs + w*float64(responseTimeMs)
		}
	}

	s.cfg.applyOutcome(rec, isCorrect)

	rec.LastReviewDate = now
	due := now.Add(s.cfg.interval(rec.MasteryLevel))
	rec.NextDueDate = &due

	return s.persistLocked()
}

// priorityScore ranks a due item: overdue-ness dominates, then low mastery,
// recent failures and low overall accuracy
func priorityScore(rec *models.ProgressRecord, now time.Time) float64 {
	overdueDays := 0.0
	if rec.NextDueDate != nil {
		d := math.Floor(now.Sub(*rec.NextDueDate).Hours() / 24)
		if d > 0 {
			overdueDays = d
		}
	}
	return overdueDays*10 +
		float64(5-rec.MasteryLevel)*5 +
		float64(rec.ConsecutiveIncorrect)*3 -
		rec.Accuracy()*5
}

// DueItems returns up to limit item ids whose next review is due, highest
// priority first. Ties keep first-seen order.
func (s *Store) DueItems(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dueItemsLocked(limit)
}

func (s *Store) dueItemsLocked(limit int) []string {
	if limit <= 0 {
		return nil
	}
	now := s.now()

	type scoredItem struct {
		id    string
		score float64
	}
	var due []scoredItem
	for _, id := range s.order {
		rec := s.records[id]
		if rec.IsDue(now) {
			due = append(due, scoredItem{id: id, score: priorityScore(rec, now)})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].score > due[j].score
	})

	if len(due) > limit {
		due = due[:limit]
	}
	ids := make([]string, 0, len(due))
	for _, item := range due {
		ids = append(ids, item.id)
	}
	return ids
}

// WarmupItems returns items for a practice session: the top due items, or
// the foundational list for a brand-new learner with nothing due
func (s *Store) WarmupItems(limit int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		return nil
	}

	due := s.dueItemsLocked(limit * 2)
	if len(due) > limit {
		due = due[:limit]
	}
	if len(due) > 0 {
		return due
	}

	foundation := s.cfg.FoundationalItems
	if len(foundation) > limit {
		foundation = foundation[:limit]
	}
	out := make([]string, len(foundation))
	copy(out, foundation)
	return out
}

// DueCount returns how many items are currently due for review
func (s *Store) DueCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	count := 0
	for _, id := range s.order {
		if s.records[id].IsDue(now) {
			count++
		}
	}
	return count
}

// Statistics computes the aggregate view over all records and the drill log.
// Streaks are computed from the log's insertion order, never re-sorted.
func (s *Store) Statistics() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats models.Statistics
	stats.TotalItems = len(s.order)

	masterySum := 0
	for _, id := range s.order {
		rec := s.records[id]
		stats.TotalAttempts += rec.TotalAttempts
		stats.TotalCorrect += rec.CorrectAttempts
		masterySum += rec.MasteryLevel
		if rec.MasteryLevel >= 4 {
			stats.MasteredItems++
		}
		if rec.MasteryLevel <= 1 && rec.TotalAttempts > 0 {
			stats.ItemsNeedingAttention++
		}
	}
	if stats.TotalAttempts > 0 {
		stats.OverallAccuracy = float64(stats.TotalCorrect) / float64(stats.TotalAttempts)
	}
	if stats.TotalItems > 0 {
		stats.AverageMastery = float64(masterySum) / float64(stats.TotalItems)
	}

	// Current streak: trailing correct results before the first incorrect,
	// scanning from the most recent entry
	for i := len(s.drillLog) - 1; i >= 0; i-- {
		if !s.drillLog[i].IsCorrect {
			break
		}
		stats.CurrentStreak++
	}

	// Longest streak: maximum run of consecutive correct results anywhere
	run := 0
	for i := range s.drillLog {
		if s.drillLog[i].IsCorrect {
			run++
			if run > stats.LongestStreak {
				stats.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	practiceDays := make(map[string]struct{})
	timedSum, timedCount := 0, 0
	for i := range s.drillLog {
		res := &s.drillLog[i]
		if res.Timestamp.Before(weekAgo) {
			continue
		}
		practiceDays[res.Timestamp.Format("2006-01-02")] = struct{}{}
		if res.ResponseTimeMs > 0 {
			timedSum += res.ResponseTimeMs
			timedCount++
		}
	}
	stats.PracticeDaysLastWeek = len(practiceDays)
	if timedCount > 0 {
		stats.AvgResponseTimeMsWeek = float64(timedSum) / float64(timedCount)
	}

	return stats
}

// ExportAll serializes the full store state to a JSON blob
func (s *Store) ExportAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		return nil, fmt.Errorf("failed to export progress: %v", err)
	}
	return blob, nil
}

// ImportAll replaces the store state with the given export blob. A blob
// missing the required top-level fields is rejected without touching the
// existing state.
func (s *Store) ImportAll(blob []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if _, ok := raw["records"]; !ok {
		return ErrInvalidImport
	}
	if _, ok := raw["drillLog"]; !ok {
		return ErrInvalidImport
	}
	var state persistedState
	if err := json.Unmarshal(blob, &state); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceState(&state)
	return s.persistLocked()
}

// Reset clears all progress and the drill log. Settings live under their own
// blob key and are preserved.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*models.ProgressRecord)
	s.order = nil
	s.drillLog = nil
	s.lessons = make(map[string]models.LessonProgress)
	return s.persistLocked()
}

// Records returns copies of all progress records in first-seen order
func (s *Store) Records() []models.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProgressRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.records[id])
	}
	return out
}

// LessonProgressFor returns a copy of the lesson-progress entry, if any
func (s *Store) LessonProgressFor(lessonID string) (models.LessonProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lp, ok := s.lessons[lessonID]
	return lp, ok
}

// LessonProgressSnapshot returns a copy of the whole lesson-progress map,
// used as the caller-supplied snapshot for catalog due queries
func (s *Store) LessonProgressSnapshot() map[string]models.LessonProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.LessonProgress, len(s.lessons))
	for id, lp := range s.lessons {
		out[id] = lp
	}
	return out
}

// SetLessonProgress overwrites the lesson-progress entry for a lesson
func (s *Store) SetLessonProgress(lp models.LessonProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessons[lp.LessonID] = lp
	return s.persistLocked()
}
