package progress

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/bgcoach/internal/storage"
	"github.com/example/bgcoach/pkg/models"
)

func TestDueItemsHonorsLimitAndDueness(t *testing.T) {
	s, now := newTestStore(t)

	for _, id := range []string{"a", "b", "c", "d"} {
		record(t, s, id, true)
	}
	// Everything is scheduled one day out and nothing is due yet
	if got := s.DueItems(10); len(got) != 0 {
		t.Fatalf("due items before interval elapsed = %v, want none", got)
	}

	*now = now.Add(25 * time.Hour)
	due := s.DueItems(10)
	if len(due) != 4 {
		t.Fatalf("due items after interval elapsed = %v, want 4", due)
	}
	if got := s.DueItems(2); len(got) != 2 {
		t.Errorf("due items with limit 2 = %v, want 2 ids", got)
	}
}

func TestDueItemsRankedByPriority(t *testing.T) {
	s, now := newTestStore(t)

	record(t, s, "healthy", true)
	// "struggling" accumulates failures: lower accuracy and a failure streak
	record(t, s, "struggling", false)
	record(t, s, "struggling", false)

	*now = now.Add(48 * time.Hour)
	due := s.DueItems(10)
	if len(due) != 2 {
		t.Fatalf("due items = %v, want 2", due)
	}
	if due[0] != "struggling" {
		t.Errorf("highest priority item = %q, want \"struggling\"", due[0])
	}
}

func TestDueItemsOverdueOutranksLowMastery(t *testing.T) {
	s, now := newTestStore(t)

	record(t, s, "old", true)
	*now = now.Add(24 * time.Hour)
	record(t, s, "recent", true)
	// "old" ends up 4 days overdue, "recent" 3; the extra overdue points
	// outweigh everything else
	*now = now.Add(4 * 24 * time.Hour)

	due := s.DueItems(10)
	if len(due) != 2 || due[0] != "old" {
		t.Errorf("due order = %v, want old first", due)
	}
}

func TestWarmupItemsFallsBackToFoundational(t *testing.T) {
	s, _ := newTestStore(t)

	got := s.WarmupItems(2)
	want := []string{"bg.no_infinitive.da_present", "bg.definite.article.postposed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("warmup items for new learner = %v, want %v", got, want)
	}
}

func TestWarmupItemsUsesDueItemsWhenAvailable(t *testing.T) {
	s, now := newTestStore(t)

	record(t, s, "a", true)
	record(t, s, "b", true)
	record(t, s, "c", true)
	*now = now.Add(25 * time.Hour)

	got := s.WarmupItems(2)
	if len(got) != 2 {
		t.Fatalf("warmup items = %v, want 2 ids", got)
	}
	for _, id := range got {
		if id != "a" && id != "b" && id != "c" {
			t.Errorf("warmup returned unknown id %q", id)
		}
	}
}

func TestStreakComputation(t *testing.T) {
	s, _ := newTestStore(t)

	for _, correct := range []bool{true, true, false, true, true, true} {
		record(t, s, "item", correct)
	}
	stats := s.Statistics()
	if stats.CurrentStreak != 3 {
		t.Errorf("current streak = %d, want 3", stats.CurrentStreak)
	}
	if stats.LongestStreak != 3 {
		t.Errorf("longest streak = %d, want 3", stats.LongestStreak)
	}
}

func TestStatisticsAggregates(t *testing.T) {
	s, now := newTestStore(t)

	record(t, s, "a", true)
	record(t, s, "a", true)
	record(t, s, "b", false)
	*now = now.Add(24 * time.Hour)
	record(t, s, "b", true)

	stats := s.Statistics()
	if stats.TotalItems != 2 {
		t.Errorf("total items = %d, want 2", stats.TotalItems)
	}
	if stats.TotalAttempts != 4 || stats.TotalCorrect != 3 {
		t.Errorf("attempts/correct = %d/%d, want 4/3", stats.TotalAttempts, stats.TotalCorrect)
	}
	if stats.OverallAccuracy != 0.75 {
		t.Errorf("overall accuracy = %v, want 0.75", stats.OverallAccuracy)
	}
	if stats.ItemsNeedingAttention != 2 {
		t.Errorf("items needing attention = %d, want 2", stats.ItemsNeedingAttention)
	}
	if stats.PracticeDaysLastWeek != 2 {
		t.Errorf("practice days last week = %d, want 2", stats.PracticeDaysLastWeek)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	record(t, s, "a", true)
	record(t, s, "a", false)
	record(t, s, "b", true)
	if err := s.SetLessonProgress(lessonProgressFixture()); err != nil {
		t.Fatalf("SetLessonProgress: %v", err)
	}

	blob, err := s.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	before := s.Statistics()

	if err := s.ImportAll(blob); err != nil {
		t.Fatalf("ImportAll: %v", err)
	}
	after := s.Statistics()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("statistics changed across round trip:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestImportRejectsMissingFields(t *testing.T) {
	s, _ := newTestStore(t)
	record(t, s, "a", true)
	before := s.Statistics()

	cases := []struct {
		name string
		blob string
	}{
		{"not json", "{nope"},
		{"missing drill log", `{"version":1,"records":[]}`},
		{"missing records", `{"version":1,"drillLog":[]}`},
	}
	for _, tc := range cases {
		err := s.ImportAll([]byte(tc.blob))
		if !errors.Is(err, ErrInvalidImport) {
			t.Errorf("%s: err = %v, want ErrInvalidImport", tc.name, err)
		}
	}

	if got := s.Statistics(); !reflect.DeepEqual(before, got) {
		t.Errorf("state mutated by rejected import:\nbefore %+v\nafter  %+v", before, got)
	}
}

func TestResetPreservesSettingsBlob(t *testing.T) {
	mem := storage.NewMemoryStore()
	if err := mem.WriteBlob(storage.SettingsKey, []byte(`{"kept":true}`)); err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	s := New(mem, DefaultConfig())

	if err := s.RecordDrillResult("a", "fill", "", "", true, 0, false); err != nil {
		t.Fatalf("RecordDrillResult: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if got := s.Statistics(); got.TotalItems != 0 || got.TotalAttempts != 0 {
		t.Errorf("statistics after reset = %+v, want empty", got)
	}
	settings, err := mem.ReadBlob(storage.SettingsKey)
	if err != nil || string(settings) != `{"kept":true}` {
		t.Errorf("settings blob after reset = %q, %v; want preserved", settings, err)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	mem := storage.NewMemoryStore()
	s := New(mem, DefaultConfig())
	if err := s.RecordDrillResult("a", "fill", "", "", true, 500, false); err != nil {
		t.Fatalf("RecordDrillResult: %v", err)
	}
	before := s.Statistics()

	reloaded := New(mem, DefaultConfig())
	if got := reloaded.Statistics(); !reflect.DeepEqual(before, got) {
		t.Errorf("statistics after reload:\nbefore %+v\nafter  %+v", before, got)
	}
}

func TestCorruptBlobStartsFresh(t *testing.T) {
	mem := storage.NewMemoryStore()
	if err := mem.WriteBlob(storage.ProgressKey, []byte("{broken")); err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	s := New(mem, DefaultConfig())
	if got := s.Statistics(); got.TotalItems != 0 {
		t.Errorf("statistics from corrupt blob = %+v, want empty", got)
	}
}

func TestDrillLogEvictsOldestAtCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrillLogCap = 3
	s := New(storage.NewMemoryStore(), cfg)

	for i := 0; i < 5; i++ {
		if err := s.RecordDrillResult("item", "fill", "", "", i >= 2, 0, false); err != nil {
			t.Fatalf("RecordDrillResult: %v", err)
		}
	}
	if got := len(s.drillLog); got != 3 {
		t.Fatalf("drill log length = %d, want 3", got)
	}
	// The two incorrect results were at the head and got evicted
	stats := s.Statistics()
	if stats.LongestStreak != 3 {
		t.Errorf("longest streak over capped log = %d, want 3", stats.LongestStreak)
	}
}

// failingStore rejects writes to simulate an unavailable backend
type failingStore struct{}

func (failingStore) ReadBlob(key string) ([]byte, error)  { return nil, storage.ErrNotFound }
func (failingStore) WriteBlob(key string, b []byte) error { return errors.New("disk gone") }

func TestStorageFailureSurfacesErrorButKeepsMemoryState(t *testing.T) {
	s := New(failingStore{}, DefaultConfig())

	err := s.RecordDrillResult("a", "fill", "", "", true, 0, false)
	if err == nil {
		t.Fatal("RecordDrillResult with failing storage returned nil error")
	}
	if got := s.Statistics(); got.TotalAttempts != 1 {
		t.Errorf("in-memory attempts after storage failure = %d, want 1", got.TotalAttempts)
	}
}

func lessonProgressFixture() models.LessonProgress {
	return models.LessonProgress{
		LessonID:      "lesson.definite.articles",
		CompletedAt:   time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC),
		AccuracyScore: 0.8,
		TimeSpentMs:   90000,
		Attempts:      1,
	}
}
