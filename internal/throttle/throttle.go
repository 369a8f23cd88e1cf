package throttle

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/bgcoach/internal/storage"
	"github.com/example/bgcoach/pkg/models"
)

// Config holds the rate-limit parameters for lesson suggestions
type Config struct {
	// Maximum suggestions allowed within the trailing window
	MaxPerHour int
	// Minimum gap after the most recent suggestion
	Cooldown time.Duration
	// Trailing window for the hourly cap; also the pruning horizon
	Window time.Duration
}

// DefaultConfig returns the default throttle configuration
func DefaultConfig() *Config {
	return &Config{
		MaxPerHour: 3,
		Cooldown:   5 * time.Minute,
		Window:     time.Hour,
	}
}

// Throttle rate-limits how often lesson suggestions may surface to the
// learner. Its window survives restarts through the settings blob.
type Throttle struct {
	mu      sync.Mutex
	cfg     *Config
	st      storage.Store
	entries []models.SuggestionRecord
}

// settingsState is the persisted shape of the settings blob
type settingsState struct {
	Suggestions []models.SuggestionRecord `json:"suggestions"`
}

// New creates a throttle and restores its window from the settings blob
func New(st storage.Store, cfg *Config) *Throttle {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	t := &Throttle{cfg: cfg, st: st}
	t.load()
	return t
}

func (t *Throttle) load() {
	blob, err := t.st.ReadBlob(storage.SettingsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Warning: failed to read settings blob: %v", err)
		}
		return
	}
	var state settingsState
	if err := json.Unmarshal(blob, &state); err != nil {
		log.Printf("Warning: settings blob is corrupt, starting fresh: %v", err)
		return
	}
	t.entries = state.Suggestions
}

// CanSuggest reports whether a suggestion may surface at the given time:
// false when the hourly cap is reached or the cooldown since the most recent
// suggestion has not elapsed
func (t *Throttle) CanSuggest(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	windowStart := now.Add(-t.cfg.Window)
	inWindow := 0
	var latest time.Time
	for _, entry := range t.entries {
		if entry.Timestamp.After(windowStart) {
			inWindow++
		}
		if entry.Timestamp.After(latest) {
			latest = entry.Timestamp
		}
	}

	if inWindow >= t.cfg.MaxPerHour {
		return false
	}
	if !latest.IsZero() && now.Sub(latest) < t.cfg.Cooldown {
		return false
	}
	return true
}

// RecordSuggestion appends a suggestion record and prunes entries older than
// the rate-limit window. A storage failure keeps the in-memory window.
func (t *Throttle) RecordSuggestion(lessonID string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.entries[:0]
	windowStart := now.Add(-t.cfg.Window)
	for _, entry := range t.entries {
		if entry.Timestamp.After(windowStart) {
			kept = append(kept, entry)
		}
	}
	t.entries = append(kept, models.SuggestionRecord{
		LessonID:  lessonID,
		Timestamp: now,
	})

	blob, err := json.Marshal(settingsState{Suggestions: t.entries})
	if err != nil {
		log.Printf("Warning: failed to marshal settings: %v", err)
		return
	}
	if err := t.st.WriteBlob(storage.SettingsKey, blob); err != nil {
		log.Printf("Warning: failed to persist settings, continuing in memory: %v", err)
	}
}
