package coach

import (
	"os"
	"strconv"
	"time"
)

// Default controller settings
const (
	DefaultPollInterval = 30 * time.Second
	DefaultMinEvalGap   = 10 * time.Second
	DefaultErrorWindow  = 24 * time.Hour
	// Hours of day between which due-item reminders may be sent
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Config holds the suggestion controller settings
type Config struct {
	// How often the periodic evaluation job runs
	PollInterval time.Duration
	// Minimum gap between evaluations regardless of caller frequency
	MinEvalGap time.Duration
	// Error lookback window handed to the trigger engine
	ErrorWindow time.Duration
	NotificationStartHour int
	NotificationEndHour   int
}

// DefaultConfig returns the default controller configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval:          DefaultPollInterval,
		MinEvalGap:            DefaultMinEvalGap,
		ErrorWindow:           DefaultErrorWindow,
		NotificationStartHour: DefaultNotificationStartHour,
		NotificationEndHour:   DefaultNotificationEndHour,
	}
}

// ConfigFromEnv returns the default configuration with any environment
// overrides applied
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("COACH_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollInterval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("NOTIFICATION_START_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			cfg.NotificationStartHour = h
		}
	}
	if v := os.Getenv("NOTIFICATION_END_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			cfg.NotificationEndHour = h
		}
	}
	return cfg
}
