package progress

// Config holds the tunable parameters of the mastery scheduler
type Config struct {
	// Attempts required before an item becomes eligible for promotion
	MinReviewsForMastery int
	// Overall accuracy required for promotion
	TargetAccuracy float64
	// Accuracy below which a failure streak demotes the item
	DemotionAccuracy float64
	// Consecutive correct answers required for promotion
	PromotionStreak int
	// Consecutive incorrect answers required for demotion
	DemotionStreak int
	// Weight of the newest timed sample in the response-time moving average
	ResponseTimeEWMAWeight float64
	// Review intervals in days, indexed by mastery level
	IntervalDays []int
	// Maximum drill log entries kept; oldest are evicted first
	DrillLogCap int
	// Items served to brand-new learners with no due items
	FoundationalItems []string
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		MinReviewsForMastery:   3,
		TargetAccuracy:         0.85,
		DemotionAccuracy:       0.6,
		PromotionStreak:        2,
		DemotionStreak:         2,
		ResponseTimeEWMAWeight: 0.2,
		IntervalDays:           []int{1, 3, 7, 21, 60, 120},
		DrillLogCap:            1000,
		FoundationalItems: []string{
			"bg.no_infinitive.da_present",
			"bg.definite.article.postposed",
			"bg.future.shte",
		},
	}
}

// MaxMasteryLevel returns the highest reachable mastery level
func (c *Config) MaxMasteryLevel() int {
	return len(c.IntervalDays) - 1
}
