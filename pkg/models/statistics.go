package models

// Statistics is the aggregate view over all progress records and the drill log
type Statistics struct {
	TotalItems            int     `json:"total_items"`
	TotalAttempts         int     `json:"total_attempts"`
	TotalCorrect          int     `json:"total_correct"`
	OverallAccuracy       float64 `json:"overall_accuracy"`
	AverageMastery        float64 `json:"average_mastery"`
	MasteredItems         int     `json:"mastered_items"`          // mastery_level >= 4
	ItemsNeedingAttention int     `json:"items_needing_attention"` // mastery_level <= 1 and attempted
	CurrentStreak         int     `json:"current_streak"`          // Trailing correct run in the drill log
	LongestStreak         int     `json:"longest_streak"`          // Longest correct run anywhere in the log
	PracticeDaysLastWeek  int     `json:"practice_days_last_week"`
	AvgResponseTimeMsWeek float64 `json:"avg_response_time_ms_week"` // Over timed drills in the last 7 days
}
