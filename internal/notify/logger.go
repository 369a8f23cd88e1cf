package notify

import (
	"log"

	"github.com/example/bgcoach/pkg/models"
)

// Logger is the notifier used when no Telegram credentials are configured:
// suggestions and reminders go to the process log
type Logger struct{}

// SuggestLesson logs a lesson suggestion
func (Logger) SuggestLesson(lesson models.Lesson) error {
	log.Printf("Suggestion: lesson %s (%s)", lesson.ID, lesson.Title)
	return nil
}

// RemindDueItems logs a due-review reminder
func (Logger) RemindDueItems(count int) error {
	log.Printf("Reminder: %d items due for review", count)
	return nil
}
