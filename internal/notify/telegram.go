package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/bgcoach/pkg/models"
)

// Telegram delivers coach notifications to a single chat. It is one concrete
// notification surface; the core only depends on the coach.Notifier
// interface.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a Telegram notifier for the given bot token and chat
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	log.Printf("Telegram notifier authorized as %s", bot.Self.UserName)
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// SuggestLesson sends a lesson suggestion message
func (t *Telegram) SuggestLesson(lesson models.Lesson) error {
	text := fmt.Sprintf("Забелязах повтаряща се грешка. Кратък урок: %s", lesson.Title)
	if lesson.Explanation != "" {
		text += "\n\n" + lesson.Explanation
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send suggestion: %v", err)
	}
	return nil
}

// RemindDueItems sends a due-review reminder
func (t *Telegram) RemindDueItems(count int) error {
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("Имате %d граматически единици за преговор днес.", count))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}
