package services

import (
	"context"
	"html"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"uptask/internal/models"
	"uptask/internal/repositories"
)

// telegramSender is the slice of the bot API the reminder loop needs;
// *tgbotapi.BotAPI satisfies it, tests substitute a recorder.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ReminderService periodically notifies owners of pending tasks whose due
// date falls inside the reminder window. Each task is reminded at most once.
type ReminderService struct {
	tasks    repositories.TaskRepository
	users    repositories.UserRepository
	bot      telegramSender
	window   time.Duration
	interval time.Duration
}

func NewReminderService(tasks repositories.TaskRepository, users repositories.UserRepository, bot telegramSender, window, interval time.Duration) *ReminderService {
	return &ReminderService{
		tasks:    tasks,
		users:    users,
		bot:      bot,
		window:   window,
		interval: interval,
	}
}

func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

const sweepBatchSize = 100

// Sweep runs one reminder pass. Exposed so it can be driven directly.
func (s *ReminderService) Sweep(ctx context.Context) {
	until := time.Now().Add(s.window)
	due, err := s.tasks.ListDueSoon(ctx, until, sweepBatchSize)
	if err != nil {
		zap.L().Error("reminder sweep failed", zap.Error(err))
		return
	}

	for _, task := range due {
		chatID, notify, err := s.users.GetTelegramSettings(ctx, task.OwnerID)
		if err != nil {
			zap.L().Warn("failed to load telegram settings",
				zap.String("owner", task.OwnerID), zap.Error(err))
			continue
		}
		if !notify || chatID == 0 {
			continue
		}

		msg := tgbotapi.NewMessage(chatID, formatReminder(task))
		msg.ParseMode = tgbotapi.ModeHTML
		if _, err := s.bot.Send(msg); err != nil {
			zap.L().Warn("failed to send reminder",
				zap.String("task", task.ID), zap.Int64("chat_id", chatID), zap.Error(err))
			continue
		}

		if err := s.tasks.MarkReminded(ctx, task.ID); err != nil {
			zap.L().Warn("failed to mark task reminded", zap.String("task", task.ID), zap.Error(err))
		}
	}
}

func formatReminder(t models.Task) string {
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02 15:04")
	}
	return "⏰ Task due soon\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b>\n" +
		"• Due: <code>" + due + "</code>\n" +
		"• Priority: <code>" + string(t.Priority) + "</code>"
}
