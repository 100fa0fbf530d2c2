package services

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptask/internal/models"
	"uptask/internal/repositories/inmemory"
)

type recordingSender struct {
	sent []tgbotapi.MessageConfig
}

func (r *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		r.sent = append(r.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestReminderService_SweepsOnce(t *testing.T) {
	store := inmemory.NewStorage()
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com", TelegramChatID: 42, NotifyTelegram: true}
	require.NoError(t, store.Create(ctx, user))

	due := time.Now().Add(2 * time.Hour)
	task := &models.Task{
		OwnerID:  user.ID,
		Title:    "Pay rent",
		DueDate:  &due,
		Status:   models.StatusPending,
		Priority: models.PriorityHigh,
	}
	require.NoError(t, store.Store(ctx, task))

	sender := &recordingSender{}
	svc := NewReminderService(store, store, sender, 24*time.Hour, time.Minute)

	svc.Sweep(ctx)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "Pay rent")

	// already-reminded tasks are not picked up again
	svc.Sweep(ctx)
	assert.Len(t, sender.sent, 1)
}

func TestReminderService_SkipsOutsideWindowAndOptOuts(t *testing.T) {
	store := inmemory.NewStorage()
	ctx := context.Background()

	optedIn := &models.User{Name: "Alice", Email: "alice@example.com", TelegramChatID: 42, NotifyTelegram: true}
	optedOut := &models.User{Name: "Bob", Email: "bob@example.com", TelegramChatID: 43, NotifyTelegram: false}
	unlinked := &models.User{Name: "Carol", Email: "carol@example.com", NotifyTelegram: true}
	for _, u := range []*models.User{optedIn, optedOut, unlinked} {
		require.NoError(t, store.Create(ctx, u))
	}

	soon := time.Now().Add(time.Hour)
	farOff := time.Now().Add(72 * time.Hour)
	for _, task := range []*models.Task{
		{OwnerID: optedIn.ID, Title: "Far off", DueDate: &farOff, Status: models.StatusPending},
		{OwnerID: optedIn.ID, Title: "No due date", Status: models.StatusPending},
		{OwnerID: optedIn.ID, Title: "Already done", DueDate: &soon, Status: models.StatusCompleted},
		{OwnerID: optedOut.ID, Title: "Opted out", DueDate: &soon, Status: models.StatusPending},
		{OwnerID: unlinked.ID, Title: "No chat", DueDate: &soon, Status: models.StatusPending},
	} {
		require.NoError(t, store.Store(ctx, task))
	}

	sender := &recordingSender{}
	svc := NewReminderService(store, store, sender, 24*time.Hour, time.Minute)

	svc.Sweep(ctx)
	assert.Empty(t, sender.sent)
}
