package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/handlers"
	"vitalog/internal/bot/state"
	"vitalog/internal/logger"
)

// Bot is the telegram companion surface for quick logging.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
}

// New authorizes against the telegram API and wires the update handlers.
func New(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
	}, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if err := b.handler.Handle(ctx, update); err != nil {
				logger.Error("Failed to handle update", "error", err)
			}
		}
	}
}
