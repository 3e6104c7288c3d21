package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/menus"
	"vitalog/internal/bot/state"
	"vitalog/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	logger.Info("Handling command", "command", message.Command(), "user_id", message.From.ID)

	switch message.Command() {
	case "start":
		h.stateManager.ClearUserState(message.From.ID)
		return menus.SendMainMenu(h.api, message.Chat.ID)

	case "today":
		h.stateManager.ClearUserState(message.From.ID)
		return sendToday(ctx, h.api, h.deps, message.Chat.ID, message.From.ID)

	case "ideas":
		h.stateManager.ClearUserState(message.From.ID)
		return sendMenuIdeas(ctx, h.api, h.deps, message.Chat.ID, message.From.ID)

	case "help":
		msg := tgbotapi.NewMessage(message.Chat.ID, `Available commands:
/start - Show the main menu
/today - Show today's meals and totals
/ideas - Suggest dishes for the rest of the day
/help - Show this message

Quick logging:
1. Press "🍽 Log a meal"
2. Send the dish as text, for example "two scrambled eggs"
3. I will estimate its nutrients and add it to today's log

Lab reports:
1. Press "🧪 Lab report"
2. Send a photo of the report page`)
		_, err := h.api.Send(msg)
		return err

	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /help to see what I understand.")
		_, err := h.api.Send(msg)
		return err
	}
}
