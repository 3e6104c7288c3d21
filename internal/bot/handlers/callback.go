package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/keyboards"
	"vitalog/internal/bot/menus"
	"vitalog/internal/bot/state"
	"vitalog/internal/logger"
)

// CallbackHandler handles inline keyboard callbacks
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer the callback first so the button stops spinning
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID
	logger.Info("Handling callback", "data", query.Data, "user_id", userID)

	switch query.Data {
	case "log_meal":
		h.stateManager.SetUserState(userID, state.WaitingForMealText)
		msg := tgbotapi.NewMessage(chatID, "What did you eat? Send one dish per message, for example: \"bowl of chicken ramen\".")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := h.api.Send(msg)
		return err

	case "lab_report":
		h.stateManager.SetUserState(userID, state.WaitingForLabPhoto)
		msg := tgbotapi.NewMessage(chatID, "Send a photo of the lab report page. I will extract the values I can read.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := h.api.Send(msg)
		return err

	case "today":
		h.stateManager.ClearUserState(userID)
		return sendToday(ctx, h.api, h.deps, chatID, userID)

	case "menu_ideas":
		h.stateManager.ClearUserState(userID)
		return sendMenuIdeas(ctx, h.api, h.deps, chatID, userID)

	case "main_menu":
		h.stateManager.ClearUserState(userID)
		return menus.SendMainMenu(h.api, chatID)
	}

	return nil
}
