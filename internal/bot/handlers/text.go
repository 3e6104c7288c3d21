package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/keyboards"
	"vitalog/internal/bot/state"
	"vitalog/internal/logger"
	"vitalog/internal/utils"
)

// TextHandler handles plain text messages
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message according to the user's current state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	switch h.stateManager.GetUserState(message.From.ID) {
	case state.WaitingForMealText:
		return h.handleMealText(ctx, message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Please use the menu to choose an action.")
		msg.ReplyMarkup = keyboards.MainMenu()
		_, err := h.api.Send(msg)
		return err
	}
}

func (h *TextHandler) handleMealText(ctx context.Context, message *tgbotapi.Message) error {
	foodName := strings.TrimSpace(message.Text)
	if foodName == "" {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Please send the dish as text, for example: \"greek salad\".")
		_, err := h.api.Send(msg)
		return err
	}

	thinking := tgbotapi.NewMessage(message.Chat.ID, "Looking up the nutrition profile...")
	sentMsg, err := h.api.Send(thinking)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	day, err := h.deps.MealLogs.AddMealByName(ctx, botUserID(message.From.ID), utils.Today(), foodName)
	if _, reqErr := h.api.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, sentMsg.MessageID)); reqErr != nil {
		logger.Warn("Failed to delete processing message", "error", reqErr)
	}
	if err != nil {
		logger.Error("Failed to log meal", "error", err, "user_id", message.From.ID)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Sorry, I could not look that up. Please try again in a few minutes.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := h.api.Send(msg)
		return err
	}

	// Leave the flow armed so the user can keep sending dishes
	text := fmt.Sprintf("✅ Logged *%s*\n\n%s", foodName, formatDay(day))
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.AfterMeal()
	if _, err := h.api.Send(msg); err != nil {
		// Markdown can choke on user-provided dish names
		msg.ParseMode = ""
		_, err = h.api.Send(msg)
		return err
	}
	return nil
}
