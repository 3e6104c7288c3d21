package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/keyboards"
	"vitalog/internal/logger"
	"vitalog/internal/utils"
)

// sendToday replies with the current date's log. Shared by the /today
// command and the menu button.
func sendToday(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID, telegramID int64) error {
	day, err := deps.MealLogs.GetDay(ctx, botUserID(telegramID), utils.Today())
	if err != nil {
		logger.Error("Failed to load today's log", "error", err, "user_id", telegramID)
		msg := tgbotapi.NewMessage(chatID, "Sorry, I could not load today's log. Please try again.")
		_, err := api.Send(msg)
		return err
	}

	msg := tgbotapi.NewMessage(chatID, formatDay(day))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.AfterMeal()
	if _, err := api.Send(msg); err != nil {
		// Markdown can choke on user-provided dish names
		msg.ParseMode = ""
		_, err = api.Send(msg)
		return err
	}
	return nil
}

// sendMenuIdeas asks the model for dishes that fit the rest of the day.
func sendMenuIdeas(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, chatID, telegramID int64) error {
	thinking := tgbotapi.NewMessage(chatID, "Thinking about what would fit the rest of your day...")
	sentMsg, err := api.Send(thinking)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	suggestions, err := deps.Menu.Suggest(ctx, botUserID(telegramID), utils.Today())
	if _, reqErr := api.Request(tgbotapi.NewDeleteMessage(chatID, sentMsg.MessageID)); reqErr != nil {
		logger.Warn("Failed to delete processing message", "error", reqErr)
	}
	if err != nil {
		logger.Error("Failed to get menu suggestions", "error", err, "user_id", telegramID)
		msg := tgbotapi.NewMessage(chatID, "Sorry, I could not come up with ideas right now. Please try again later.")
		_, err := api.Send(msg)
		return err
	}

	msg := tgbotapi.NewMessage(chatID, formatSuggestions(suggestions))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	if _, err := api.Send(msg); err != nil {
		msg.ParseMode = ""
		_, err = api.Send(msg)
		return err
	}
	return nil
}
