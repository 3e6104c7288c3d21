package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽 Log a meal", "log_meal"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Today", "today"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧪 Lab report", "lab_report"),
			tgbotapi.NewInlineKeyboardButtonData("💡 Menu ideas", "menu_ideas"),
		),
	)
}

// BackToMenu creates a keyboard with a single back button
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}

// AfterMeal creates the keyboard shown after a meal was logged
func AfterMeal() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽 Log another", "log_meal"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Today", "today"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}
