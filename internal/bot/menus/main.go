package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/keyboards"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🥗 *VitaLog* is your nutrition logbook.

🍽 Tell me what you ate and I will:
• Estimate its nutrition profile
• Add it to today's log
• Show where the day stands against your limits

🧪 Send a photo of a lab report and I will file the values for you.

⚠️ *Note:* estimates are informational, not medical advice.

Choose an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}
