package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vitalog/internal/bot/keyboards"
	"vitalog/internal/bot/state"
	"vitalog/internal/domain"
	"vitalog/internal/logger"
)

const maxPhotoBytes = 10 << 20

// PhotoHandler handles photo messages
type PhotoHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	if h.stateManager.GetUserState(message.From.ID) != state.WaitingForLabPhoto {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Press \"🧪 Lab report\" first, then send the photo.")
		msg.ReplyMarkup = keyboards.MainMenu()
		_, err := h.api.Send(msg)
		return err
	}

	// The last entry is the largest size telegram keeps
	photo := message.Photo[len(message.Photo)-1]
	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	processingMsg := tgbotapi.NewMessage(message.Chat.ID, "Reading the report...")
	sentMsg, err := h.api.Send(processingMsg)
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}

	image, err := h.downloadPhoto(ctx, file.Link(h.api.Token))
	var record *domain.BloodTest
	if err == nil {
		record, err = h.deps.BloodTests.AddFromImage(ctx, botUserID(message.From.ID), image)
	}
	if _, reqErr := h.api.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, sentMsg.MessageID)); reqErr != nil {
		logger.Warn("Failed to delete processing message", "error", reqErr)
	}
	if err != nil {
		logger.Error("Failed to extract lab report", "error", err, "user_id", message.From.ID)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Sorry, I could not read that report. Please try a sharper photo.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := h.api.Send(msg)
		return err
	}

	h.stateManager.ClearUserState(message.From.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, formatBloodTest(record))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	if _, err := h.api.Send(msg); err != nil {
		msg.ParseMode = ""
		_, err = h.api.Send(msg)
		return err
	}
	return nil
}

func (h *PhotoHandler) downloadPhoto(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s downloading photo", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}
