package handlers

import (
	"fmt"

	"vitalog/internal/domain"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Users      domain.UserService
	MealLogs   domain.MealLogService
	BloodTests domain.BloodTestService
	Menu       domain.MenuService
}

// botUserID maps a telegram account onto a document-store user ID.
func botUserID(telegramID int64) string {
	return fmt.Sprintf("tg:%d", telegramID)
}
