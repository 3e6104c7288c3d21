package services

import (
	"context"

	"vitalog/internal/domain"
	"vitalog/internal/repository"
	"vitalog/internal/utils"
)

// MenuService generates menu suggestions from the user's profile and
// the current state of one date's log.
type MenuService struct {
	users *repository.UserRepository
	logs  *repository.DailyLogRepository
	ai    domain.AIService
}

func NewMenuService(users *repository.UserRepository, logs *repository.DailyLogRepository, ai domain.AIService) *MenuService {
	return &MenuService{
		users: users,
		logs:  logs,
		ai:    ai,
	}
}

func (s *MenuService) Suggest(ctx context.Context, userID, date string) ([]domain.MenuSuggestion, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	day, err := s.logs.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	refreshDay(day)

	return s.ai.SuggestMenu(ctx, domain.MenuRequest{
		Profile: profile,
		Totals:  day.Totals,
		Status:  day.Status,
	})
}
