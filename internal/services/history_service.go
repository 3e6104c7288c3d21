package services

import (
	"context"

	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/ledger"
	"vitalog/internal/repository"
	"vitalog/internal/utils"
)

// HistoryService serves per-day series for charting. Only dates that
// were actually written appear in the series.
type HistoryService struct {
	logs *repository.DailyLogRepository
}

func NewHistoryService(logs *repository.DailyLogRepository) *HistoryService {
	return &HistoryService{logs: logs}
}

func (s *HistoryService) Range(ctx context.Context, userID, from, to string) ([]domain.DaySummary, error) {
	from, err := utils.NormalizeDate(from)
	if err != nil {
		return nil, err
	}
	to, err = utils.NormalizeDate(to)
	if err != nil {
		return nil, err
	}
	if from > to {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, "BAD_RANGE", "Range start must not be after its end").
			WithContext("from", from).
			WithContext("to", to)
	}

	days, err := s.logs.Range(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.DaySummary, 0, len(days))
	for _, day := range days {
		result := ledger.Recompute(day.Meals)
		summaries = append(summaries, domain.DaySummary{
			Date:      day.Date,
			Totals:    result.Totals,
			Status:    result.Status,
			MealCount: len(day.Meals),
		})
	}
	return summaries, nil
}
