package services

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/ledger"
	"vitalog/internal/repository"
	"vitalog/internal/utils"
)

const logLockStripes = 64

// MealLogService manages per-date meal logs. Mutations of the same
// (user, date) log are serialized through striped locks, so concurrent
// appends and deletes never interleave their read-modify-write cycles.
// Two instances of the process do not share the stripes; run one
// writer per deployment or shard users across writers.
type MealLogService struct {
	logs  *repository.DailyLogRepository
	ai    domain.AIService
	locks [logLockStripes]sync.Mutex
}

func NewMealLogService(logs *repository.DailyLogRepository, ai domain.AIService) *MealLogService {
	return &MealLogService{
		logs: logs,
		ai:   ai,
	}
}

func (s *MealLogService) lock(userID, date string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(date))
	return &s.locks[h.Sum32()%logLockStripes]
}

// GetDay loads one date's log with totals and status recomputed from
// the meal sequence. Stored totals are never served as-is.
func (s *MealLogService) GetDay(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	day, err := s.logs.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	refreshDay(day)
	return day, nil
}

// AddMeal appends one meal to the date's log and returns the updated
// log. Logging the same meal twice yields two entries.
func (s *MealLogService) AddMeal(ctx context.Context, userID, date string, meal domain.Meal) (*domain.DailyLog, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	meal.Name = strings.TrimSpace(meal.Name)
	if meal.Name == "" {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, "EMPTY_MEAL_NAME", "Meal name is required")
	}

	mu := s.lock(userID, date)
	mu.Lock()
	defer mu.Unlock()
	return s.appendMeal(ctx, userID, date, meal)
}

// AddMealByName looks up the food's nutrition profile and appends the
// resulting meal. The model call runs outside the log lock.
func (s *MealLogService) AddMealByName(ctx context.Context, userID, date, foodName string) (*domain.DailyLog, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	foodName = strings.TrimSpace(foodName)
	if foodName == "" {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, "EMPTY_MEAL_NAME", "Meal name is required")
	}

	nutrients, err := s.ai.LookupNutrition(ctx, foodName)
	if err != nil {
		return nil, err
	}

	mu := s.lock(userID, date)
	mu.Lock()
	defer mu.Unlock()
	return s.appendMeal(ctx, userID, date, domain.Meal{Name: foodName, Nutrients: nutrients})
}

// DeleteMeal removes the meal at index from the date's log. An
// out-of-range index fails without touching the stored log.
func (s *MealLogService) DeleteMeal(ctx context.Context, userID, date string, index int) (*domain.DailyLog, error) {
	date, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	mu := s.lock(userID, date)
	mu.Lock()
	defer mu.Unlock()

	day, err := s.logs.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	result, err := ledger.DeleteMeal(day.Meals, index)
	if err != nil {
		return nil, err
	}
	applyResult(day, result)
	if err := s.logs.SaveDay(ctx, userID, day); err != nil {
		return nil, err
	}
	return day, nil
}

// appendMeal runs the read-modify-write cycle. Callers hold the log's
// stripe lock.
func (s *MealLogService) appendMeal(ctx context.Context, userID, date string, meal domain.Meal) (*domain.DailyLog, error) {
	day, err := s.logs.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	applyResult(day, ledger.AddMeal(day.Meals, meal))
	if err := s.logs.SaveDay(ctx, userID, day); err != nil {
		return nil, err
	}
	return day, nil
}

func applyResult(day *domain.DailyLog, result ledger.Result) {
	day.Meals = result.Meals
	day.Totals = result.Totals
	day.Status = result.Status
	if day.Meals == nil {
		day.Meals = []domain.Meal{}
	}
}

// refreshDay recomputes the derived fields of a loaded log in place.
func refreshDay(day *domain.DailyLog) {
	applyResult(day, ledger.Recompute(day.Meals))
}
