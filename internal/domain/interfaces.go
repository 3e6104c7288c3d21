package domain

import (
	"context"
)

// UserService manages user profile documents.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	SaveProfile(ctx context.Context, userID string, profile *UserProfile) error
}

// BloodTestService manages blood test records.
type BloodTestService interface {
	AddRecord(ctx context.Context, userID string, test *BloodTest) (*BloodTest, error)
	AddFromImage(ctx context.Context, userID string, image []byte) (*BloodTest, error)
	ListRecords(ctx context.Context, userID string) ([]BloodTest, error)
	DeleteRecord(ctx context.Context, userID, testID string) error
}

// MealLogService manages per-date meal logs. Implementations serialize
// concurrent mutations of the same (user, date) log.
type MealLogService interface {
	GetDay(ctx context.Context, userID, date string) (*DailyLog, error)
	AddMeal(ctx context.Context, userID, date string, meal Meal) (*DailyLog, error)
	AddMealByName(ctx context.Context, userID, date, foodName string) (*DailyLog, error)
	DeleteMeal(ctx context.Context, userID, date string, index int) (*DailyLog, error)
}

// MenuService generates menu suggestions from a user's profile and
// current day totals.
type MenuService interface {
	Suggest(ctx context.Context, userID, date string) ([]MenuSuggestion, error)
}

// HistoryService serves per-day series for charting.
type HistoryService interface {
	Range(ctx context.Context, userID, from, to string) ([]DaySummary, error)
}

// AIService is the generative gateway: all three operations return
// profile-shaped data with no contract on latency or accuracy.
type AIService interface {
	ExtractLabReport(ctx context.Context, image []byte) (NutrientProfile, error)
	LookupNutrition(ctx context.Context, foodName string) (NutrientProfile, error)
	SuggestMenu(ctx context.Context, req MenuRequest) ([]MenuSuggestion, error)
}
