package domain

import (
	"time"
)

// Status classifies a day's nutrient totals against the fixed limits.
type Status string

const (
	StatusNormal    Status = "normal"
	StatusExcess    Status = "excess"
	StatusDeficient Status = "deficient"
)

// Meal is one logged food item: a name plus its nutrient profile.
// Meals are immutable once logged; the only mutation is deletion.
type Meal struct {
	Name      string          `json:"name"`
	Nutrients NutrientProfile `json:"nutrients"`
}

// DailyLog is one user's meal record for one calendar date. Totals and
// Status are derived from Meals and are recomputed on every read and
// every mutation; a stored value is never trusted as-is.
type DailyLog struct {
	Date   string          `json:"-"`
	Meals  []Meal          `json:"meals"`
	Totals NutrientProfile `json:"dailyTotals"`
	Status Status          `json:"status"`
}

// DaySummary is one history point for charting a date range.
type DaySummary struct {
	Date      string          `json:"date"`
	Totals    NutrientProfile `json:"totals"`
	Status    Status          `json:"status"`
	MealCount int             `json:"mealCount"`
}

// UserProfile holds the per-user settings document.
type UserProfile struct {
	Name      string    `json:"name,omitempty"`
	BirthYear int       `json:"birthYear,omitempty"`
	HeightCm  float64   `json:"heightCm,omitempty"`
	WeightKg  float64   `json:"weightKg,omitempty"`
	Goal      string    `json:"goal,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// BloodTest is one lab-report record, entered manually or extracted
// from a photographed report.
type BloodTest struct {
	ID      string          `json:"id"`
	TakenAt time.Time       `json:"takenAt"`
	Values  NutrientProfile `json:"values"`
	Note    string          `json:"note,omitempty"`
}

// MenuSuggestion is one AI-proposed dish with its estimated nutrients.
type MenuSuggestion struct {
	Name      string          `json:"name"`
	Nutrients NutrientProfile `json:"nutrients"`
}

// MenuRequest carries the context a menu suggestion is generated from.
type MenuRequest struct {
	Profile *UserProfile
	Totals  NutrientProfile
	Status  Status
}
