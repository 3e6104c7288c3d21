// Package ledger turns a day's meal sequence into per-nutrient totals and
// a coarse status classification. Every function is pure: no I/O, no
// locking, no shared state. Callers are responsible for serializing
// mutations of the same log.
package ledger

import (
	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
)

// Limits is the fixed daily ceiling per nutrient key.
var Limits = domain.NutrientProfile{
	domain.NutrientCalories:       2000,
	domain.NutrientCarbohydrates:  250,
	domain.NutrientSugars:         50,
	domain.NutrientFiber:          30,
	domain.NutrientProtein:        75,
	domain.NutrientTotalFat:       60,
	domain.NutrientSaturatedFat:   20,
	domain.NutrientUnsaturatedFat: 40,
	domain.NutrientCholesterol:    300,
	domain.NutrientSodium:         2300,
	domain.NutrientPotassium:      4700,
	domain.NutrientCalcium:        1000,
	domain.NutrientMagnesium:      400,
}

// Classification thresholds, as fractions of the per-nutrient limit.
// Given business policy: one breached nutrient decides the status.
const (
	excessCaloriesFactor  = 1.1
	excessNutrientFactor  = 1.5
	deficitCaloriesFactor = 0.9
	deficitNutrientFactor = 0.7
)

// Result is the recomputed state of a meal log after a mutation.
type Result struct {
	Meals  []domain.Meal
	Totals domain.NutrientProfile
	Status domain.Status
}

// Aggregate sums every nutrient key over the meal sequence. Absent keys
// count as zero, all 13 keys are present in the output, and the result
// does not depend on meal order.
func Aggregate(meals []domain.Meal) domain.NutrientProfile {
	keys := domain.Nutrients()
	totals := make(domain.NutrientProfile, len(keys))
	for _, key := range keys {
		totals[key] = 0
	}
	for _, meal := range meals {
		for _, key := range keys {
			totals[key] += meal.Nutrients.Value(key)
		}
	}
	return totals
}

// Classify maps totals to exactly one status. Excess is evaluated
// strictly before Deficient and every comparison is strict, so a value
// exactly at a threshold never trips it.
func Classify(totals domain.NutrientProfile) domain.Status {
	if totals.Value(domain.NutrientCalories) > excessCaloriesFactor*Limits.Value(domain.NutrientCalories) ||
		totals.Value(domain.NutrientProtein) > excessNutrientFactor*Limits.Value(domain.NutrientProtein) ||
		totals.Value(domain.NutrientTotalFat) > excessNutrientFactor*Limits.Value(domain.NutrientTotalFat) ||
		totals.Value(domain.NutrientSugars) > excessNutrientFactor*Limits.Value(domain.NutrientSugars) ||
		totals.Value(domain.NutrientSodium) > excessNutrientFactor*Limits.Value(domain.NutrientSodium) {
		return domain.StatusExcess
	}
	if totals.Value(domain.NutrientCalories) < deficitCaloriesFactor*Limits.Value(domain.NutrientCalories) ||
		totals.Value(domain.NutrientProtein) < deficitNutrientFactor*Limits.Value(domain.NutrientProtein) ||
		totals.Value(domain.NutrientFiber) < deficitNutrientFactor*Limits.Value(domain.NutrientFiber) {
		return domain.StatusDeficient
	}
	return domain.StatusNormal
}

// Recompute aggregates and classifies a sequence in one step.
func Recompute(meals []domain.Meal) Result {
	totals := Aggregate(meals)
	return Result{Meals: meals, Totals: totals, Status: Classify(totals)}
}

// AddMeal appends meal and recomputes totals and status over the full
// updated sequence. The input slice is left untouched. Adding the same
// meal twice yields two entries; duplicates are not detected.
func AddMeal(meals []domain.Meal, meal domain.Meal) Result {
	next := make([]domain.Meal, 0, len(meals)+1)
	next = append(next, meals...)
	next = append(next, meal)
	return Recompute(next)
}

// DeleteMeal removes the meal at index and recomputes. An out-of-range
// index fails and the input sequence stays untouched.
func DeleteMeal(meals []domain.Meal, index int) (Result, error) {
	if index < 0 || index >= len(meals) {
		return Result{}, apperrors.New(apperrors.ErrorTypeValidation, "INDEX_OUT_OF_RANGE", "Meal index out of range").
			WithContext("index", index).
			WithContext("meals", len(meals))
	}
	next := make([]domain.Meal, 0, len(meals)-1)
	next = append(next, meals[:index]...)
	next = append(next, meals[index+1:]...)
	return Recompute(next), nil
}
