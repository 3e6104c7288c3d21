package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Nutrient is one of the fixed set of tracked nutrient keys.
type Nutrient string

const (
	NutrientCalories       Nutrient = "calories"
	NutrientCarbohydrates  Nutrient = "carbohydrates"
	NutrientSugars         Nutrient = "sugars"
	NutrientFiber          Nutrient = "fiber"
	NutrientProtein        Nutrient = "protein"
	NutrientTotalFat       Nutrient = "totalFat"
	NutrientSaturatedFat   Nutrient = "saturatedFat"
	NutrientUnsaturatedFat Nutrient = "unsaturatedFat"
	NutrientCholesterol    Nutrient = "cholesterol"
	NutrientSodium         Nutrient = "sodium"
	NutrientPotassium      Nutrient = "potassium"
	NutrientCalcium        Nutrient = "calcium"
	NutrientMagnesium      Nutrient = "magnesium"
)

var nutrients = []Nutrient{
	NutrientCalories,
	NutrientCarbohydrates,
	NutrientSugars,
	NutrientFiber,
	NutrientProtein,
	NutrientTotalFat,
	NutrientSaturatedFat,
	NutrientUnsaturatedFat,
	NutrientCholesterol,
	NutrientSodium,
	NutrientPotassium,
	NutrientCalcium,
	NutrientMagnesium,
}

// Nutrients returns the tracked nutrient keys in display order.
func Nutrients() []Nutrient {
	return nutrients
}

// NutrientProfile maps nutrient keys to non-negative amounts. Partial
// profiles are valid: a missing key counts as zero.
type NutrientProfile map[Nutrient]float64

// Value returns the amount for key, zero if the key is absent.
func (p NutrientProfile) Value(key Nutrient) float64 {
	return p[key]
}

// Clone returns an independent copy of the profile.
func (p NutrientProfile) Clone() NutrientProfile {
	if p == nil {
		return nil
	}
	out := make(NutrientProfile, len(p))
	for key, amount := range p {
		out[key] = amount
	}
	return out
}

// UnmarshalJSON decodes a profile tolerantly. Known keys with a numeric
// value (or a numeric string, which some AI responses produce) are kept;
// unknown keys are dropped; values that are absent, non-numeric, negative
// or non-finite count as zero. Malformed payloads never produce an error.
func (p *NutrientProfile) UnmarshalJSON(data []byte) error {
	out := NutrientProfile{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = out
		return nil
	}
	for _, key := range nutrients {
		value, ok := raw[string(key)]
		if !ok {
			continue
		}
		if amount, ok := parseAmount(value); ok {
			out[key] = amount
		}
	}
	*p = out
	return nil
}

func parseAmount(raw json.RawMessage) (float64, bool) {
	var amount float64
	if err := json.Unmarshal(raw, &amount); err == nil {
		return sanitizeAmount(amount)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return sanitizeAmount(amount)
		}
	}
	return 0, false
}

func sanitizeAmount(amount float64) (float64, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, false
	}
	return amount, true
}
