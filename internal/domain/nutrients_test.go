package domain

import (
	"encoding/json"
	"testing"
)

func TestNutrientProfileUnmarshalJSON(t *testing.T) {
	t.Run("NumbersAreKept", func(t *testing.T) {
		var p NutrientProfile
		payload := `{"calories": 320.5, "protein": 10, "sodium": 150}`
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := p.Value(NutrientCalories); got != 320.5 {
			t.Errorf("Expected calories 320.5, got %v", got)
		}
		if got := p.Value(NutrientProtein); got != 10 {
			t.Errorf("Expected protein 10, got %v", got)
		}
		if got := p.Value(NutrientFiber); got != 0 {
			t.Errorf("Expected absent fiber to read as 0, got %v", got)
		}
	})

	t.Run("NumericStringsAreKept", func(t *testing.T) {
		var p NutrientProfile
		payload := `{"calories": "250", "sugars": " 12.5 "}`
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := p.Value(NutrientCalories); got != 250 {
			t.Errorf("Expected calories 250, got %v", got)
		}
		if got := p.Value(NutrientSugars); got != 12.5 {
			t.Errorf("Expected sugars 12.5, got %v", got)
		}
	})

	t.Run("MalformedValuesReadAsZero", func(t *testing.T) {
		var p NutrientProfile
		payload := `{
			"calories": "lots",
			"protein": null,
			"fiber": true,
			"sodium": [1, 2],
			"calcium": {"amount": 3},
			"magnesium": -5,
			"sugars": 9
		}`
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		for _, key := range []Nutrient{NutrientCalories, NutrientProtein, NutrientFiber, NutrientSodium, NutrientCalcium, NutrientMagnesium} {
			if got := p.Value(key); got != 0 {
				t.Errorf("Expected %s to read as 0, got %v", key, got)
			}
		}
		if got := p.Value(NutrientSugars); got != 9 {
			t.Errorf("Expected sugars 9, got %v", got)
		}
	})

	t.Run("UnknownKeysAreDropped", func(t *testing.T) {
		var p NutrientProfile
		payload := `{"calories": 100, "caffeine": 80, "vitaminC": 60}`
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(p) != 1 {
			t.Errorf("Expected only the known key to survive, got %v", p)
		}
	})

	t.Run("NonObjectPayloadDecodesEmpty", func(t *testing.T) {
		for _, payload := range []string{`"abc"`, `[1, 2]`, `42`, `null`} {
			var p NutrientProfile
			if err := json.Unmarshal([]byte(payload), &p); err != nil {
				t.Fatalf("Expected no error for %s, got %v", payload, err)
			}
			if len(p) != 0 {
				t.Errorf("Expected empty profile for %s, got %v", payload, p)
			}
		}
	})

	t.Run("MealDecodeSurvivesMalformedNutrients", func(t *testing.T) {
		var meal Meal
		payload := `{"name": "Mystery bowl", "nutrients": {"calories": "n/a", "protein": 12}}`
		if err := json.Unmarshal([]byte(payload), &meal); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if meal.Name != "Mystery bowl" {
			t.Errorf("Expected name 'Mystery bowl', got %q", meal.Name)
		}
		if got := meal.Nutrients.Value(NutrientCalories); got != 0 {
			t.Errorf("Expected calories 0, got %v", got)
		}
		if got := meal.Nutrients.Value(NutrientProtein); got != 12 {
			t.Errorf("Expected protein 12, got %v", got)
		}
	})
}

func TestNutrientProfileClone(t *testing.T) {
	original := NutrientProfile{NutrientCalories: 100, NutrientProtein: 20}
	clone := original.Clone()
	clone[NutrientCalories] = 999
	if original[NutrientCalories] != 100 {
		t.Errorf("Expected original untouched, got %v", original[NutrientCalories])
	}
	if NutrientProfile(nil).Clone() != nil {
		t.Error("Expected nil profile to clone as nil")
	}
}
