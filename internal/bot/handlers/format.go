package handlers

import (
	"fmt"
	"strings"

	"vitalog/internal/domain"
	"vitalog/internal/ledger"
)

func statusLabel(status domain.Status) string {
	switch status {
	case domain.StatusExcess:
		return "🔺 excess"
	case domain.StatusDeficient:
		return "🔻 deficient"
	default:
		return "✅ normal"
	}
}

// formatDay renders one date's log for a chat message.
func formatDay(day *domain.DailyLog) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *%s*\n\n", day.Date)

	if len(day.Meals) == 0 {
		sb.WriteString("No meals logged yet.\n\n")
	} else {
		for i, meal := range day.Meals {
			fmt.Fprintf(&sb, "%d. %s (%.0f kcal)\n", i+1, meal.Name, meal.Nutrients.Value(domain.NutrientCalories))
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "🔥 Calories: %.0f / %.0f kcal\n",
		day.Totals.Value(domain.NutrientCalories), ledger.Limits.Value(domain.NutrientCalories))
	fmt.Fprintf(&sb, "🥩 Protein: %.1f / %.0f g\n",
		day.Totals.Value(domain.NutrientProtein), ledger.Limits.Value(domain.NutrientProtein))
	fmt.Fprintf(&sb, "🌾 Fiber: %.1f / %.0f g\n",
		day.Totals.Value(domain.NutrientFiber), ledger.Limits.Value(domain.NutrientFiber))
	fmt.Fprintf(&sb, "🍬 Sugars: %.1f / %.0f g\n",
		day.Totals.Value(domain.NutrientSugars), ledger.Limits.Value(domain.NutrientSugars))
	fmt.Fprintf(&sb, "🧂 Sodium: %.0f / %.0f mg\n\n",
		day.Totals.Value(domain.NutrientSodium), ledger.Limits.Value(domain.NutrientSodium))

	fmt.Fprintf(&sb, "Status: %s", statusLabel(day.Status))
	return sb.String()
}

// formatBloodTest renders a stored lab record.
func formatBloodTest(record *domain.BloodTest) string {
	var sb strings.Builder
	sb.WriteString("🧪 *Lab report saved*\n\n")

	found := false
	for _, key := range domain.Nutrients() {
		if _, ok := record.Values[key]; !ok {
			continue
		}
		found = true
		fmt.Fprintf(&sb, "• %s: %g\n", key, record.Values.Value(key))
	}
	if !found {
		sb.WriteString("No readable values were found on the report.\n")
	}

	fmt.Fprintf(&sb, "\nTaken at: %s", record.TakenAt.Format("2006-01-02 15:04"))
	return sb.String()
}

// formatSuggestions renders menu proposals.
func formatSuggestions(suggestions []domain.MenuSuggestion) string {
	var sb strings.Builder
	sb.WriteString("💡 *Menu ideas*\n\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(&sb, "%d. %s: %.0f kcal, %.1f g protein, %.1f g fiber\n",
			i+1, suggestion.Name,
			suggestion.Nutrients.Value(domain.NutrientCalories),
			suggestion.Nutrients.Value(domain.NutrientProtein),
			suggestion.Nutrients.Value(domain.NutrientFiber))
	}
	return sb.String()
}
