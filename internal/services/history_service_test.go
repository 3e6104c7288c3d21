package services

import (
	"context"
	"testing"

	"vitalog/internal/docstore"
	"vitalog/internal/domain"
	"vitalog/internal/repository"
)

func newHistoryService(store *fakeStore) *HistoryService {
	return NewHistoryService(repository.NewDailyLogRepository(store))
}

func seedDay(t *testing.T, store *fakeStore, userID, date, payload string) {
	t.Helper()
	store.seed(t, docstore.Ref{Collection: "users/" + userID + "/dailyLogs", ID: date}, payload)
}

func TestHistoryServiceRange(t *testing.T) {
	ctx := context.Background()

	t.Run("OrderedByDateInclusive", func(t *testing.T) {
		store := newFakeStore()
		seedDay(t, store, "u1", "2026-08-03", `{"meals":[{"name":"a","nutrients":{"calories":100}}]}`)
		seedDay(t, store, "u1", "2026-08-01", `{"meals":[{"name":"b","nutrients":{"calories":200}}]}`)
		seedDay(t, store, "u1", "2026-08-05", `{"meals":[{"name":"c","nutrients":{"calories":300}}]}`)
		seedDay(t, store, "u1", "2026-07-31", `{"meals":[{"name":"d","nutrients":{"calories":400}}]}`)
		service := newHistoryService(store)

		series, err := service.Range(ctx, "u1", "2026-08-01", "2026-08-05")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(series) != 3 {
			t.Fatalf("Expected 3 days, got %d", len(series))
		}
		dates := []string{series[0].Date, series[1].Date, series[2].Date}
		want := []string{"2026-08-01", "2026-08-03", "2026-08-05"}
		for i := range want {
			if dates[i] != want[i] {
				t.Errorf("Expected date %s at position %d, got %s", want[i], i, dates[i])
			}
		}
	})

	t.Run("RecomputesStoredTotals", func(t *testing.T) {
		store := newFakeStore()
		seedDay(t, store, "u1", "2026-08-01",
			`{"meals":[{"name":"Oats","nutrients":{"calories":250}}],"dailyTotals":{"calories":12345},"status":"excess"}`)
		service := newHistoryService(store)

		series, err := service.Range(ctx, "u1", "2026-08-01", "2026-08-01")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(series) != 1 {
			t.Fatalf("Expected 1 day, got %d", len(series))
		}
		if got := series[0].Totals.Value(domain.NutrientCalories); got != 250 {
			t.Errorf("Expected recomputed calories 250, got %v", got)
		}
		if series[0].Status != domain.StatusDeficient {
			t.Errorf("Expected recomputed status deficient, got %s", series[0].Status)
		}
		if series[0].MealCount != 1 {
			t.Errorf("Expected meal count 1, got %d", series[0].MealCount)
		}
	})

	t.Run("UnwrittenDatesAreSkipped", func(t *testing.T) {
		store := newFakeStore()
		seedDay(t, store, "u1", "2026-08-02", `{"meals":[]}`)
		service := newHistoryService(store)

		series, err := service.Range(ctx, "u1", "2026-08-01", "2026-08-04")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(series) != 1 || series[0].Date != "2026-08-02" {
			t.Errorf("Expected only the written date, got %#v", series)
		}
	})

	t.Run("ReversedRangeFails", func(t *testing.T) {
		service := newHistoryService(newFakeStore())

		if _, err := service.Range(ctx, "u1", "2026-08-05", "2026-08-01"); !isValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("InvalidBoundFails", func(t *testing.T) {
		service := newHistoryService(newFakeStore())

		if _, err := service.Range(ctx, "u1", "August 1st", "2026-08-05"); !isValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}
