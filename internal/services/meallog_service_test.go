package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"vitalog/internal/docstore"
	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/repository"
)

// fakeStore is an in-memory document store for service tests.
type fakeStore struct {
	mu   sync.Mutex
	docs map[string][]byte
	sets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string][]byte{}}
}

func (s *fakeStore) seed(t *testing.T, ref docstore.Ref, payload string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ref.Path()] = []byte(payload)
}

func (s *fakeStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *fakeStore) Get(ctx context.Context, ref docstore.Ref, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[ref.Path()]
	if !ok {
		return apperrors.New(apperrors.ErrorTypeNotFound, "DOC_NOT_FOUND", "Document not found")
	}
	return json.Unmarshal(data, out)
}

func (s *fakeStore) Set(ctx context.Context, ref docstore.Ref, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.docs[ref.Path()] = data
	s.sets++
	return nil
}

func (s *fakeStore) Merge(ctx context.Context, ref docstore.Ref, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := map[string]interface{}{}
	if data, ok := s.docs[ref.Path()]; ok {
		if err := json.Unmarshal(data, &current); err != nil {
			current = map[string]interface{}{}
		}
	}
	for key, value := range fields {
		current[key] = value
	}
	data, err := json.Marshal(current)
	if err != nil {
		return err
	}
	s.docs[ref.Path()] = data
	s.sets++
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, ref docstore.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[ref.Path()]; !ok {
		return apperrors.New(apperrors.ErrorTypeNotFound, "DOC_NOT_FOUND", "Document not found")
	}
	delete(s.docs, ref.Path())
	return nil
}

func (s *fakeStore) List(ctx context.Context, collection string, opts docstore.ListOptions) ([]docstore.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := collection + "/"
	var ids []string
	for path := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.TrimPrefix(path, prefix)
		if strings.Contains(id, "/") {
			continue
		}
		if opts.StartID != "" && id < opts.StartID {
			continue
		}
		if opts.EndID != "" && id > opts.EndID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if opts.Limit > 0 && len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	snapshots := make([]docstore.Snapshot, 0, len(ids))
	for _, id := range ids {
		snapshots = append(snapshots, docstore.Snapshot{
			Ref:  docstore.Ref{Collection: collection, ID: id},
			Data: append([]byte(nil), s.docs[prefix+id]...),
		})
	}
	return snapshots, nil
}

func (s *fakeStore) Watch(ctx context.Context, prefix string) (<-chan docstore.Event, func(), error) {
	return make(chan docstore.Event), func() {}, nil
}

// fakeAI returns canned answers and records how it was called.
type fakeAI struct {
	mu            sync.Mutex
	lookupProfile domain.NutrientProfile
	lookupErr     error
	lookupCalls   int
	extractValues domain.NutrientProfile
	extractErr    error
	suggestions   []domain.MenuSuggestion
	suggestErr    error
	lastMenuReq   domain.MenuRequest
}

func (f *fakeAI) ExtractLabReport(ctx context.Context, image []byte) (domain.NutrientProfile, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.extractValues, nil
}

func (f *fakeAI) LookupNutrition(ctx context.Context, foodName string) (domain.NutrientProfile, error) {
	f.mu.Lock()
	f.lookupCalls++
	f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.lookupProfile.Clone(), nil
}

func (f *fakeAI) SuggestMenu(ctx context.Context, req domain.MenuRequest) ([]domain.MenuSuggestion, error) {
	f.mu.Lock()
	f.lastMenuReq = req
	f.mu.Unlock()
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

func newMealLogService(store *fakeStore, ai *fakeAI) *MealLogService {
	return NewMealLogService(repository.NewDailyLogRepository(store), ai)
}

func isValidationError(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation
}

func TestMealLogServiceGetDay(t *testing.T) {
	ctx := context.Background()

	t.Run("StoredTotalsAreRecomputed", func(t *testing.T) {
		store := newFakeStore()
		store.seed(t, docstore.Ref{Collection: "users/u1/dailyLogs", ID: "2026-08-20"},
			`{"meals":[{"name":"Oatmeal","nutrients":{"calories":300,"protein":10,"fiber":4}}],"dailyTotals":{"calories":9999},"status":"excess"}`)
		service := newMealLogService(store, &fakeAI{})

		day, err := service.GetDay(ctx, "u1", "2026-08-20")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := day.Totals.Value(domain.NutrientCalories); got != 300 {
			t.Errorf("Expected stored totals to be ignored, got calories %v", got)
		}
		if day.Status != domain.StatusDeficient {
			t.Errorf("Expected recomputed status deficient, got %s", day.Status)
		}
	})

	t.Run("UnwrittenDayReadsEmpty", func(t *testing.T) {
		service := newMealLogService(newFakeStore(), &fakeAI{})

		day, err := service.GetDay(ctx, "u1", "2026-08-20")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if day.Meals == nil || len(day.Meals) != 0 {
			t.Errorf("Expected empty meal slice, got %#v", day.Meals)
		}
		if day.Status != domain.StatusDeficient {
			t.Errorf("Expected empty day to be deficient, got %s", day.Status)
		}
		if got := day.Totals.Value(domain.NutrientSodium); got != 0 {
			t.Errorf("Expected zero totals, got sodium %v", got)
		}
	})

	t.Run("InvalidDateFails", func(t *testing.T) {
		service := newMealLogService(newFakeStore(), &fakeAI{})

		if _, err := service.GetDay(ctx, "u1", "20-08-2026"); !isValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestMealLogServiceAddMeal(t *testing.T) {
	ctx := context.Background()

	t.Run("PersistsRecomputedRecord", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})

		day, err := service.AddMeal(ctx, "u1", "2026-08-20", domain.Meal{
			Name:      "Chicken salad",
			Nutrients: domain.NutrientProfile{domain.NutrientCalories: 450, domain.NutrientProtein: 35},
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(day.Meals) != 1 {
			t.Fatalf("Expected 1 meal, got %d", len(day.Meals))
		}
		if got := day.Totals.Value(domain.NutrientCalories); got != 450 {
			t.Errorf("Expected calories 450, got %v", got)
		}

		var stored domain.DailyLog
		if err := store.Get(ctx, docstore.Ref{Collection: "users/u1/dailyLogs", ID: "2026-08-20"}, &stored); err != nil {
			t.Fatalf("Expected stored day, got %v", err)
		}
		if got := stored.Totals.Value(domain.NutrientProtein); got != 35 {
			t.Errorf("Expected stored totals to carry protein 35, got %v", got)
		}
		if stored.Status != domain.StatusDeficient {
			t.Errorf("Expected stored status deficient, got %s", stored.Status)
		}
	})

	t.Run("DuplicateMealsAccumulate", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})
		meal := domain.Meal{Name: "Espresso", Nutrients: domain.NutrientProfile{domain.NutrientCalories: 5}}

		if _, err := service.AddMeal(ctx, "u1", "2026-08-20", meal); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		day, err := service.AddMeal(ctx, "u1", "2026-08-20", meal)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(day.Meals) != 2 {
			t.Errorf("Expected 2 meals, got %d", len(day.Meals))
		}
		if got := day.Totals.Value(domain.NutrientCalories); got != 10 {
			t.Errorf("Expected calories 10, got %v", got)
		}
	})

	t.Run("EmptyNameFails", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})

		_, err := service.AddMeal(ctx, "u1", "2026-08-20", domain.Meal{Name: "   "})
		if !isValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
		if store.writes() != 0 {
			t.Errorf("Expected no writes, got %d", store.writes())
		}
	})

	t.Run("ConcurrentAddsAllLand", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})
		const adds = 25

		var wg sync.WaitGroup
		for i := 0; i < adds; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.AddMeal(ctx, "u1", "2026-08-20", domain.Meal{
					Name:      "Snack",
					Nutrients: domain.NutrientProfile{domain.NutrientCalories: 100},
				})
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			}()
		}
		wg.Wait()

		day, err := service.GetDay(ctx, "u1", "2026-08-20")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(day.Meals) != adds {
			t.Errorf("Expected %d meals, got %d", adds, len(day.Meals))
		}
		if got := day.Totals.Value(domain.NutrientCalories); got != adds*100 {
			t.Errorf("Expected calories %d, got %v", adds*100, got)
		}
	})
}

func TestMealLogServiceAddMealByName(t *testing.T) {
	ctx := context.Background()

	t.Run("UsesLookupResult", func(t *testing.T) {
		store := newFakeStore()
		ai := &fakeAI{lookupProfile: domain.NutrientProfile{
			domain.NutrientCalories: 650,
			domain.NutrientSodium:   900,
		}}
		service := newMealLogService(store, ai)

		day, err := service.AddMealByName(ctx, "u1", "2026-08-20", "  Margherita pizza ")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(day.Meals) != 1 || day.Meals[0].Name != "Margherita pizza" {
			t.Fatalf("Expected trimmed meal name, got %#v", day.Meals)
		}
		if got := day.Totals.Value(domain.NutrientSodium); got != 900 {
			t.Errorf("Expected sodium 900, got %v", got)
		}
		if ai.lookupCalls != 1 {
			t.Errorf("Expected 1 lookup, got %d", ai.lookupCalls)
		}
	})

	t.Run("LookupErrorWritesNothing", func(t *testing.T) {
		store := newFakeStore()
		ai := &fakeAI{lookupErr: apperrors.NewExternalAPIError(errors.New("quota exhausted"), "gemini")}
		service := newMealLogService(store, ai)

		_, err := service.AddMealByName(ctx, "u1", "2026-08-20", "Pizza")
		if !errors.Is(err, apperrors.ErrExternalAPI) {
			t.Errorf("Expected external API error, got %v", err)
		}
		if store.writes() != 0 {
			t.Errorf("Expected no writes, got %d", store.writes())
		}
	})

	t.Run("EmptyNameSkipsLookup", func(t *testing.T) {
		ai := &fakeAI{}
		service := newMealLogService(newFakeStore(), ai)

		if _, err := service.AddMealByName(ctx, "u1", "2026-08-20", " "); !isValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
		if ai.lookupCalls != 0 {
			t.Errorf("Expected no lookups, got %d", ai.lookupCalls)
		}
	})
}

func TestMealLogServiceDeleteMeal(t *testing.T) {
	ctx := context.Background()

	seedTwoMeals := func(t *testing.T, service *MealLogService) {
		t.Helper()
		for _, meal := range []domain.Meal{
			{Name: "Breakfast", Nutrients: domain.NutrientProfile{domain.NutrientCalories: 400}},
			{Name: "Lunch", Nutrients: domain.NutrientProfile{domain.NutrientCalories: 700}},
		} {
			if _, err := service.AddMeal(ctx, "u1", "2026-08-20", meal); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
		}
	}

	t.Run("RemovesAndRecomputes", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})
		seedTwoMeals(t, service)

		day, err := service.DeleteMeal(ctx, "u1", "2026-08-20", 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(day.Meals) != 1 || day.Meals[0].Name != "Lunch" {
			t.Fatalf("Expected only Lunch to remain, got %#v", day.Meals)
		}
		if got := day.Totals.Value(domain.NutrientCalories); got != 700 {
			t.Errorf("Expected calories 700, got %v", got)
		}
	})

	t.Run("OutOfRangeWritesNothing", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})
		seedTwoMeals(t, service)
		writesBefore := store.writes()

		_, err := service.DeleteMeal(ctx, "u1", "2026-08-20", 5)
		if !errors.Is(err, apperrors.ErrIndexOutOfRange) {
			t.Errorf("Expected index out of range error, got %v", err)
		}
		if store.writes() != writesBefore {
			t.Errorf("Expected no additional writes, got %d", store.writes()-writesBefore)
		}

		day, err := service.GetDay(ctx, "u1", "2026-08-20")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(day.Meals) != 2 {
			t.Errorf("Expected log to keep 2 meals, got %d", len(day.Meals))
		}
	})

	t.Run("NegativeIndexFails", func(t *testing.T) {
		store := newFakeStore()
		service := newMealLogService(store, &fakeAI{})
		seedTwoMeals(t, service)

		if _, err := service.DeleteMeal(ctx, "u1", "2026-08-20", -1); !errors.Is(err, apperrors.ErrIndexOutOfRange) {
			t.Errorf("Expected index out of range error, got %v", err)
		}
	})
}
