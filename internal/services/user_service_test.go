package services

import (
	"context"
	"testing"

	"vitalog/internal/domain"
	"vitalog/internal/repository"
)

func newUserService(store *fakeStore) *UserService {
	return NewUserService(repository.NewUserRepository(store))
}

func TestUserServiceGetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingProfileReadsEmpty", func(t *testing.T) {
		service := newUserService(newFakeStore())

		profile, err := service.GetProfile(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if profile == nil {
			t.Fatal("Expected an empty profile, got nil")
		}
		if profile.Name != "" || profile.WeightKg != 0 {
			t.Errorf("Expected zero-valued profile, got %#v", profile)
		}
	})
}

func TestUserServiceSaveProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
		service := newUserService(newFakeStore())

		if err := service.SaveProfile(ctx, "u1", &domain.UserProfile{Name: "Dana", Goal: "lower sodium"}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := service.SaveProfile(ctx, "u1", &domain.UserProfile{WeightKg: 71.5}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		profile, err := service.GetProfile(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if profile.Name != "Dana" {
			t.Errorf("Expected name to survive partial update, got %q", profile.Name)
		}
		if profile.Goal != "lower sodium" {
			t.Errorf("Expected goal to survive partial update, got %q", profile.Goal)
		}
		if profile.WeightKg != 71.5 {
			t.Errorf("Expected weight 71.5, got %v", profile.WeightKg)
		}
	})

	t.Run("StampsUpdateTime", func(t *testing.T) {
		service := newUserService(newFakeStore())

		if err := service.SaveProfile(ctx, "u1", &domain.UserProfile{Name: " Dana "}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		profile, err := service.GetProfile(ctx, "u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if profile.UpdatedAt.IsZero() {
			t.Error("Expected UpdatedAt to be stamped")
		}
		if profile.Name != "Dana" {
			t.Errorf("Expected trimmed name, got %q", profile.Name)
		}
	})

	t.Run("NilProfileFails", func(t *testing.T) {
		service := newUserService(newFakeStore())

		if err := service.SaveProfile(ctx, "u1", nil); !isValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}
