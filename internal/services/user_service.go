package services

import (
	"context"
	"strings"
	"time"

	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/repository"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.users.GetProfile(ctx, userID)
}

// SaveProfile merges the set fields into the stored profile and stamps
// the update time. Unset fields keep their stored values.
func (s *UserService) SaveProfile(ctx context.Context, userID string, profile *domain.UserProfile) error {
	if profile == nil {
		return apperrors.New(apperrors.ErrorTypeValidation, "EMPTY_PROFILE", "Profile payload is required")
	}
	profile.Name = strings.TrimSpace(profile.Name)
	profile.UpdatedAt = time.Now().UTC()
	return s.users.SaveProfile(ctx, userID, profile)
}
