package repository

import (
	"context"
	"encoding/json"
	"errors"

	"vitalog/internal/docstore"
	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
)

// Collection layout: one profile document per user with blood tests
// and daily logs in sub-collections below it.
func profileRef(userID string) docstore.Ref {
	return docstore.Ref{Collection: "users", ID: userID}
}

func bloodTestsCollection(userID string) string {
	return "users/" + userID + "/bloodTests"
}

func dailyLogsCollection(userID string) string {
	return "users/" + userID + "/dailyLogs"
}

// UserPrefix is the watch prefix covering every document of one user.
func UserPrefix(userID string) string {
	return "users/" + userID
}

// UserRepository handles user profile documents
type UserRepository struct {
	store docstore.Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// GetProfile loads a user's profile. A user who never saved one gets
// an empty profile, not an error.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := r.store.Get(ctx, profileRef(userID), &profile); err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			return &domain.UserProfile{}, nil
		}
		return nil, err
	}
	return &profile, nil
}

// SaveProfile merges the set fields into the stored profile, so a
// partial update keeps the fields it does not mention.
func (r *UserRepository) SaveProfile(ctx context.Context, userID string, profile *domain.UserProfile) error {
	fields, err := structFields(profile)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return r.store.Merge(ctx, profileRef(userID), fields)
}

// structFields flattens a struct into its JSON object form. Fields the
// caller left unset are dropped by their omitempty tags and therefore
// survive a merge untouched.
func structFields(v interface{}) (map[string]interface{}, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
