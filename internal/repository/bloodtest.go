package repository

import (
	"context"
	"sort"

	"vitalog/internal/docstore"
	"vitalog/internal/domain"
)

// BloodTestRepository handles blood test documents
type BloodTestRepository struct {
	store docstore.Store
}

// NewBloodTestRepository creates a new blood test repository
func NewBloodTestRepository(store docstore.Store) *BloodTestRepository {
	return &BloodTestRepository{store: store}
}

// Save stores one blood test under its ID
func (r *BloodTestRepository) Save(ctx context.Context, userID string, test *domain.BloodTest) error {
	ref := docstore.Ref{Collection: bloodTestsCollection(userID), ID: test.ID}
	return r.store.Set(ctx, ref, test)
}

// List returns every blood test for the user, newest first. The store
// orders by document ID, so the sort by sample date happens here.
func (r *BloodTestRepository) List(ctx context.Context, userID string) ([]domain.BloodTest, error) {
	snapshots, err := r.store.List(ctx, bloodTestsCollection(userID), docstore.ListOptions{})
	if err != nil {
		return nil, err
	}

	tests := make([]domain.BloodTest, 0, len(snapshots))
	for _, snapshot := range snapshots {
		var test domain.BloodTest
		if err := snapshot.Decode(&test); err != nil {
			return nil, err
		}
		if test.ID == "" {
			test.ID = snapshot.Ref.ID
		}
		tests = append(tests, test)
	}

	sort.Slice(tests, func(i, j int) bool {
		return tests[i].TakenAt.After(tests[j].TakenAt)
	})
	return tests, nil
}

// Delete removes one blood test
func (r *BloodTestRepository) Delete(ctx context.Context, userID, testID string) error {
	return r.store.Delete(ctx, docstore.Ref{Collection: bloodTestsCollection(userID), ID: testID})
}
