package repository

import (
	"context"
	"errors"

	"vitalog/internal/docstore"
	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
)

// DailyLogRepository handles per-date meal log documents
type DailyLogRepository struct {
	store docstore.Store
}

// NewDailyLogRepository creates a new daily log repository
func NewDailyLogRepository(store docstore.Store) *DailyLogRepository {
	return &DailyLogRepository{store: store}
}

func (r *DailyLogRepository) ref(userID, date string) docstore.Ref {
	return docstore.Ref{Collection: dailyLogsCollection(userID), ID: date}
}

// GetDay loads one date's log. A date that was never written reads as
// an empty log; the document is only created by the first mutation.
func (r *DailyLogRepository) GetDay(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	var day domain.DailyLog
	if err := r.store.Get(ctx, r.ref(userID, date), &day); err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			return &domain.DailyLog{Date: date}, nil
		}
		return nil, err
	}
	day.Date = date
	return &day, nil
}

// SaveDay writes the full day record: meals plus the derived totals
// and status.
func (r *DailyLogRepository) SaveDay(ctx context.Context, userID string, day *domain.DailyLog) error {
	return r.store.Set(ctx, r.ref(userID, day.Date), day)
}

// Range lists the logs between two dates inclusive, in calendar order.
func (r *DailyLogRepository) Range(ctx context.Context, userID, from, to string) ([]domain.DailyLog, error) {
	snapshots, err := r.store.List(ctx, dailyLogsCollection(userID), docstore.ListOptions{
		StartID: from,
		EndID:   to,
	})
	if err != nil {
		return nil, err
	}

	days := make([]domain.DailyLog, 0, len(snapshots))
	for _, snapshot := range snapshots {
		var day domain.DailyLog
		if err := snapshot.Decode(&day); err != nil {
			return nil, err
		}
		day.Date = snapshot.Ref.ID
		days = append(days, day)
	}
	return days, nil
}
