package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vitalog/internal/database"
	apperrors "vitalog/internal/errors"
)

// PostgresStore keeps documents in one relational table and publishes
// every committed write to the notifier.
type PostgresStore struct {
	db       *gorm.DB
	notifier Notifier
}

func NewPostgresStore(db *gorm.DB, notifier Notifier) *PostgresStore {
	return &PostgresStore{db: db, notifier: notifier}
}

func (s *PostgresStore) Get(ctx context.Context, ref Ref, out interface{}) error {
	var doc database.Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", ref.Collection, ref.ID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ref)
		}
		return apperrors.NewDatabaseError(err)
	}
	if err := json.Unmarshal([]byte(doc.Data), out); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("failed to decode document %s: %w", ref.Path(), err))
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, ref Ref, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("failed to encode document %s: %w", ref.Path(), err))
	}

	doc := database.Document{
		Collection: ref.Collection,
		DocID:      ref.ID,
		Data:       string(payload),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&doc).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}

	s.notifier.Publish(ctx, Event{Ref: ref, Data: payload})
	return nil
}

func (s *PostgresStore) Merge(ctx context.Context, ref Ref, fields map[string]interface{}) error {
	var merged []byte
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc database.Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("collection = ? AND doc_id = ?", ref.Collection, ref.ID).
			First(&doc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			payload, err := json.Marshal(fields)
			if err != nil {
				return fmt.Errorf("failed to encode document %s: %w", ref.Path(), err)
			}
			merged = payload
			return tx.Create(&database.Document{
				Collection: ref.Collection,
				DocID:      ref.ID,
				Data:       string(payload),
			}).Error
		}
		if err != nil {
			return err
		}

		current := map[string]interface{}{}
		if err := json.Unmarshal([]byte(doc.Data), &current); err != nil {
			// A corrupt payload is replaced rather than kept broken.
			current = map[string]interface{}{}
		}
		for key, value := range fields {
			current[key] = value
		}
		payload, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to encode document %s: %w", ref.Path(), err)
		}
		merged = payload
		return tx.Model(&database.Document{}).
			Where("id = ?", doc.ID).
			Update("data", string(payload)).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}

	s.notifier.Publish(ctx, Event{Ref: ref, Data: merged})
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, ref Ref) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", ref.Collection, ref.ID).
		Delete(&database.Document{})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(ref)
	}

	s.notifier.Publish(ctx, Event{Ref: ref})
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string, opts ListOptions) ([]Snapshot, error) {
	query := s.db.WithContext(ctx).
		Model(&database.Document{}).
		Where("collection = ?", collection)
	if opts.StartID != "" {
		query = query.Where("doc_id >= ?", opts.StartID)
	}
	if opts.EndID != "" {
		query = query.Where("doc_id <= ?", opts.EndID)
	}
	query = query.Order("doc_id ASC")
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var docs []database.Document
	if err := query.Find(&docs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	snapshots := make([]Snapshot, 0, len(docs))
	for _, doc := range docs {
		snapshots = append(snapshots, Snapshot{
			Ref:  Ref{Collection: doc.Collection, ID: doc.DocID},
			Data: json.RawMessage(doc.Data),
		})
	}
	return snapshots, nil
}

func (s *PostgresStore) Watch(ctx context.Context, prefix string) (<-chan Event, func(), error) {
	return s.notifier.Subscribe(ctx, prefix)
}

func notFound(ref Ref) error {
	return apperrors.New(apperrors.ErrorTypeNotFound, "DOC_NOT_FOUND", "Document not found").
		WithContext("path", ref.Path())
}
