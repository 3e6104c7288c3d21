// Package docstore is the document-store boundary the application
// persists through: JSON documents addressed by (collection, id) with
// get, set, set-with-merge, delete, ordered listing and change
// subscription.
package docstore

import (
	"context"
	"encoding/json"
	"strings"
)

// Ref addresses one document inside a collection.
type Ref struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// Path returns the slash-joined document path.
func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

// Snapshot is one document's content as read from the store.
type Snapshot struct {
	Ref  Ref
	Data json.RawMessage
}

// Decode unmarshals the snapshot payload into out.
func (s Snapshot) Decode(out interface{}) error {
	return json.Unmarshal(s.Data, out)
}

// Event is one observed document change. Data is nil when the document
// was deleted.
type Event struct {
	Ref  Ref             `json:"ref"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ListOptions bounds a collection listing. IDs are compared lexically
// and listed ascending, so date-keyed collections come back in
// calendar order.
type ListOptions struct {
	StartID string // inclusive lower bound when set
	EndID   string // inclusive upper bound when set
	Limit   int    // no limit when zero
}

// Store is the document store seen by the rest of the application.
// Merge updates only the given top-level fields, creating the document
// when it does not exist yet. Watch delivers change events for every
// document whose path falls under prefix.
type Store interface {
	Get(ctx context.Context, ref Ref, out interface{}) error
	Set(ctx context.Context, ref Ref, value interface{}) error
	Merge(ctx context.Context, ref Ref, fields map[string]interface{}) error
	Delete(ctx context.Context, ref Ref) error
	List(ctx context.Context, collection string, opts ListOptions) ([]Snapshot, error)
	Watch(ctx context.Context, prefix string) (<-chan Event, func(), error)
}

// Notifier fans committed document changes out to watchers.
type Notifier interface {
	Publish(ctx context.Context, event Event)
	Subscribe(ctx context.Context, prefix string) (<-chan Event, func(), error)
}

// MatchesPrefix reports whether a document path falls under a watch
// prefix: the document itself or anything below it. "users/u1" covers
// "users/u1" and "users/u1/dailyLogs/2026-08-22" but not "users/u10".
func MatchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
