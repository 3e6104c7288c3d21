package docstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestMatchesPrefix(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		want   bool
	}{
		{"users/u1", "users/u1", true},
		{"users/u1/dailyLogs/2026-08-22", "users/u1", true},
		{"users/u1/bloodTests/abc", "users/u1", true},
		{"users/u10", "users/u1", false},
		{"users/u10/dailyLogs/2026-08-22", "users/u1", false},
		{"users/u2", "users/u1", false},
	}
	for _, tt := range tests {
		if got := MatchesPrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("Expected MatchesPrefix(%q, %q) to be %v, got %v", tt.path, tt.prefix, tt.want, got)
		}
	}
}

func TestMemoryNotifier(t *testing.T) {
	ctx := context.Background()

	receive := func(t *testing.T, events <-chan Event) Event {
		t.Helper()
		select {
		case event := <-events:
			return event
		case <-time.After(time.Second):
			t.Fatal("Expected an event, got none")
			return Event{}
		}
	}

	t.Run("DeliversMatchingEvents", func(t *testing.T) {
		notifier := NewMemoryNotifier()
		events, cancel, err := notifier.Subscribe(ctx, "users/u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defer cancel()

		notifier.Publish(ctx, Event{
			Ref:  Ref{Collection: "users/u1/dailyLogs", ID: "2026-08-22"},
			Data: json.RawMessage(`{"meals":[]}`),
		})

		event := receive(t, events)
		if event.Ref.ID != "2026-08-22" {
			t.Errorf("Expected event for 2026-08-22, got %q", event.Ref.ID)
		}
	})

	t.Run("FiltersOtherUsers", func(t *testing.T) {
		notifier := NewMemoryNotifier()
		events, cancel, err := notifier.Subscribe(ctx, "users/u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defer cancel()

		notifier.Publish(ctx, Event{Ref: Ref{Collection: "users/u10/dailyLogs", ID: "2026-08-22"}})
		notifier.Publish(ctx, Event{Ref: Ref{Collection: "users", ID: "u1"}})

		event := receive(t, events)
		if event.Ref.Path() != "users/u1" {
			t.Errorf("Expected only the matching profile event, got %q", event.Ref.Path())
		}
		select {
		case extra := <-events:
			t.Errorf("Expected no further events, got %q", extra.Ref.Path())
		default:
		}
	})

	t.Run("CancelStopsDelivery", func(t *testing.T) {
		notifier := NewMemoryNotifier()
		events, cancel, err := notifier.Subscribe(ctx, "users/u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		cancel()
		cancel() // safe to call twice

		if _, open := <-events; open {
			t.Error("Expected the event channel to be closed after cancel")
		}

		// Publishing after cancel must not panic.
		notifier.Publish(ctx, Event{Ref: Ref{Collection: "users", ID: "u1"}})
	})

	t.Run("SlowSubscriberDoesNotBlock", func(t *testing.T) {
		notifier := NewMemoryNotifier()
		_, cancel, err := notifier.Subscribe(ctx, "users/u1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < subscriberBuffer*3; i++ {
				notifier.Publish(ctx, Event{Ref: Ref{Collection: "users", ID: "u1"}})
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Expected publishing to finish even with a full subscriber buffer")
		}
	})
}
