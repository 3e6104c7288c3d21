package docstore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"vitalog/internal/logger"
)

const channelPrefix = "vitalog:docs:"

// RedisNotifier carries document change events over Redis pub/sub so
// watchers on any instance see writes from every instance. Publish
// failures are logged and swallowed: change delivery is best effort
// and must never fail a committed write.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode change event", "error", err, "path", event.Ref.Path())
		return
	}
	if err := n.client.Publish(ctx, channelPrefix+event.Ref.Path(), payload).Err(); err != nil {
		logger.Error("Failed to publish change event", "error", err, "path", event.Ref.Path())
	}
}

func (n *RedisNotifier) Subscribe(ctx context.Context, prefix string) (<-chan Event, func(), error) {
	// One pattern for the document itself, one for everything below it.
	patterns := []string{
		channelPrefix + prefix,
		channelPrefix + prefix + "/*",
	}
	pubsub := n.client.PSubscribe(ctx, patterns...)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	events := make(chan Event, subscriberBuffer)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("Dropping malformed change event", "error", err, "channel", msg.Channel)
				continue
			}
			select {
			case events <- event:
			default:
			}
		}
	}()

	cancel := func() {
		pubsub.Close()
	}
	return events, cancel, nil
}
