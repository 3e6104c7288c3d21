package state

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const stateTTL = 24 * time.Hour

// RedisManager keeps user states in Redis so conversations survive
// restarts and multiple bot instances see the same state.
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager creates a state manager on an existing Redis client
func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{
		client: client,
	}
}

func stateKey(userID int64) string {
	return fmt.Sprintf("vitalog:tg:%d:state", userID)
}

// SetUserState sets the state for a user with a TTL so stale
// conversations clean themselves up.
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx := context.Background()
	m.client.Set(ctx, stateKey(userID), state, stateTTL)
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx := context.Background()
	result := m.client.Get(ctx, stateKey(userID))
	if result.Err() != nil {
		return None
	}
	return result.Val()
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	ctx := context.Background()
	m.client.Del(ctx, stateKey(userID))
}
