package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stockbot/pkg"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const (
	greetingPrefix   = "greeting:"
	dialogPrefix     = "dialog:"
	transcriptPrefix = "transcript:"

	// DefaultTTL keeps conversation records for 40 minutes of
	// inactivity; greeting records live for the user record lifetime.
	DefaultTTL = 40 * time.Minute
)

// RedisStore implements Store on Redis. Values are JSON blobs; the
// store's last-write-wins contract matches the core's per-turn
// read-once/write-once usage.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis using the configured URL.
func NewRedisStore(ctx context.Context, config pkg.RedisConfig) (*RedisStore, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := time.Duration(config.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreFromClient wraps an existing client; used by tests.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) GetGreeting(ctx context.Context, userID string) (pkg.GreetingState, error) {
	var state pkg.GreetingState
	data, err := r.client.Get(ctx, greetingPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return state, nil
		}
		return state, fmt.Errorf("failed to get greeting state: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return pkg.GreetingState{}, fmt.Errorf("failed to unmarshal greeting state: %w", err)
	}
	return state, nil
}

func (r *RedisStore) SaveGreeting(ctx context.Context, userID string, state pkg.GreetingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal greeting state: %w", err)
	}
	// Greeting state follows the user record lifetime, no TTL.
	if err := r.client.Set(ctx, greetingPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save greeting state: %w", err)
	}
	return nil
}

func (r *RedisStore) GetDialogState(ctx context.Context, conversationID string) (*pkg.DialogState, error) {
	data, err := r.client.Get(ctx, dialogPrefix+conversationID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return newDialogState(conversationID), nil
		}
		return nil, fmt.Errorf("failed to get dialog state: %w", err)
	}
	var state pkg.DialogState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dialog state: %w", err)
	}
	return &state, nil
}

func (r *RedisStore) SaveDialogState(ctx context.Context, state *pkg.DialogState) error {
	state.UpdatedAt = time.Now().Unix()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal dialog state: %w", err)
	}
	if err := r.client.Set(ctx, dialogPrefix+state.ConversationID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save dialog state: %w", err)
	}
	return nil
}

func (r *RedisStore) AppendTranscript(ctx context.Context, conversationID string, messages ...*schema.Message) error {
	transcript, err := r.GetTranscript(ctx, conversationID)
	if err != nil {
		return err
	}
	transcript = trimTail(append(transcript, messages...), MaxTranscriptMessages)

	data, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := r.client.Set(ctx, transcriptPrefix+conversationID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

func (r *RedisStore) GetTranscript(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	data, err := r.client.Get(ctx, transcriptPrefix+conversationID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*schema.Message{}, nil
		}
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	var transcript []*schema.Message
	if err := json.Unmarshal([]byte(data), &transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return transcript, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping tests the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
