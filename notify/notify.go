// Package notify delivers transient user-facing messages over Redis
// pub/sub. Frontends subscribe to the channel and surface the messages
// as toasts, so publishing is fire-and-forget: a lost message is an
// acceptable outcome and never fails the operation that produced it.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel notifications are published to.
const Channel = "luxestate:notifications"

// Message is the wire format of a single notification.
type Message struct {
	ID      string    `json:"id"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier publishes transient messages to interested subscribers.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Redis is a Notifier backed by Redis pub/sub.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a Redis notifier for the given server address.
func NewRedis(addr, password string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &Redis{client: client}
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Success publishes an informational message.
func (r *Redis) Success(ctx context.Context, message string) {
	r.publish(ctx, "success", message)
}

// Error publishes an error message.
func (r *Redis) Error(ctx context.Context, message string) {
	r.publish(ctx, "error", message)
}

func (r *Redis) publish(ctx context.Context, level, message string) {
	payload, err := json.Marshal(Message{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      time.Now().UTC(),
	})
	if err != nil {
		log.Printf("notify: marshal message: %v", err)
		return
	}

	if err := r.client.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("notify: publish: %v", err)
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop is a Notifier that discards every message.
type Noop struct{}

func (Noop) Success(ctx context.Context, message string) {}

func (Noop) Error(ctx context.Context, message string) {}
