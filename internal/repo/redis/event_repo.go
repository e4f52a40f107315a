package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const processedEventPrefix = "webhook_events:"

// EventRepo remembers which webhook deliveries have already been processed,
// so at-least-once redelivery can be short-circuited without touching the
// entitlement store again.
type EventRepo struct {
	client *goredis.Client
}

func NewEventRepo(client *goredis.Client) *EventRepo {
	return &EventRepo{client: client}
}

// Seen reports whether the event id was already marked processed.
func (r *EventRepo) Seen(ctx context.Context, eventID string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return false, fmt.Errorf("event id is required")
	}

	n, err := r.client.Exists(ctx, processedEventKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("check processed event: %w", err)
	}
	return n > 0, nil
}

// MarkProcessed records the event id with a retention TTL. Called only after
// the entitlement write succeeded.
func (r *EventRepo) MarkProcessed(ctx context.Context, eventID string, retention time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}
	if retention <= 0 {
		retention = 72 * time.Hour
	}

	if err := r.client.Set(ctx, processedEventKey(eventID), time.Now().UTC().Unix(), retention).Err(); err != nil {
		return fmt.Errorf("mark processed event: %w", err)
	}
	return nil
}

func processedEventKey(eventID string) string {
	return processedEventPrefix + eventID
}
