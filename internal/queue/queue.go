// Package queue implements a small Redis-backed job queue: producers LPUSH
// JSON job envelopes onto a list, workers BRPOP and dispatch them to
// registered handlers. Delivery is at-least-once, so handlers must be
// idempotent.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list jobs are pushed onto.
const DefaultKey = "minipay:jobs"

// Job is the envelope stored on the queue.
type Job struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Queue is the producer side of the job queue.
type Queue interface {
	Enqueue(ctx context.Context, jobName string, payload json.RawMessage) (string, error)
}

type redisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a Queue producing onto the given Redis list.
func NewRedisQueue(client *redis.Client, key string) Queue {
	if key == "" {
		key = DefaultKey
	}
	return &redisQueue{client: client, key: key}
}

func (q *redisQueue) Enqueue(ctx context.Context, jobName string, payload json.RawMessage) (string, error) {
	job := Job{
		ID:         uuid.NewString(),
		Name:       jobName,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return "", fmt.Errorf("failed to enqueue job %s: %w", jobName, err)
	}
	return job.ID, nil
}
