package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handler processes one dequeued job. A non-nil return marks the job failed.
type Handler func(ctx context.Context, job Job) error

// Worker dequeues jobs and dispatches them to registered handlers.
type Worker struct {
	client      *redis.Client
	key         string
	concurrency int
	handlers    map[string]Handler
}

// NewWorker creates a worker pool over the given Redis list.
func NewWorker(client *redis.Client, key string, concurrency int) *Worker {
	if key == "" {
		key = DefaultKey
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		client:      client,
		key:         key,
		concurrency: concurrency,
		handlers:    make(map[string]Handler),
	}
}

// Register binds a handler to a job name. Must be called before Run.
func (w *Worker) Register(jobName string, h Handler) {
	w.handlers[jobName] = h
}

// Run starts the worker goroutines and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	log.Printf("queue worker started: key=%s concurrency=%d", w.key, w.concurrency)
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := w.client.BRPop(ctx, 5*time.Second, w.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.Printf("queue worker: pop failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value]
		if len(res) != 2 {
			continue
		}
		w.dispatch(ctx, []byte(res[1]))
	}
}

func (w *Worker) dispatch(ctx context.Context, data []byte) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		log.Printf("queue worker: dropping malformed job: %v", err)
		return
	}

	h, ok := w.handlers[job.Name]
	if !ok {
		log.Printf("queue worker: no handler for job %s (id=%s)", job.Name, job.ID)
		return
	}

	if err := h(ctx, job); err != nil {
		log.Printf("queue worker: job %s (id=%s) failed: %v", job.Name, job.ID, err)
		return
	}
	log.Printf("queue worker: job %s (id=%s) completed", job.Name, job.ID)
}
