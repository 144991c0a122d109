package notifier

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultTTL = 3 * time.Second

	sinkTimeout = 10 * time.Second
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is a transient operator notification.
type Toast struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sink receives a copy of pushed toasts, e.g. an admin chat.
type Sink interface {
	Deliver(ctx context.Context, t Toast) error
}

type SinkFunc func(ctx context.Context, t Toast) error

func (f SinkFunc) Deliver(ctx context.Context, t Toast) error {
	return f(ctx, t)
}

type Option func(*Queue)

func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

// WithSink mirrors toasts of the given levels (all levels when none are given).
func WithSink(sink Sink, levels ...Level) Option {
	return func(q *Queue) {
		q.sink = sink
		q.sinkLevels = levels
	}
}

// Queue keeps toasts in insertion order until they expire. No dedup, no persistence.
type Queue struct {
	mu     sync.Mutex
	items  []Toast
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	sink       Sink
	sinkLevels []Level
	wg         sync.WaitGroup
}

func New(ttl time.Duration, logger *slog.Logger, opts ...Option) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	q := &Queue{
		ttl:    ttl,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) Push(text string, level Level) Toast {
	now := q.now()
	t := Toast{
		ID:        q.newID(),
		Text:      text,
		Level:     level,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
	}

	q.mu.Lock()
	q.items = append(q.items, t)
	q.mu.Unlock()

	if q.sink != nil && (len(q.sinkLevels) == 0 || slices.Contains(q.sinkLevels, level)) {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			defer cancel()
			if err := q.sink.Deliver(ctx, t); err != nil {
				q.logger.Warn("Failed to mirror toast", "toast_id", t.ID, "error", err)
			}
		}()
	}
	return t
}

func (q *Queue) Info(text string) Toast {
	return q.Push(text, LevelInfo)
}

func (q *Queue) Success(text string) Toast {
	return q.Push(text, LevelSuccess)
}

func (q *Queue) Error(text string) Toast {
	return q.Push(text, LevelError)
}

// List returns live toasts oldest first. Expired toasts are never returned, even before Prune.
func (q *Queue) List() []Toast {
	now := q.now()

	q.mu.Lock()
	defer q.mu.Unlock()
	return lo.Filter(q.items, func(t Toast, _ int) bool { return now.Before(t.ExpiresAt) })
}

// Prune drops expired toasts and reports how many were removed.
func (q *Queue) Prune() int {
	now := q.now()

	q.mu.Lock()
	defer q.mu.Unlock()

	before := len(q.items)
	q.items = slices.DeleteFunc(q.items, func(t Toast) bool { return !now.Before(t.ExpiresAt) })
	return before - len(q.items)
}

// Wait blocks until in-flight sink deliveries finish.
func (q *Queue) Wait() {
	q.wg.Wait()
}
