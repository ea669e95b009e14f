package queue

import "context"

// JobQueue accepts named jobs for background delivery.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload map[string]any) error
}

// HandlerQueue supports setting a handler for job delivery.
type HandlerQueue interface {
	JobQueue
	SetHandler(handler Handler)
	Close()
}

// Handler executes a delivered job.
type Handler func(ctx context.Context, name string, payload map[string]any)
