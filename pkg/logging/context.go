package logging

import (
	"context"
)

type contextKey string

const (
	taskIDKey     contextKey = "task_id"
	generationKey contextKey = "generation"
)

// WithTaskID attaches the evolution task id to the context so every log line
// emitted under it carries the task.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey, taskID)
}

// GetTaskID returns the task id stored in the context, if any.
func GetTaskID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(taskIDKey).(string)
	return id, ok
}

// WithGeneration attaches the current generation counter to the context.
func WithGeneration(ctx context.Context, generation int) context.Context {
	return context.WithValue(ctx, generationKey, generation)
}

// GetGeneration returns the generation stored in the context, if any.
func GetGeneration(ctx context.Context) (int, bool) {
	gen, ok := ctx.Value(generationKey).(int)
	return gen, ok
}
