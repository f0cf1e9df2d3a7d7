package tx

import (
	"context"
	"sync"
)

// Manager wraps boundaries that must not interleave, such as a
// read-modify-write of a whole collection.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// SingleWriter runs one fn at a time within the process.
type SingleWriter struct {
	mu sync.Mutex
}

func NewSingleWriter() *SingleWriter {
	return &SingleWriter{}
}

func (w *SingleWriter) Within(ctx context.Context, fn func(context.Context) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
