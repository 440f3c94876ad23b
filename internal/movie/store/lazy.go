package store

import (
	"context"
	"sync"
)

// lazyConn establishes a backend handle on first use and keeps it for the
// life of the process. Failed attempts are not cached. The handle outlives
// the request that created it, so connect gets a context that is never
// cancelled but keeps the caller's values.
type lazyConn[T any] struct {
	mu      sync.Mutex
	handle  T
	ready   bool
	connect func(ctx context.Context) (T, error)
}

func newLazyConn[T any](connect func(ctx context.Context) (T, error)) *lazyConn[T] {
	return &lazyConn[T]{connect: connect}
}

func (l *lazyConn[T]) get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return l.handle, nil
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	h, err := l.connect(context.WithoutCancel(ctx))
	if err != nil {
		var zero T
		return zero, err
	}
	l.handle, l.ready = h, true
	return h, nil
}

// current returns the handle without connecting.
func (l *lazyConn[T]) current() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle, l.ready
}
