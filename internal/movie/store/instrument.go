package store

import (
	"context"
	"time"

	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/pkg/metrics"
)

type instrumented struct {
	next    Store
	backend string
}

// Instrument records the latency and outcome of every call on s in
// metrics.StoreOperationDuration.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.StoreOperationDuration.WithLabelValues(i.backend, op, outcome).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error) {
	start := time.Now()
	out, err := i.next.Create(ctx, m)
	i.observe("create", start, err)
	return out, err
}

func (i *instrumented) Get(ctx context.Context, key Key) (*movie.Movie, error) {
	start := time.Now()
	out, err := i.next.Get(ctx, key)
	i.observe("get", start, err)
	return out, err
}

func (i *instrumented) Query(ctx context.Context, f Filter) ([]*movie.Movie, error) {
	start := time.Now()
	out, err := i.next.Query(ctx, f)
	i.observe("query", start, err)
	return out, err
}

func (i *instrumented) Replace(ctx context.Context, key Key, m *movie.Movie) (*movie.Movie, error) {
	start := time.Now()
	out, err := i.next.Replace(ctx, key, m)
	i.observe("replace", start, err)
	return out, err
}

func (i *instrumented) Delete(ctx context.Context, key Key) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.next.Ping(ctx)
	i.observe("ping", start, err)
	return err
}

func (i *instrumented) Close(ctx context.Context) error {
	return i.next.Close(ctx)
}
