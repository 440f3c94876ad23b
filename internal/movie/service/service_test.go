package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/internal/movie/store"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func TestCreateGetReplace(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := New(store.NewMemoryStore(), WithClock(clock.now))

	created, err := svc.Create(ctx, movie.Input{Title: "  Inception  ", Rating: 5})
	require.NoError(t, err)
	require.Equal(t, "Inception", created.Title)
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Title, got.Title)
	require.Equal(t, created.Rating, got.Rating)

	replaced, err := svc.Replace(ctx, created.ID, movie.Input{Title: "Tenet", Rating: 3})
	require.NoError(t, err)
	require.Equal(t, created.ID, replaced.ID)
	require.Equal(t, "Tenet", replaced.Title)
	require.Equal(t, 3, replaced.Rating)
	require.Equal(t, created.CreatedAt, replaced.CreatedAt)
	require.True(t, replaced.UpdatedAt.After(created.UpdatedAt))
}

func TestGetMissing(t *testing.T) {
	svc := New(store.NewMemoryStore())
	_, err := svc.Get(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceMissing(t *testing.T) {
	svc := New(store.NewMemoryStore())
	_, err := svc.Replace(context.Background(), "does-not-exist", movie.Input{Title: "x", Rating: 2})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidInputRejected(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemoryStore())
	for _, in := range []movie.Input{
		{Title: "   ", Rating: 3},
		{Title: strings.Repeat("a", 201), Rating: 3},
		{Title: "ok", Rating: 0},
		{Title: "ok", Rating: 6},
	} {
		_, err := svc.Create(ctx, in)
		require.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}
}

func TestListFiltersByMinRating(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemoryStore())
	for _, r := range []int{1, 2, 3, 4, 5} {
		_, err := svc.Create(ctx, movie.Input{Title: "m", Rating: r})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)

	high, err := svc.List(ctx, 4)
	require.NoError(t, err)
	require.Len(t, high, 2)
	for _, m := range high {
		require.GreaterOrEqual(t, m.Rating, 4)
	}
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemoryStore())
	created, err := svc.Create(ctx, movie.Input{Title: "Jaws", Rating: 4})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

type failingStore struct{ store.Store }

func (failingStore) Query(context.Context, store.Filter) ([]*movie.Movie, error) {
	return nil, store.ErrRead
}

func TestListWrapsStoreErrors(t *testing.T) {
	svc := New(failingStore{store.NewMemoryStore()})
	_, err := svc.List(context.Background(), 0)
	require.True(t, errors.Is(err, store.ErrRead))
}
