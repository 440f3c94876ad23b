package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/internal/movie/store"
)

var (
	// ErrNotFound is returned when the referenced movie does not exist.
	ErrNotFound = store.ErrNotFound
	// ErrInvalidInput is returned for input that breaks the movie invariants.
	ErrInvalidInput = errors.New("invalid movie input")
)

// Service defines the movie operations used by the handler layer.
type Service interface {
	List(ctx context.Context, minRating int) ([]*movie.Movie, error)
	Get(ctx context.Context, id string) (*movie.Movie, error)
	Create(ctx context.Context, in movie.Input) (*movie.Movie, error)
	Replace(ctx context.Context, id string, in movie.Input) (*movie.Movie, error)
	Delete(ctx context.Context, id string) error
	Ready(ctx context.Context) error
}

// Option configures the service.
type Option func(*movieService)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *movieService) { s.now = now }
}

// New returns a Service persisting through st.
func New(st store.Store, opts ...Option) Service {
	s := &movieService{store: st, now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

type movieService struct {
	store store.Store
	now   func() time.Time
}

func (s *movieService) List(ctx context.Context, minRating int) ([]*movie.Movie, error) {
	list, err := s.store.Query(ctx, store.Filter{Field: store.FieldRating, Op: store.OpGte, Value: minRating})
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	if list == nil {
		list = []*movie.Movie{}
	}
	return list, nil
}

func (s *movieService) Get(ctx context.Context, id string) (*movie.Movie, error) {
	m, err := s.store.Get(ctx, store.IDKey(id))
	if err != nil {
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *movieService) Create(ctx context.Context, in movie.Input) (*movie.Movie, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !in.Valid() {
		return nil, ErrInvalidInput
	}
	now := s.now()
	m, err := s.store.Create(ctx, &movie.Movie{Title: in.Title, Rating: in.Rating, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return m, nil
}

// Replace overwrites title and rating. createdAt is carried over from the
// stored document; nothing else survives.
func (s *movieService) Replace(ctx context.Context, id string, in movie.Input) (*movie.Movie, error) {
	in.Title = strings.TrimSpace(in.Title)
	if !in.Valid() {
		return nil, ErrInvalidInput
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m := &movie.Movie{
		ID:        id,
		Title:     in.Title,
		Rating:    in.Rating,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now(),
	}
	out, err := s.store.Replace(ctx, store.IDKey(id), m)
	if err != nil {
		return nil, fmt.Errorf("replace movie %s: %w", id, err)
	}
	return out, nil
}

func (s *movieService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, store.IDKey(id)); err != nil {
		return fmt.Errorf("delete movie %s: %w", id, err)
	}
	return nil
}

func (s *movieService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
