// Package store is the storage adapter for movie documents. Every backend
// exposes the same Store contract over a single logical collection.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/moviereview/movie-api/internal/movie"
)

var (
	// ErrStoreUnavailable means the backend connection could not be established.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrWrite wraps any failure persisting a document.
	ErrWrite = errors.New("store write failed")
	// ErrRead wraps any failure reading documents.
	ErrRead = errors.New("store read failed")
	// ErrInvalidQuery is returned for unsupported filter fields or operators.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound is returned by Replace when the target document is absent.
	ErrNotFound = errors.New("movie not found")
)

// Store persists movies. Get returns (nil, nil) when the document is absent.
// Delete of a missing document succeeds on every backend.
type Store interface {
	Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error)
	Get(ctx context.Context, key Key) (*movie.Movie, error)
	Query(ctx context.Context, f Filter) ([]*movie.Movie, error)
	Replace(ctx context.Context, key Key, m *movie.Movie) (*movie.Movie, error)
	Delete(ctx context.Context, key Key) error
	// Ping establishes the connection if needed and checks it is usable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Key addresses a document. PartitionKey is only used by partitioned
// backends; when empty they derive it from the id or look it up.
type Key struct {
	ID           string
	PartitionKey string
}

// IDKey addresses a document by id alone.
func IDKey(id string) Key {
	return Key{ID: id}
}

// Operator is a comparison operator usable in a Filter.
type Operator string

const (
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
)

// Queryable fields.
const (
	FieldRating = "rating"
	FieldTitle  = "title"
)

// Filter is a single comparison predicate: Field Op Value.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Validate rejects unsupported fields, operators and value types.
func (f Filter) Validate() error {
	switch f.Op {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
	default:
		return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, f.Op)
	}
	switch f.Field {
	case FieldRating:
		if _, ok := toInt64(f.Value); !ok {
			return fmt.Errorf("%w: rating filter needs an integer value, got %T", ErrInvalidQuery, f.Value)
		}
	case FieldTitle:
		if _, ok := f.Value.(string); !ok {
			return fmt.Errorf("%w: title filter needs a string value, got %T", ErrInvalidQuery, f.Value)
		}
	default:
		return fmt.Errorf("%w: unsupported field %q", ErrInvalidQuery, f.Field)
	}
	return nil
}

// Match evaluates the filter against m in process. Backends that cannot
// push the predicate down use it.
func (f Filter) Match(m *movie.Movie) bool {
	var c int
	switch f.Field {
	case FieldRating:
		v, _ := toInt64(f.Value)
		c = compare(int64(m.Rating), v)
	case FieldTitle:
		v, _ := f.Value.(string)
		c = compare(m.Title, v)
	default:
		return false
	}
	switch f.Op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	}
	return false
}

func compare[T int64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func unavailable(backend string, err error) error {
	return fmt.Errorf("%s: %w: %w", backend, ErrStoreUnavailable, err)
}

func writeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrWrite, err)
}

func readErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRead, err)
}
