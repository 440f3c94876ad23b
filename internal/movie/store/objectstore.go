package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/moviereview/movie-api/internal/config"
	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/internal/storage"
	"github.com/moviereview/movie-api/pkg/logger"
)

const objectPrefix = "movies/"

// ObjectClient is the subset of an object store the ObjectStore needs.
// *storage.MinIOStorage implements it.
type ObjectClient interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	StatObject(ctx context.Context, key string) (bool, error)
	RemoveObject(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// ObjectStore keeps one JSON object per movie under movies/<id>.json.
// Queries list the prefix and filter in process.
type ObjectStore struct {
	client *lazyConn[ObjectClient]
}

// NewObjectStore builds an ObjectStore whose client is created by connect on first use.
func NewObjectStore(connect func(ctx context.Context) (ObjectClient, error)) *ObjectStore {
	return &ObjectStore{client: newLazyConn(connect)}
}

// NewMinIOStore returns an ObjectStore backed by a MinIO bucket.
func NewMinIOStore(cfg config.MinIOConfig) *ObjectStore {
	return NewObjectStore(func(ctx context.Context) (ObjectClient, error) {
		logger.Infof("connecting to MinIO (endpoint=%s bucket=%s)", cfg.Endpoint, cfg.Bucket)
		c, err := storage.NewMinIOStorage(ctx, cfg)
		if err != nil {
			return nil, unavailable("minio", err)
		}
		return c, nil
	})
}

func objectKey(id string) string {
	return objectPrefix + id + ".json"
}

func (s *ObjectStore) Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error) {
	c, err := s.client.get(ctx)
	if err != nil {
		return nil, err
	}
	doc := *m
	doc.ID = uuid.NewString()
	if err := s.put(ctx, c, &doc); err != nil {
		return nil, writeErr("object create", err)
	}
	return &doc, nil
}

func (s *ObjectStore) Get(ctx context.Context, key Key) (*movie.Movie, error) {
	c, err := s.client.get(ctx)
	if err != nil {
		return nil, err
	}
	// ids never contain a slash; anything else would escape the prefix
	if strings.Contains(key.ID, "/") {
		return nil, nil
	}
	return s.read(ctx, c, objectKey(key.ID))
}

func (s *ObjectStore) Query(ctx context.Context, f Filter) ([]*movie.Movie, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c, err := s.client.get(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := c.ListKeys(ctx, objectPrefix)
	if err != nil {
		return nil, readErr("object list", err)
	}
	out := []*movie.Movie{}
	for _, k := range keys {
		m, err := s.read(ctx, c, k)
		if err != nil {
			return nil, err
		}
		if m != nil && f.Match(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *ObjectStore) Replace(ctx context.Context, key Key, m *movie.Movie) (*movie.Movie, error) {
	c, err := s.client.get(ctx)
	if err != nil {
		return nil, err
	}
	if strings.Contains(key.ID, "/") {
		return nil, ErrNotFound
	}
	ok, err := c.StatObject(ctx, objectKey(key.ID))
	if err != nil {
		return nil, writeErr("object replace", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	doc := *m
	doc.ID = key.ID
	if err := s.put(ctx, c, &doc); err != nil {
		return nil, writeErr("object replace", err)
	}
	return &doc, nil
}

func (s *ObjectStore) Delete(ctx context.Context, key Key) error {
	c, err := s.client.get(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(key.ID, "/") {
		return nil
	}
	if err := c.RemoveObject(ctx, objectKey(key.ID)); err != nil {
		return writeErr("object delete", err)
	}
	return nil
}

func (s *ObjectStore) Ping(ctx context.Context) error {
	c, err := s.client.get(ctx)
	if err != nil {
		return err
	}
	if err := c.Ping(ctx); err != nil {
		return unavailable("object", err)
	}
	return nil
}

func (s *ObjectStore) Close(context.Context) error { return nil }

func (s *ObjectStore) put(ctx context.Context, c ObjectClient, m *movie.Movie) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return c.PutObject(ctx, objectKey(m.ID), b, "application/json")
}

func (s *ObjectStore) read(ctx context.Context, c ObjectClient, key string) (*movie.Movie, error) {
	b, err := c.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, readErr("object get", err)
	}
	var m movie.Movie
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, readErr("object decode", err)
	}
	return &m, nil
}
