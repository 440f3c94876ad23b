package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"github.com/moviereview/movie-api/internal/config"
	"github.com/moviereview/movie-api/internal/database"
	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/pkg/logger"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps movies in a single Firestore collection addressed by
// document id. Ids are Firestore auto-ids.
type FirestoreStore struct {
	cfg    config.FirestoreConfig
	client *lazyConn[*firestore.Client]
}

func NewFirestoreStore(cfg config.FirestoreConfig) *FirestoreStore {
	if cfg.Collection == "" {
		cfg.Collection = "movies"
	}
	s := &FirestoreStore{cfg: cfg}
	s.client = newLazyConn(s.connect)
	return s
}

func (s *FirestoreStore) connect(ctx context.Context) (*firestore.Client, error) {
	logger.Infof("connecting to Firestore (project=%s collection=%s)", s.cfg.ProjectID, s.cfg.Collection)
	c, err := database.ConnectFirestore(ctx, s.cfg.ProjectID)
	if err != nil {
		return nil, unavailable("firestore", err)
	}
	logger.Infof("Firestore initialized")
	return c, nil
}

func (s *FirestoreStore) collection(ctx context.Context) (*firestore.Client, *firestore.CollectionRef, error) {
	c, err := s.client.get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, c.Collection(s.cfg.Collection), nil
}

func (s *FirestoreStore) Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error) {
	_, col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	ref, _, err := col.Add(ctx, m)
	if err != nil {
		return nil, writeErr("firestore add", err)
	}
	doc := *m
	doc.ID = ref.ID
	return &doc, nil
}

func (s *FirestoreStore) Get(ctx context.Context, key Key) (*movie.Movie, error) {
	_, col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := col.Doc(key.ID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, readErr("firestore get", err)
	}
	return decodeSnapshot(snap)
}

func (s *FirestoreStore) Query(ctx context.Context, f Filter) ([]*movie.Movie, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	_, col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	iter := col.Where(f.Field, string(f.Op), f.Value).Documents(ctx)
	defer iter.Stop()
	out := []*movie.Movie{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, readErr("firestore query", err)
		}
		m, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Replace overwrites the whole document (no merge). The read inside the
// transaction makes a vanished document an ErrNotFound instead of an upsert.
func (s *FirestoreStore) Replace(ctx context.Context, key Key, m *movie.Movie) (*movie.Movie, error) {
	c, col, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}
	ref := col.Doc(key.ID)
	err = c.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, m)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, writeErr("firestore replace", err)
	}
	doc := *m
	doc.ID = key.ID
	return &doc, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, key Key) error {
	_, col, err := s.collection(ctx)
	if err != nil {
		return err
	}
	if _, err := col.Doc(key.ID).Delete(ctx); err != nil {
		return writeErr("firestore delete", err)
	}
	return nil
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, col, err := s.collection(ctx)
	if err != nil {
		return err
	}
	iter := col.Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return unavailable("firestore", err)
	}
	return nil
}

func (s *FirestoreStore) Close(context.Context) error {
	c, ok := s.client.current()
	if !ok {
		return nil
	}
	return c.Close()
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (*movie.Movie, error) {
	var m movie.Movie
	if err := snap.DataTo(&m); err != nil {
		return nil, readErr("firestore decode", err)
	}
	m.ID = snap.Ref.ID
	return &m, nil
}
