package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/google/uuid"
	"github.com/moviereview/movie-api/internal/config"
	"github.com/moviereview/movie-api/internal/database"
	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/pkg/logger"
)

// CosmosStore keeps movies in a hash-partitioned Cosmos DB container.
// The container is opened (and created when absent) on first use.
type CosmosStore struct {
	cfg       config.CosmosConfig
	container *lazyConn[*azcosmos.ContainerClient]
}

func NewCosmosStore(cfg config.CosmosConfig) *CosmosStore {
	if cfg.PartitionKey == "" {
		cfg.PartitionKey = "/id"
	}
	s := &CosmosStore{cfg: cfg}
	s.container = newLazyConn(s.connect)
	return s
}

func (s *CosmosStore) connect(ctx context.Context) (*azcosmos.ContainerClient, error) {
	logger.Infof("connecting to Cosmos DB (database=%s container=%s partitionKey=%s)", s.cfg.Database, s.cfg.Container, s.cfg.PartitionKey)
	c, err := database.ConnectCosmos(ctx, database.CosmosOptions{
		ConnectionString: s.cfg.ConnectionString,
		Database:         s.cfg.Database,
		Container:        s.cfg.Container,
		PartitionKeyPath: s.cfg.PartitionKey,
	})
	if err != nil {
		return nil, unavailable("cosmos", err)
	}
	logger.Infof("Cosmos DB initialized")
	return c, nil
}

func (s *CosmosStore) Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error) {
	c, err := s.container.get(ctx)
	if err != nil {
		return nil, err
	}
	doc := *m
	doc.ID = uuid.NewString()
	body, err := json.Marshal(&doc)
	if err != nil {
		return nil, writeErr("cosmos create", err)
	}
	pk, err := partitionFromDocument(s.cfg.PartitionKey, body)
	if err != nil {
		return nil, writeErr("cosmos create", err)
	}
	resp, err := c.CreateItem(ctx, pk, body, &azcosmos.ItemOptions{EnableContentResponseOnWrite: true})
	if err != nil {
		return nil, writeErr("cosmos create", err)
	}
	return decodeCosmos(resp.Value, &doc)
}

func (s *CosmosStore) Get(ctx context.Context, key Key) (*movie.Movie, error) {
	c, err := s.container.get(ctx)
	if err != nil {
		return nil, err
	}
	pk, ok := s.directPartition(key)
	if !ok {
		m, _, err := s.lookup(ctx, c, key.ID)
		return m, err
	}
	resp, err := c.ReadItem(ctx, pk, key.ID, nil)
	if err != nil {
		if database.IsCosmosStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, readErr("cosmos read", err)
	}
	return decodeCosmos(resp.Value, nil)
}

func (s *CosmosStore) Query(ctx context.Context, f Filter) ([]*movie.Movie, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c, err := s.container.get(ctx)
	if err != nil {
		return nil, err
	}
	op := string(f.Op)
	if f.Op == OpEq {
		op = "="
	}
	// f.Field is one of the validated field names, so it is safe to inline.
	q := fmt.Sprintf("SELECT * FROM c WHERE c.%s %s @value", f.Field, op)
	return s.collect(ctx, c, q, []azcosmos.QueryParameter{{Name: "@value", Value: f.Value}})
}

func (s *CosmosStore) Replace(ctx context.Context, key Key, m *movie.Movie) (*movie.Movie, error) {
	c, err := s.container.get(ctx)
	if err != nil {
		return nil, err
	}
	pk, ok := s.directPartition(key)
	if !ok {
		existing, found, err := s.lookup(ctx, c, key.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		pk = found
	}
	doc := *m
	doc.ID = key.ID
	body, err := json.Marshal(&doc)
	if err != nil {
		return nil, writeErr("cosmos replace", err)
	}
	resp, err := c.ReplaceItem(ctx, pk, key.ID, body, &azcosmos.ItemOptions{EnableContentResponseOnWrite: true})
	if err != nil {
		if database.IsCosmosStatus(err, http.StatusNotFound) {
			return nil, ErrNotFound
		}
		return nil, writeErr("cosmos replace", err)
	}
	return decodeCosmos(resp.Value, &doc)
}

func (s *CosmosStore) Delete(ctx context.Context, key Key) error {
	c, err := s.container.get(ctx)
	if err != nil {
		return err
	}
	pk, ok := s.directPartition(key)
	if !ok {
		existing, found, err := s.lookup(ctx, c, key.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		pk = found
	}
	if _, err := c.DeleteItem(ctx, pk, key.ID, nil); err != nil {
		if database.IsCosmosStatus(err, http.StatusNotFound) {
			return nil
		}
		return writeErr("cosmos delete", err)
	}
	return nil
}

func (s *CosmosStore) Ping(ctx context.Context) error {
	c, err := s.container.get(ctx)
	if err != nil {
		return err
	}
	if _, err := c.Read(ctx, nil); err != nil {
		return unavailable("cosmos", err)
	}
	return nil
}

// Close is a no-op: the Cosmos client holds no connections that need releasing.
func (s *CosmosStore) Close(context.Context) error { return nil }

// directPartition returns the partition key for key when it can be known
// without reading the document.
func (s *CosmosStore) directPartition(key Key) (azcosmos.PartitionKey, bool) {
	if key.PartitionKey != "" {
		return azcosmos.NewPartitionKeyString(key.PartitionKey), true
	}
	if s.cfg.PartitionKey == "/id" {
		return azcosmos.NewPartitionKeyString(key.ID), true
	}
	return azcosmos.PartitionKey{}, false
}

// lookup finds a document by id across partitions and returns it together
// with its partition key. A missing document yields (nil, _, nil).
func (s *CosmosStore) lookup(ctx context.Context, c *azcosmos.ContainerClient, id string) (*movie.Movie, azcosmos.PartitionKey, error) {
	pager := c.NewQueryItemsPager("SELECT * FROM c WHERE c.id = @id", azcosmos.NewPartitionKey(),
		&azcosmos.QueryOptions{QueryParameters: []azcosmos.QueryParameter{{Name: "@id", Value: id}}})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, azcosmos.PartitionKey{}, readErr("cosmos lookup", err)
		}
		for _, raw := range page.Items {
			m, err := decodeCosmos(raw, nil)
			if err != nil {
				return nil, azcosmos.PartitionKey{}, err
			}
			pk, err := partitionFromDocument(s.cfg.PartitionKey, raw)
			if err != nil {
				return nil, azcosmos.PartitionKey{}, readErr("cosmos lookup", err)
			}
			return m, pk, nil
		}
	}
	return nil, azcosmos.PartitionKey{}, nil
}

func (s *CosmosStore) collect(ctx context.Context, c *azcosmos.ContainerClient, q string, params []azcosmos.QueryParameter) ([]*movie.Movie, error) {
	pager := c.NewQueryItemsPager(q, azcosmos.NewPartitionKey(), &azcosmos.QueryOptions{QueryParameters: params})
	out := []*movie.Movie{}
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, readErr("cosmos query", err)
		}
		for _, raw := range page.Items {
			m, err := decodeCosmos(raw, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// decodeCosmos unmarshals an item body. An empty body (content response
// disabled on the account) falls back to the document that was sent.
func decodeCosmos(raw []byte, sent *movie.Movie) (*movie.Movie, error) {
	if len(raw) == 0 && sent != nil {
		return sent, nil
	}
	var m movie.Movie
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, readErr("cosmos decode", err)
	}
	return &m, nil
}

// partitionFromDocument resolves a partition key path such as "/id" or
// "/meta/region" against a JSON document.
func partitionFromDocument(path string, doc []byte) (azcosmos.PartitionKey, error) {
	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return azcosmos.PartitionKey{}, err
	}
	var cur any = fields
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return azcosmos.PartitionKey{}, fmt.Errorf("partition key path %q not found in document", path)
		}
		if cur, ok = obj[seg]; !ok {
			return azcosmos.PartitionKey{}, fmt.Errorf("partition key path %q not found in document", path)
		}
	}
	switch v := cur.(type) {
	case string:
		return azcosmos.NewPartitionKeyString(v), nil
	case float64:
		return azcosmos.NewPartitionKeyNumber(v), nil
	case bool:
		return azcosmos.NewPartitionKeyBool(v), nil
	}
	return azcosmos.PartitionKey{}, fmt.Errorf("partition key path %q has unsupported type %T", path, cur)
}
