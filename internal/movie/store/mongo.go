package store

import (
	"context"
	"errors"

	"github.com/moviereview/movie-api/internal/config"
	"github.com/moviereview/movie-api/internal/database"
	"github.com/moviereview/movie-api/internal/movie"
	"github.com/moviereview/movie-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var mongoOps = map[Operator]string{
	OpEq:  "$eq",
	OpNe:  "$ne",
	OpLt:  "$lt",
	OpLte: "$lte",
	OpGt:  "$gt",
	OpGte: "$gte",
}

// MongoStore keeps movies in a MongoDB collection. Documents use a string
// _id holding an ObjectID hex value.
type MongoStore struct {
	cfg config.MongoDBConfig
	col *lazyConn[*mongo.Collection]
}

func NewMongoStore(cfg config.MongoDBConfig) *MongoStore {
	s := &MongoStore{cfg: cfg}
	s.col = newLazyConn(s.connect)
	return s
}

func (s *MongoStore) connect(ctx context.Context) (*mongo.Collection, error) {
	logger.Infof("connecting to MongoDB (database=%s collection=%s)", s.cfg.Database, s.cfg.Collection)
	client, err := database.ConnectMongo(ctx, s.cfg.URI, s.cfg.Timeout)
	if err != nil {
		return nil, unavailable("mongo", err)
	}
	col := client.Database(s.cfg.Database).Collection(s.cfg.Collection)
	// index for the min-rating listing
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "rating", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		logger.Warnf("mongo: could not ensure rating index: %v", err)
	}
	return col, nil
}

func (s *MongoStore) Create(ctx context.Context, m *movie.Movie) (*movie.Movie, error) {
	col, err := s.col.get(ctx)
	if err != nil {
		return nil, err
	}
	doc := *m
	doc.ID = primitive.NewObjectID().Hex()
	if _, err := col.InsertOne(ctx, &doc); err != nil {
		return nil, writeErr("mongo insert", err)
	}
	return &doc, nil
}

func (s *MongoStore) Get(ctx context.Context, key Key) (*movie.Movie, error) {
	col, err := s.col.get(ctx)
	if err != nil {
		return nil, err
	}
	var d movie.Movie
	if err := col.FindOne(ctx, bson.M{"_id": key.ID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, readErr("mongo find", err)
	}
	return &d, nil
}

func (s *MongoStore) Query(ctx context.Context, f Filter) ([]*movie.Movie, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	col, err := s.col.get(ctx)
	if err != nil {
		return nil, err
	}
	filter := bson.M{f.Field: bson.M{mongoOps[f.Op]: f.Value}}
	cur, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, readErr("mongo find", err)
	}
	defer cur.Close(ctx)
	out := []*movie.Movie{}
	for cur.Next(ctx) {
		var d movie.Movie
		if err := cur.Decode(&d); err != nil {
			return nil, readErr("mongo decode", err)
		}
		out = append(out, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, readErr("mongo cursor", err)
	}
	return out, nil
}

func (s *MongoStore) Replace(ctx context.Context, key Key, m *movie.Movie) (*movie.Movie, error) {
	col, err := s.col.get(ctx)
	if err != nil {
		return nil, err
	}
	doc := *m
	doc.ID = key.ID
	res, err := col.ReplaceOne(ctx, bson.M{"_id": key.ID}, &doc)
	if err != nil {
		return nil, writeErr("mongo replace", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (s *MongoStore) Delete(ctx context.Context, key Key) error {
	col, err := s.col.get(ctx)
	if err != nil {
		return err
	}
	if _, err := col.DeleteOne(ctx, bson.M{"_id": key.ID}); err != nil {
		return writeErr("mongo delete", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	col, err := s.col.get(ctx)
	if err != nil {
		return err
	}
	if err := col.Database().Client().Ping(ctx, nil); err != nil {
		return unavailable("mongo", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	col, ok := s.col.current()
	if !ok {
		return nil
	}
	return col.Database().Client().Disconnect(ctx)
}
