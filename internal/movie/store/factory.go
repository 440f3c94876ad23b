package store

import (
	"fmt"

	"github.com/moviereview/movie-api/internal/config"
)

// New creates the Store selected by cfg.Store.Backend. No connection is
// made here; network backends connect on their first operation.
//
// Supported backends:
//
//	"cosmos"    - Azure Cosmos DB container (partitioned)
//	"firestore" - Google Firestore collection
//	"mongo"     - MongoDB collection
//	"minio"     - one JSON object per movie in a MinIO bucket
//	"memory"    - in-memory (ephemeral, for testing)
func New(cfg *config.Config) (Store, error) {
	var s Store
	switch cfg.Store.Backend {
	case config.BackendCosmos:
		s = NewCosmosStore(cfg.Cosmos)
	case config.BackendFirestore:
		s = NewFirestoreStore(cfg.Firestore)
	case config.BackendMongo:
		s = NewMongoStore(cfg.MongoDB)
	case config.BackendMinIO:
		s = NewMinIOStore(cfg.MinIO)
	case config.BackendMemory:
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: cosmos, firestore, mongo, minio, memory)", cfg.Store.Backend)
	}
	return Instrument(s, cfg.Store.Backend), nil
}
