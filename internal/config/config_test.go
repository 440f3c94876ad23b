package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "movies_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMongo, cfg.Store.Backend)
	require.Equal(t, "movies_test", cfg.MongoDB.Database)
	require.Equal(t, "movies", cfg.MongoDB.Collection)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "3000", cfg.Server.Port)
}

func TestLoadConfig_CosmosMissingValues(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cosmos")
	t.Setenv("COSMOSDB_CONNECTION_STRING", "")
	t.Setenv("COSMOSDB_DATABASE", "")
	t.Setenv("COSMOSDB_CONTAINER", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.Contains(t, err.Error(), "COSMOSDB_CONNECTION_STRING")
	require.Contains(t, err.Error(), "COSMOSDB_DATABASE")
	require.Contains(t, err.Error(), "COSMOSDB_CONTAINER")
}

func TestLoadConfig_CosmosDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Cosmos")
	t.Setenv("COSMOSDB_CONNECTION_STRING", "AccountEndpoint=https://localhost:8081/;AccountKey=a2V5;")
	t.Setenv("COSMOSDB_DATABASE", "moviesdb")
	t.Setenv("COSMOSDB_CONTAINER", "movies")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendCosmos, cfg.Store.Backend)
	require.Equal(t, "/id", cfg.Cosmos.PartitionKey)
	require.Equal(t, "8080", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "memory", cfg: Config{Store: StoreConfig{Backend: BackendMemory}}},
		{name: "unknown backend", cfg: Config{Store: StoreConfig{Backend: "dynamo"}}, wantErr: "unknown STORE_BACKEND"},
		{name: "firestore without project", cfg: Config{Store: StoreConfig{Backend: BackendFirestore}}, wantErr: "FIRESTORE_PROJECT_ID"},
		{name: "minio without endpoint", cfg: Config{Store: StoreConfig{Backend: BackendMinIO}}, wantErr: "MINIO_ENDPOINT"},
		{
			name: "bad partition path",
			cfg: Config{Store: StoreConfig{Backend: BackendCosmos}, Cosmos: CosmosConfig{
				ConnectionString: "x", Database: "d", Container: "c", PartitionKey: "id",
			}},
			wantErr: "COSMOSDB_PARTITION_KEY",
		},
		{
			name:    "rate limit without rps",
			cfg:     Config{Store: StoreConfig{Backend: BackendMemory}, RateLimit: RateLimitConfig{Enabled: true}},
			wantErr: "RATE_LIMIT_RPS",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
