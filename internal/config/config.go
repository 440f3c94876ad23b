package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported STORE_BACKEND values.
const (
	BackendCosmos    = "cosmos"
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMinIO     = "minio"
	BackendMemory    = "memory"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Cosmos    CosmosConfig
	Firestore FirestoreConfig
	MongoDB   MongoDBConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type StoreConfig struct {
	Backend string
}

// CosmosConfig describes the partitioned store. PartitionKey is the
// container's partition key path, e.g. "/id".
type CosmosConfig struct {
	ConnectionString string
	Database         string
	Container        string
	PartitionKey     string
}

type FirestoreConfig struct {
	ProjectID  string
	Collection string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file.
// Missing values required by the selected store backend are reported together.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("STORE_BACKEND", BackendCosmos)
	viper.SetDefault("COSMOSDB_PARTITION_KEY", "/id")
	viper.SetDefault("FIRESTORE_COLLECTION", "movies")
	viper.SetDefault("MONGODB_DATABASE", "movies")
	viper.SetDefault("MONGODB_COLLECTION", "movies")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("MINIO_BUCKET", "movies")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("PORT"),
			Host:            viper.GetString("SERVER_HOST"),
			Environment:     viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(viper.GetString("STORE_BACKEND"))),
		},
		Cosmos: CosmosConfig{
			ConnectionString: os.Getenv("COSMOSDB_CONNECTION_STRING"),
			Database:         viper.GetString("COSMOSDB_DATABASE"),
			Container:        viper.GetString("COSMOSDB_CONTAINER"),
			PartitionKey:     viper.GetString("COSMOSDB_PARTITION_KEY"),
		},
		Firestore: FirestoreConfig{
			ProjectID:  viper.GetString("FIRESTORE_PROJECT_ID"),
			Collection: viper.GetString("FIRESTORE_COLLECTION"),
		},
		MongoDB: MongoDBConfig{
			URI:        os.Getenv("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values required by the selected store backend.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}

	switch c.Store.Backend {
	case BackendCosmos:
		require("COSMOSDB_CONNECTION_STRING", c.Cosmos.ConnectionString)
		require("COSMOSDB_DATABASE", c.Cosmos.Database)
		require("COSMOSDB_CONTAINER", c.Cosmos.Container)
		if c.Cosmos.PartitionKey != "" && !strings.HasPrefix(c.Cosmos.PartitionKey, "/") {
			return fmt.Errorf("COSMOSDB_PARTITION_KEY must be a path starting with '/', got %q", c.Cosmos.PartitionKey)
		}
	case BackendFirestore:
		require("FIRESTORE_PROJECT_ID", c.Firestore.ProjectID)
	case BackendMongo:
		require("MONGODB_URI", c.MongoDB.URI)
	case BackendMinIO:
		require("MINIO_ENDPOINT", c.MinIO.Endpoint)
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (supported: cosmos, firestore, mongo, minio, memory)", c.Store.Backend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive when rate limiting is enabled")
	}
	return nil
}
