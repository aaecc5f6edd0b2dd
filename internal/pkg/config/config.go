package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	DB       int
	CacheTTL time.Duration
}

type QdrantConfig struct {
	URL            string
	APIKey         string
	CollectionName string
	VectorDim      int
}

// TransportProfile carries the k-ring radius and average speed for one
// transportation mode, per spec.md §3 "Transport Mode".
type TransportProfile struct {
	KRing    int
	SpeedKMH float64
}

type TransportConfig struct {
	Profiles map[string]TransportProfile
}

// RouteConfig holds the scoring weights, thresholds, and defaults the
// route builder needs (spec.md §4.7, grounded on
// original_source/radius_logic/route/route_config.py).
type RouteConfig struct {
	DefaultStayMinutes      int
	SimilarityThreshold     float64
	DefaultBearingScore     float64
	DefaultRating           float64
	EarthRadiusKM           float64
	LastPOIRadiusThresholds []float64
	UseCircularRouting      bool
	CircularAngleTolerance  float64
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
	Qdrant   QdrantConfig
}

type Config struct {
	Repositories  RepositoriesConfig
	ServerPort       string
	H3Resolution     int
	EmbeddingName    string
	EmbeddingURL     string
	Transport        TransportConfig
	Route            RouteConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("DB_HOST", "localhost"),
				Port:     getEnvOrDefault("DB_PORT", "5432"),
				DB:       getEnvOrDefault("DB_NAME", "loci_route"),
				Username: getEnvOrDefault("DB_USER", "postgres"),
				Password: getEnvOrDefault("DB_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
			Redis: RedisConfig{
				Host: getEnvOrDefault("REDIS_HOST", "localhost"),
				Port: getEnvOrDefault("REDIS_PORT", "6379"),
			},
			Qdrant: QdrantConfig{
				URL:            getEnvOrDefault("QDRANT_URL", "http://localhost:6334"),
				APIKey:         getEnvOrDefault("QDRANT_API_KEY", ""),
				CollectionName: getEnvOrDefault("QDRANT_COLLECTION_NAME", "pois"),
			},
		},
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8091"),
		EmbeddingName: getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingURL:  getEnvOrDefault("EMBEDDING_URL", "http://localhost:8092/embed"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.Repositories.Redis.DB = redisDB

	cacheTTL, err := time.ParseDuration(getEnvOrDefault("REDIS_CACHE_TTL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL: %w", err)
	}
	cfg.Repositories.Redis.CacheTTL = cacheTTL

	vectorDim, err := strconv.Atoi(getEnvOrDefault("VECTOR_DIMENSION", "1536"))
	if err != nil {
		return nil, fmt.Errorf("invalid VECTOR_DIMENSION: %w", err)
	}
	cfg.Repositories.Qdrant.VectorDim = vectorDim

	h3Res, err := strconv.Atoi(getEnvOrDefault("H3_RESOLUTION", "9"))
	if err != nil {
		return nil, fmt.Errorf("invalid H3_RESOLUTION: %w", err)
	}
	cfg.H3Resolution = h3Res

	cfg.Transport = TransportConfig{
		Profiles: map[string]TransportProfile{
			"WALKING":   {KRing: 2, SpeedKMH: 5},
			"BICYCLING": {KRing: 4, SpeedKMH: 15},
			"TRANSIT":   {KRing: 6, SpeedKMH: 20},
			"FLEXIBLE":  {KRing: 5, SpeedKMH: 18},
			"DRIVING":   {KRing: 8, SpeedKMH: 40},
		},
	}

	cfg.Route = RouteConfig{
		DefaultStayMinutes:      30,
		SimilarityThreshold:     0.8,
		DefaultBearingScore:     0.5,
		DefaultRating:           0.5,
		EarthRadiusKM:           6371,
		LastPOIRadiusThresholds: []float64{0.2, 0.4, 0.6, 0.8, 1.0},
		UseCircularRouting:      false, // REDESIGN FLAG: default zigzag, see SPEC_FULL.md §10
		CircularAngleTolerance:  10.0,
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
