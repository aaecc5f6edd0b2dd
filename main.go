package main

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/loci-route/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-route/internal/app/domain/route"
	"github.com/FACorreiaa/loci-route/internal/app/domain/semantic"
	"github.com/FACorreiaa/loci-route/internal/app/domain/spatial"
	"github.com/FACorreiaa/loci-route/internal/app/handlers/routeapi"
	"github.com/FACorreiaa/loci-route/internal/app/observability/metrics"
	"github.com/FACorreiaa/loci-route/internal/app/observability/tracer"
	database "github.com/FACorreiaa/loci-route/internal/db"
	"github.com/FACorreiaa/loci-route/internal/pkg/cache"
	"github.com/FACorreiaa/loci-route/internal/pkg/config"
	"github.com/FACorreiaa/loci-route/internal/pkg/logger"
	"github.com/FACorreiaa/loci-route/internal/pkg/middleware"
	"github.com/FACorreiaa/loci-route/internal/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Init(zapcore.InfoLevel, zap.String("port", cfg.ServerPort), zap.String("service", "loci-route")); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	logger.Log.Info("Starting loci-route service")

	otelShutdown, err := tracer.InitOtelProviders("loci-route", ":9092")
	if err != nil {
		logger.Log.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	metrics.InitAppMetrics()

	ctx := context.Background()

	dbPool, err := setupDatabase(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to setup database", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Repositories.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   qdrantHost(cfg.Repositories.Qdrant.URL),
		Port:   6334,
		APIKey: cfg.Repositories.Qdrant.APIKey,
	})
	if err != nil {
		logger.Log.Fatal("Failed to connect to qdrant", zap.Error(err))
	}

	deps := buildDeps(cfg, dbPool, redisClient, qdrantClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.OTELGinMiddleware("loci-route"))
	r.Use(middleware.ObservabilityMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())
	r.Use(func(c *gin.Context) {
		c.Set("db", dbPool)
		c.Next()
	})

	routes.Setup(r, deps)

	pprofRouter := gin.New()
	pprof.Register(pprofRouter)
	go func() {
		log.Println("Starting pprof server on :6060")
		if err := pprofRouter.Run(":6060"); err != nil {
			log.Fatalf("failed to start pprof server: %v", err)
		}
	}()

	serverPort := ":" + cfg.ServerPort
	logger.Log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := r.Run(serverPort); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}

// qdrantHost strips scheme and port from a QDRANT_URL like
// "http://localhost:6334", since qdrant.Config dials host and gRPC
// port separately.
func qdrantHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}

// setupDatabase builds the connection URL, opens the pool, waits for
// it to come up, and applies embedded migrations.
func setupDatabase(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger.Log)
	if err != nil {
		return nil, fmt.Errorf("build database config: %w", err)
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, cfg, logger.Log)
	if err != nil {
		return nil, fmt.Errorf("init database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, logger.Log) {
		return nil, fmt.Errorf("database did not become available")
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger.Log); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return pool, nil
}

// buildDeps wires every domain service together: the POI store (DB +
// two-tier cache), the H3 spatial index, the Qdrant-backed semantic
// client and its multi-query orchestrator, and the route cache and
// replacement service.
func buildDeps(
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	redisClient *redis.Client,
	qdrantClient *qdrant.Client,
) *routeapi.Deps {
	poiRepo := poi.NewRepository(dbPool)

	poiCache := cache.NewTwoTierCache[poi.POI](redisClient, cfg.Repositories.Redis.CacheTTL, "poi", logger.Log)
	poiStore := poi.NewStore(poiRepo, poiCache)

	cellCache := cache.NewTwoTierCache[[]poi.POI](redisClient, cfg.Repositories.Redis.CacheTTL, "h3cell", logger.Log)
	spatialIndex := spatial.NewIndex(poiRepo, cellCache, cfg.H3Resolution, logger.Log)

	embedder := semantic.NewHTTPEmbedder(cfg.EmbeddingURL, cfg.EmbeddingName)
	semanticClient := semantic.NewClient(qdrantClient, cfg.Repositories.Qdrant.CollectionName, embedder, poiStore)
	orchestrator := semantic.NewOrchestrator(semanticClient, spatialIndex)

	routeCache := route.NewCache(redisClient, logger.Log)
	replacer := route.NewReplacer(routeCache, poiStore, cfg.Transport)

	return &routeapi.Deps{
		Config:       cfg,
		Spatial:      spatialIndex,
		Semantic:     semanticClient,
		Orchestrator: orchestrator,
		POIStore:     poiStore,
		RouteCache:   routeCache,
		Replacer:     replacer,
		Redis:        redisClient,
		Qdrant:       qdrantClient,
		DBPing:       dbPool.Ping,
		Logger:       logger.Log,
	}
}
