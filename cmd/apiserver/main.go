// The apiserver binary serves the LexCompare HTTP API: document
// registration, clause-level comparison, filtered views, and exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appcmp "github.com/verdictio/lexcompare/internal/application/comparison"
	appdoc "github.com/verdictio/lexcompare/internal/application/document"
	"github.com/verdictio/lexcompare/internal/config"
	domaincmp "github.com/verdictio/lexcompare/internal/domain/comparison"
	domaindoc "github.com/verdictio/lexcompare/internal/domain/document"
	"github.com/verdictio/lexcompare/internal/domain/jurisdiction"
	"github.com/verdictio/lexcompare/internal/engine/pipeline"
	"github.com/verdictio/lexcompare/internal/infrastructure/database/postgres"
	"github.com/verdictio/lexcompare/internal/infrastructure/database/redis"
	"github.com/verdictio/lexcompare/internal/infrastructure/export"
	"github.com/verdictio/lexcompare/internal/infrastructure/messaging/kafka"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/prometheus"
	"github.com/verdictio/lexcompare/internal/infrastructure/storage/minio"
	httpiface "github.com/verdictio/lexcompare/internal/interfaces/http"
	"github.com/verdictio/lexcompare/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(log)
	log.Info("starting apiserver", logging.String("version", config.Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres: sql.DB connection for migrations and health, pgx pool for
	// the repositories.
	conn, err := postgres.NewConnection(cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.RunMigrations(); err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	docRepo := postgres.NewDocumentRepository(pool, log)
	cmpRepo := postgres.NewComparisonRepository(pool, log)

	// Redis cache is optional: a failed connection degrades to uncached.
	var cmpCache domaincmp.Cache
	var redisClient *redis.Client
	if rc, err := redis.NewClient(cfg.Redis, log); err != nil {
		log.Warn("redis unavailable, comparisons will not be cached", logging.Err(err))
	} else {
		redisClient = rc
		defer redisClient.Close()
		cmpCache = redis.NewComparisonCache(redisClient, log)
	}

	// MinIO holds original document bytes and export artifacts.
	var contentStore domaindoc.ContentStore
	var artifactStore export.ArtifactStore
	var minioClient *minio.Client
	if mc, err := minio.NewClient(cfg.MinIO, log); err != nil {
		log.Warn("minio unavailable, content upload and export disabled", logging.Err(err))
	} else {
		minioClient = mc
		contentStore = minio.NewContentStore(minioClient, log)
		artifactStore = minio.NewArtifactStore(minioClient, log)
	}

	// Kafka is optional; without it async comparisons are rejected.
	var cmpPub appcmp.Publisher
	var expPub export.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, log)
		defer producer.Close()
		cmpPub = producer
		expPub = producer
	}

	var metrics *prometheus.AppMetrics
	var collector prometheus.MetricsCollector
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(cfg.Metrics.Namespace, log)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	pipe := pipeline.New(cfg.Engine, log)
	docService := appdoc.NewService(docRepo, contentStore, log)
	cmpService := appcmp.NewService(docRepo, cmpRepo, cmpCache, pipe, cmpPub, log)

	var exporter export.Service
	if artifactStore != nil {
		exporter = export.NewJSONExporter(artifactStore, expPub, log)
	}

	checkers := []handlers.Checker{
		{Name: "postgres", Check: conn.HealthCheck},
	}
	if redisClient != nil {
		checkers = append(checkers, handlers.Checker{Name: "redis", Check: redisClient.HealthCheck})
	}
	if minioClient != nil {
		checkers = append(checkers, handlers.Checker{Name: "minio", Check: minioClient.HealthCheck})
	}

	var exportHandler *handlers.ExportHandler
	if exporter != nil {
		exportHandler = handlers.NewExportHandler(cmpService, exporter, log)
	}

	router := httpiface.NewRouter(httpiface.RouterConfig{
		DocumentHandler:     handlers.NewDocumentHandler(docService, log),
		ComparisonHandler:   handlers.NewComparisonHandler(cmpService, log),
		ExportHandler:       exportHandler,
		JurisdictionHandler: handlers.NewJurisdictionHandler(jurisdiction.NewStaticProvider(), log),
		HealthHandler:       handlers.NewHealthHandler(log, checkers...),
		Logger:              log,
		Metrics:             metrics,
		MetricsCollector:    collector,
	})

	server := httpiface.NewServer(cfg.Server, router, log)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Stop(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
