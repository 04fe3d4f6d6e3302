// The worker binary consumes comparison.requested events and runs
// comparisons asynchronously, persisting results and announcing completion.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appcmp "github.com/verdictio/lexcompare/internal/application/comparison"
	"github.com/verdictio/lexcompare/internal/config"
	domaincmp "github.com/verdictio/lexcompare/internal/domain/comparison"
	"github.com/verdictio/lexcompare/internal/engine/pipeline"
	"github.com/verdictio/lexcompare/internal/infrastructure/database/postgres"
	"github.com/verdictio/lexcompare/internal/infrastructure/database/redis"
	"github.com/verdictio/lexcompare/internal/infrastructure/messaging/kafka"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/pkg/errors"
	"github.com/verdictio/lexcompare/pkg/types/common"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if !cfg.Kafka.Enabled {
		return fmt.Errorf("worker requires kafka.enabled")
	}

	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(log)
	log.Info("starting worker", logging.String("version", config.Version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	docRepo := postgres.NewDocumentRepository(pool, log)
	cmpRepo := postgres.NewComparisonRepository(pool, log)

	var cmpCache domaincmp.Cache
	if rc, err := redis.NewClient(cfg.Redis, log); err != nil {
		log.Warn("redis unavailable, results will not be cached", logging.Err(err))
	} else {
		defer rc.Close()
		cmpCache = redis.NewComparisonCache(rc, log)
	}

	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()

	pipe := pipeline.New(cfg.Engine, log)
	svc := appcmp.NewService(docRepo, cmpRepo, cmpCache, pipe, producer, log)

	handler := func(ctx context.Context, env *kafka.EventEnvelope) error {
		var payload kafka.ComparisonRequestedPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			// Malformed payloads can never succeed; drop instead of redelivering.
			log.Error("dropping malformed comparison request",
				logging.String("event_id", env.EventID), logging.Err(err))
			return nil
		}

		cmp, err := svc.Compare(ctx,
			common.ID(payload.Document1ID), common.ID(payload.Document2ID), payload.Config)
		if err != nil {
			// Requests that fail validation or reference missing documents are
			// permanent failures; only infrastructure errors are retried.
			if errors.IsRetryable(err) {
				return err
			}
			log.Error("comparison request failed permanently",
				logging.String("event_id", env.EventID),
				logging.String("document1_id", payload.Document1ID),
				logging.String("document2_id", payload.Document2ID),
				logging.Err(err))
			return nil
		}

		log.Info("comparison completed",
			logging.String("comparison_id", string(cmp.ID)),
			logging.Float64("overall_similarity", cmp.Metrics.OverallSimilarity))
		return nil
	}

	consumer := kafka.NewConsumer(cfg.Kafka, kafka.TopicComparisonRequested, handler, log)
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutting down worker")
	return consumer.Close()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
