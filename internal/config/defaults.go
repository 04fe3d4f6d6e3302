package config

import (
	"time"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// ApplyDefaults fills every unset field of cfg with the platform default.
// Called by the loader between unmarshalling and validation; also usable
// directly by tests that need a complete configuration without a file.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 16 << 20 // 16 MiB: extracted contract text, not raw PDFs
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "lexcompare"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "lexcompare"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 25
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 5 * time.Minute
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "file://migrations"
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 15 * time.Minute
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "lexc:"
	}

	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "lexcompare-workers"
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = 100
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = time.Second
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.Kafka.ReadTimeout == 0 {
		cfg.Kafka.ReadTimeout = 10 * time.Second
	}

	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = "localhost:9000"
	}
	if cfg.MinIO.DocumentsBucket == "" {
		cfg.MinIO.DocumentsBucket = "lexcompare-documents"
	}
	if cfg.MinIO.ExportsBucket == "" {
		cfg.MinIO.ExportsBucket = "lexcompare-exports"
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = time.Hour
	}

	if cfg.Engine.Scorer == "" {
		cfg.Engine.Scorer = "lexical"
	}
	if cfg.Engine.SimilarityThreshold == 0 {
		cfg.Engine.SimilarityThreshold = 0.7
	}
	if cfg.Engine.CandidateWindow == 0 {
		cfg.Engine.CandidateWindow = 8
	}
	if cfg.Engine.AlignmentBudget == 0 {
		cfg.Engine.AlignmentBudget = 10 * time.Second
	}

	if cfg.Session.AutoNavigateInterval == 0 {
		cfg.Session.AutoNavigateInterval = 3 * time.Second
	}
	if cfg.Session.CacheTTL == 0 {
		cfg.Session.CacheTTL = cfg.Redis.DefaultTTL
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "lexcompare"
	}
}

// NewDefaultConfig returns a Config populated entirely with platform defaults.
// Intended for tests and for main() fallback when no config file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Log: logging.LogConfig{},
	}
	ApplyDefaults(cfg)
	cfg.Metrics.Enabled = true
	return cfg
}
