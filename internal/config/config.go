// Package config defines all configuration structures for the LexCompare
// platform.  No I/O or parsing logic lives here — only plain data types and
// validation.  Loading lives in loader.go, defaults in defaults.go.
package config

import (
	"fmt"
	"time"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
)

// Version is the platform version, injected at build time via ldflags.
var Version = "dev"

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// DSN renders the postgres connection string for pgx and golang-migrate.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection parameters for the comparison cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	Enabled         bool          `mapstructure:"enabled"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
// Document content bytes and export artifacts are stored here.
type MinIOConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	DocumentsBucket string        `mapstructure:"documents_bucket"`
	ExportsBucket   string        `mapstructure:"exports_bucket"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
}

// EngineConfig holds the comparison engine tunables.  These are the
// process-level defaults; a per-comparison configuration may override the
// threshold and window within the bounds validated here.
type EngineConfig struct {
	// Scorer selects the similarity scoring implementation:
	// "lexical" (token/bigram overlap, default) or "levenshtein".
	Scorer string `mapstructure:"scorer"`

	// SimilarityThreshold is the default minimum score for an aligned pair.
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`

	// CandidateWindow bounds how far apart (in relative clause position) two
	// clauses may sit and still be considered alignment candidates.
	CandidateWindow int `mapstructure:"candidate_window"`

	// AlignmentBudget is the wall-clock budget for pairwise scoring before an
	// AlignmentTimeout is raised.  The pipeline retries once with a halved
	// window before surfacing the error.
	AlignmentBudget time.Duration `mapstructure:"alignment_budget"`
}

// SessionConfig holds comparison-session controller tunables.
type SessionConfig struct {
	// AutoNavigateInterval is the default interval between automatic
	// selection advances when auto-navigation is enabled.
	AutoNavigateInterval time.Duration `mapstructure:"auto_navigate_interval"`

	// CacheTTL is how long a computed comparison stays in the redis cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration aggregate.
type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Log      logging.LogConfig `mapstructure:"log"`
	Database DatabaseConfig    `mapstructure:"database"`
	Redis    RedisConfig       `mapstructure:"redis"`
	Kafka    KafkaConfig       `mapstructure:"kafka"`
	MinIO    MinIOConfig       `mapstructure:"minio"`
	Engine   EngineConfig      `mapstructure:"engine"`
	Session  SessionConfig     `mapstructure:"session"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
}

// Validate checks cross-field consistency of the configuration.  It is called
// by the loader after defaults have been applied, so zero values that have
// defaults never reach it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Engine.SimilarityThreshold < 0 || c.Engine.SimilarityThreshold > 1 {
		return fmt.Errorf("config: engine.similarity_threshold %.3f out of [0,1]", c.Engine.SimilarityThreshold)
	}
	if c.Engine.CandidateWindow < 1 {
		return fmt.Errorf("config: engine.candidate_window must be >= 1")
	}
	if c.Engine.AlignmentBudget <= 0 {
		return fmt.Errorf("config: engine.alignment_budget must be positive")
	}
	switch c.Engine.Scorer {
	case "lexical", "levenshtein":
	default:
		return fmt.Errorf("config: engine.scorer %q is not one of lexical|levenshtein", c.Engine.Scorer)
	}
	if c.Session.AutoNavigateInterval <= 0 {
		return fmt.Errorf("config: session.auto_navigate_interval must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.enabled requires at least one broker")
	}
	return nil
}
