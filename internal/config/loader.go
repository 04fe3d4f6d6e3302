package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "LEXC"

// newViper builds a pre-configured Viper instance with the platform's standard
// settings: YAML file type, LEXC_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "database.host"
// resolve to "LEXC_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to viper so that
// AutomaticEnv can resolve LEXC_* overrides even when no config file is
// present.  Viper only consults the environment for keys it knows about;
// without this, LoadFromEnv would silently ignore all overrides.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.read_timeout", "server.write_timeout",
		"server.idle_timeout", "server.max_body_size", "server.shutdown_timeout",
		"log.level", "log.format",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_conns",
		"database.min_conns", "database.conn_max_lifetime",
		"database.conn_max_idle_time", "database.migration_path",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size",
		"redis.min_idle_conns", "redis.dial_timeout", "redis.read_timeout",
		"redis.write_timeout", "redis.default_ttl", "redis.key_prefix",
		"kafka.brokers", "kafka.group_id", "kafka.producer_retries",
		"kafka.batch_size", "kafka.batch_timeout", "kafka.write_timeout",
		"kafka.read_timeout", "kafka.enabled",
		"minio.endpoint", "minio.access_key_id", "minio.secret_access_key",
		"minio.use_ssl", "minio.region", "minio.documents_bucket",
		"minio.exports_bucket", "minio.presign_expiry",
		"engine.scorer", "engine.similarity_threshold",
		"engine.candidate_window", "engine.alignment_budget",
		"session.auto_navigate_interval", "session.cache_ttl",
		"metrics.enabled", "metrics.namespace",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges any LEXC_* environment
// variable overrides, applies platform defaults for unset fields, and
// validates the result.  It returns a fully-populated *Config or a
// descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from LEXC_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	LEXC_<SECTION>_<FIELD>   e.g.  LEXC_DATABASE_HOST, LEXC_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and the default
// similarity threshold; callers are responsible for applying only the safe
// subset of changes at runtime.  Engine budgets and connection settings
// require a restart.
//
// Watch is non-blocking; it starts a background goroutine managed by viper
// (fsnotify under the hood).  If the changed file fails to parse or validate,
// onChange is NOT called.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			// A bad edit must not push the running process into an invalid
			// configuration; skip the callback.
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
