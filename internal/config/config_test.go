package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "lexical", cfg.Engine.Scorer)
	assert.InDelta(t, 0.7, cfg.Engine.SimilarityThreshold, 1e-9)
	assert.Equal(t, 8, cfg.Engine.CandidateWindow)
	assert.Equal(t, 3*time.Second, cfg.Session.AutoNavigateInterval)
	assert.Equal(t, "lexc:", cfg.Redis.KeyPrefix)
	assert.Equal(t, cfg.Redis.DefaultTTL, cfg.Session.CacheTTL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		DBName: "lexcompare", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/lexcompare?sslmode=disable", c.DSN())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad_port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"threshold_above_one", func(c *Config) { c.Engine.SimilarityThreshold = 1.5 }, "similarity_threshold"},
		{"zero_window", func(c *Config) { c.Engine.CandidateWindow = 0 }, "candidate_window"},
		{"unknown_scorer", func(c *Config) { c.Engine.Scorer = "neural" }, "scorer"},
		{"kafka_enabled_no_brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }, "kafka"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9091
engine:
  scorer: levenshtein
  similarity_threshold: 0.85
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9091, cfg.Server.Port)
	assert.Equal(t, "levenshtein", cfg.Engine.Scorer)
	assert.InDelta(t, 0.85, cfg.Engine.SimilarityThreshold, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset sections still receive defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEXC_SERVER_PORT", "9999")
	t.Setenv("LEXC_ENGINE_SCORER", "levenshtein")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "levenshtein", cfg.Engine.Scorer)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
