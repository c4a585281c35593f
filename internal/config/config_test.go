package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setPostgresEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE", "postgres")
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_DB", "bookstore")
	t.Setenv("PG_USER", "app")
	t.Setenv("PG_PASSWORD", "secret")

	// Blank the optional keys so ambient environment can't skew defaults.
	for _, k := range []string{
		"HTTP_ADDR", "CACHE_CAP", "RECOMMEND_LIMIT", "KAFKA_BROKERS",
		"KAFKA_TOPIC", "RETRY_ATTEMPTS", "RETRY_BASE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setPostgresEnv(t)

	cfg, err := load()
	require.NoError(t, err)

	require.Equal(t, ":8081", cfg.HTTPAddr)
	require.Equal(t, StoragePostgres, cfg.Storage)
	require.Equal(t, 1000, cfg.CacheCap)
	require.Equal(t, 8, cfg.RecommendLimit)
	require.Equal(t, "bookstore.orders", cfg.Kafka.Topic)
	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, 5, cfg.Retry.Attempts)
	require.Equal(t, 100*time.Millisecond, cfg.Retry.Base)
}

func TestLoadMissingPostgresEnvs(t *testing.T) {
	t.Setenv("STORAGE", "postgres")
	t.Setenv("PG_HOST", "")
	t.Setenv("PG_DB", "")
	t.Setenv("PG_USER", "")
	t.Setenv("PG_PASSWORD", "")

	_, err := load()
	require.Error(t, err)

	var missing *missingEnvError
	require.ErrorAs(t, err, &missing)
	require.Len(t, missing.Keys, 4)
	require.Contains(t, err.Error(), "missing required envs")
}

func TestLoadMemoryStorageNeedsNoPostgres(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("PG_HOST", "")
	t.Setenv("PG_DB", "")
	t.Setenv("PG_USER", "")
	t.Setenv("PG_PASSWORD", "")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, StorageMemory, cfg.Storage)
}

func TestLoadInvalidStorage(t *testing.T) {
	t.Setenv("STORAGE", "redis")

	_, err := load()
	var invalid *invalidEnvError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "STORAGE", invalid.Key)
}

func TestLoadKafkaBrokersCSV(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,,k3:9092")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, []string{"k1:9092", "k2:9092", "k3:9092"}, cfg.Kafka.Brokers)
}

func TestDSNEscapesCredentials(t *testing.T) {
	cfg := Config{Pg: Postgres{
		Host:     "db.internal",
		Port:     "5433",
		DB:       "bookstore",
		User:     "app user",
		Password: "p@ss/word",
		SSLMode:  "require",
	}}

	dsn := cfg.DSN()
	require.True(t, strings.HasPrefix(dsn, "postgres://"))
	require.Contains(t, dsn, "db.internal:5433")
	require.Contains(t, dsn, "sslmode=require")
	require.NotContains(t, dsn, "p@ss/word")
}

func TestEnvDurationMS(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "plain milliseconds", value: "1500", expected: 1500 * time.Millisecond},
		{name: "duration string", value: "2s", expected: 2 * time.Second},
		{name: "fractional duration", value: "1.5s", expected: 1500 * time.Millisecond},
		{name: "empty uses default", value: "", expected: time.Second},
		{name: "garbage uses default", value: "soon", expected: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			require.Equal(t, tt.expected, envDurationMS("TEST_DURATION", time.Second))
		})
	}
}
