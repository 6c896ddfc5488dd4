package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/api", cfg.Server.APIBase)
	assert.Equal(t, "embedded", cfg.Dataset.Source)
	assert.Equal(t, time.Second, cfg.Fetch.Pause)
	assert.Equal(t, 3, cfg.Fetch.Retries)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr())
	assert.False(t, cfg.Postgres.Enabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("API_BASE", "/v1/")
	t.Setenv("FETCH_PAUSE", "250ms")
	t.Setenv("FETCH_BACKOFF", "3")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_QPS", "5")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/v1", cfg.Server.APIBase)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetch.Pause)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Backoff)
	assert.Equal(t, "127.0.0.1:6380", cfg.Redis.Addr())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.QPS)
}

func TestValidateRejectsBadCombinations(t *testing.T) {
	cases := map[string]map[string]string{
		"file without path":        {"DATASET_SOURCE": "file"},
		"postgres source disabled": {"DATASET_SOURCE": "postgres"},
		"unknown source":           {"DATASET_SOURCE": "s3"},
		"zero retries":             {"FETCH_RETRIES": "0"},
		"store without postgres":   {"FETCH_STORE": "true"},
		"relative api base":        {"API_BASE": "api"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
