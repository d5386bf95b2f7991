//go:build integration

package containers

import (
	"sync"
	"testing"
)

// Manager shares containers across test suites in one package run. Starting
// Postgres once per binary instead of once per suite keeps the integration
// run under a minute; Ryuk terminates everything when the run ends.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
	redpanda *RedpandaContainer
}

var defaultManager = &Manager{}

// GetPostgres returns the shared Postgres container, starting it on first use.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if defaultManager.postgres == nil {
		defaultManager.postgres = NewPostgresContainer(t)
	}
	return defaultManager.postgres
}

// GetRedis returns the shared Redis container, starting it on first use.
func GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if defaultManager.redis == nil {
		defaultManager.redis = NewRedisContainer(t)
	}
	return defaultManager.redis
}

// GetRedpanda returns the shared Redpanda broker, starting it on first use.
func GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if defaultManager.redpanda == nil {
		defaultManager.redpanda = NewRedpandaContainer(t)
	}
	return defaultManager.redpanda
}
