package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens a *redis.Client connected to the instance specified by the
// TEST_REDIS_ADDR environment variable (host:port).
//
// The test is skipped automatically if TEST_REDIS_ADDR is not set, matching
// the opt-in behavior of the database helpers. The client is closed when the
// test finishes.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Fatalf("testutil.NewRedis: ping: %v", err)
	}

	t.Cleanup(func() { rdb.Close() })
	return rdb
}
