package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCache(t *testing.T) (*Cache, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(ms, domain.NewKeyspace("ovp:"), 0, nil, zap.NewNop()), ms
}
