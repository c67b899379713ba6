package search

import (
	"context"
	"testing"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	queries  []db.SearchQuery
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	m.queries = append(m.queries, *q)
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T, maxResults int) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, domain.NewKeyspace("ovp:"), maxResults), ms
}

// pagedKeys serves keys[offset:offset+limit] like FT.SEARCH LIMIT.
func pagedKeys(keys []string) func(context.Context, *db.SearchQuery) (*db.SearchResult, error) {
	return func(_ context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
		res := &db.SearchResult{Total: len(keys)}
		for i := q.Offset; i < len(keys) && i < q.Offset+q.Limit; i++ {
			res.Entries = append(res.Entries, db.SearchEntry{Key: keys[i]})
		}
		return res, nil
	}
}
