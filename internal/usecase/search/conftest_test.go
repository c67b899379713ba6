package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
)

// --- Mocks ---

type mockMatcher struct {
	ids      map[domain.Kind][]int64
	tags     map[domain.Kind]map[int64][]string
	err      error
	queries  []query.Query
	tagCalls []query.Query
}

func (m *mockMatcher) MatchIDs(_ context.Context, q query.Query) ([]int64, error) {
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	return m.ids[q.Kind()], nil
}

func (m *mockMatcher) MatchAddressComponents(_ context.Context, q query.Query) (map[int64][]string, error) {
	m.tagCalls = append(m.tagCalls, q)
	if m.err != nil {
		return nil, m.err
	}
	return m.tags[q.Kind()], nil
}

type mockFinder[T any] struct {
	findFn  func(f domain.RecordFilter) ([]T, error)
	filters []domain.RecordFilter
}

func (m *mockFinder[T]) Find(_ context.Context, f domain.RecordFilter) ([]T, error) {
	m.filters = append(m.filters, f)
	if m.findFn == nil {
		return nil, nil
	}
	return m.findFn(f)
}

type mockUsers struct {
	mockFinder[*entity.User]
	users map[int64]*entity.User
}

func (m *mockUsers) Get(_ context.Context, id int64) (*entity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// mockCache keeps JSON like the real cache so decoded values are fresh copies.
type mockCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (m *mockCache) Get(_ context.Context, _ domain.Kind, name string, dst any) bool {
	m.gets++
	data, ok := m.entries[name]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (m *mockCache) Set(_ context.Context, name string, v any) {
	m.sets++
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	m.entries[name] = data
}

// --- Fixture ---

type fixture struct {
	matcher  *mockMatcher
	projects *mockFinder[*entity.Project]
	orgs     *mockFinder[*entity.Organization]
	users    *mockUsers
	cache    *mockCache
}

func newFixture() *fixture {
	return &fixture{
		matcher:  &mockMatcher{ids: map[domain.Kind][]int64{}, tags: map[domain.Kind]map[int64][]string{}},
		projects: &mockFinder[*entity.Project]{},
		orgs:     &mockFinder[*entity.Organization]{},
		users:    &mockUsers{users: map[int64]*entity.User{}},
		cache:    newMockCache(),
	}
}

func (f *fixture) service(opts Options) *Service {
	return New(f.matcher, f.projects, f.orgs, f.users, f.cache, opts, nil)
}

// serveProjects makes the project finder return every listed project whose id was matched.
func (f *fixture) serveProjects(list ...*entity.Project) {
	f.projects.findFn = func(rf domain.RecordFilter) ([]*entity.Project, error) {
		var out []*entity.Project
		for _, p := range list {
			for _, id := range rf.IDs {
				if p.ID == id {
					out = append(out, p)
				}
			}
		}
		return out, nil
	}
}

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

func projectIDs(list []*entity.Project) []int64 {
	ids := make([]int64, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	return ids
}
