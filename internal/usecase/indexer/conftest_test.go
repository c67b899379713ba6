package indexer

import (
	"context"
	"slices"
	"testing"

	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
)

// --- Mocks ---

type docKey struct {
	kind domain.Kind
	id   int64
}

type mockDocs struct {
	upserted  []docKey
	deleted   []docKey
	docs      map[docKey]domdoc.Document
	batches   [][]docKey
	upsertErr error
	ensured   int
	recreated int
}

func newMockDocs() *mockDocs {
	return &mockDocs{docs: map[docKey]domdoc.Document{}}
}

func (m *mockDocs) Upsert(_ context.Context, doc domdoc.Document) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	k := docKey{doc.Kind(), doc.ID()}
	_, existed := m.docs[k]
	m.docs[k] = doc
	m.upserted = append(m.upserted, k)
	return !existed, nil
}

func (m *mockDocs) UpsertMany(_ context.Context, docs []domdoc.Document) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	batch := make([]docKey, len(docs))
	for i, doc := range docs {
		batch[i] = docKey{doc.Kind(), doc.ID()}
		m.docs[batch[i]] = doc
	}
	m.batches = append(m.batches, batch)
	return nil
}

func (m *mockDocs) Delete(_ context.Context, kind domain.Kind, id int64) error {
	k := docKey{kind, id}
	delete(m.docs, k)
	m.deleted = append(m.deleted, k)
	return nil
}

func (m *mockDocs) EnsureIndexes(context.Context) error {
	m.ensured++
	return nil
}

func (m *mockDocs) RecreateIndexes(context.Context) error {
	m.recreated++
	return nil
}

// MatchAllIDs lists stored documents of the query kind.
func (m *mockDocs) MatchAllIDs(_ context.Context, q query.Query) ([]int64, error) {
	var ids []int64
	for k := range m.docs {
		if k.kind == q.Kind() {
			ids = append(ids, k.id)
		}
	}
	return ids, nil
}

type mockReader[T domdoc.Source] struct {
	items     map[int64]T
	byAddress map[int64][]int64
	getErr    error
}

func (m *mockReader[T]) Get(_ context.Context, id int64) (T, error) {
	var zero T
	if m.getErr != nil {
		return zero, m.getErr
	}
	v, ok := m.items[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockReader[T]) IDs(context.Context) ([]int64, error) {
	var ids []int64
	for id := range m.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *mockReader[T]) IDsByAddress(_ context.Context, addressID int64) ([]int64, error) {
	return m.byAddress[addressID], nil
}

type fixture struct {
	svc      *Service
	docs     *mockDocs
	projects *mockReader[*entity.Project]
	orgs     *mockReader[*entity.Organization]
	users    *mockReader[*entity.User]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		docs:     newMockDocs(),
		projects: &mockReader[*entity.Project]{items: map[int64]*entity.Project{}},
		orgs:     &mockReader[*entity.Organization]{items: map[int64]*entity.Organization{}},
		users:    &mockReader[*entity.User]{items: map[int64]*entity.User{}},
	}
	f.svc = New(f.docs, f.docs, f.projects, f.orgs, f.users, nil, zap.NewNop())
	return f
}
