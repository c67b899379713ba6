// Package search runs filter expressions against the FT indexes and maps the
// hits back to entity ids.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
	"github.com/ovp-platform/ovpsearch/internal/repository/document"
)

// DefaultBatchSize is the page size used to walk a result set.
const DefaultBatchSize = 1000

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// Repo matches queries against the index of their kind.
type Repo struct {
	store      store
	keys       domain.Keyspace
	batchSize  int
	maxResults int
}

// New creates a search repository. maxResults <= 0 means unbounded.
func New(s store, keys domain.Keyspace, maxResults int) *Repo {
	return &Repo{store: s, keys: keys, batchSize: DefaultBatchSize, maxResults: maxResults}
}

// MatchIDs returns the ids of the documents matching q, in index order,
// stopping at the configured result cap.
func (r *Repo) MatchIDs(ctx context.Context, q query.Query) ([]int64, error) {
	return r.matchIDs(ctx, q, r.maxResults)
}

// MatchAllIDs is MatchIDs without the result cap, for index maintenance.
func (r *Repo) MatchAllIDs(ctx context.Context, q query.Query) ([]int64, error) {
	return r.matchIDs(ctx, q, 0)
}

func (r *Repo) matchIDs(ctx context.Context, q query.Query, maxResults int) ([]int64, error) {
	ids := []int64{}
	err := r.walk(ctx, q, nil, maxResults, func(id int64, _ map[string]string) {
		ids = append(ids, id)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MatchAddressComponents returns the address tags of every document matching q.
func (r *Repo) MatchAddressComponents(ctx context.Context, q query.Query) (map[int64][]string, error) {
	out := map[int64][]string{}
	err := r.walk(ctx, q, []string{domdoc.FieldAddressComponents}, r.maxResults, func(id int64, fields map[string]string) {
		var tags []string
		for _, t := range strings.Split(fields[domdoc.FieldAddressComponents], document.AddressSeparator) {
			if t != "" {
				tags = append(tags, t)
			}
		}
		out[id] = tags
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walk pages through the result set of q, up to maxResults entries when
// positive. With no return fields only keys are fetched.
func (r *Repo) walk(
	ctx context.Context, q query.Query, returnFields []string, maxResults int,
	fn func(id int64, fields map[string]string),
) error {
	indexName := r.keys.IndexName(q.Kind())
	seen := 0
	for offset := 0; ; offset += r.batchSize {
		limit := r.batchSize
		if maxResults > 0 && seen+limit > maxResults {
			limit = maxResults - seen
		}
		if limit <= 0 {
			return nil
		}
		sr, err := r.store.Search(ctx, &db.SearchQuery{
			IndexName:    indexName,
			Filter:       q.Filter(),
			Offset:       offset,
			Limit:        limit,
			ReturnFields: returnFields,
			NoContent:    len(returnFields) == 0,
		})
		if err != nil {
			return fmt.Errorf("search %s: %w", q.Kind(), err)
		}
		if sr == nil {
			return nil
		}
		for _, e := range sr.Entries {
			id, err := r.keys.ParseDocumentKey(q.Kind(), e.Key)
			if err != nil {
				continue
			}
			fn(id, e.Fields)
			seen++
		}
		if len(sr.Entries) < limit || offset+len(sr.Entries) >= sr.Total {
			return nil
		}
	}
}
