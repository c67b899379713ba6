package indexer

import (
	"context"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
)

// DocumentWriter persists search documents and owns the FT indexes.
type DocumentWriter interface {
	Upsert(ctx context.Context, doc domdoc.Document) (created bool, err error)
	UpsertMany(ctx context.Context, docs []domdoc.Document) error
	Delete(ctx context.Context, kind domain.Kind, id int64) error
	EnsureIndexes(ctx context.Context) error
	RecreateIndexes(ctx context.Context) error
}

// Matcher lists every indexed id, ignoring any result cap; used to prune
// stale documents on rebuild.
type Matcher interface {
	MatchAllIDs(ctx context.Context, q query.Query) ([]int64, error)
}

// EntityReader loads one kind of entity from the relational store with
// everything its search document needs.
type EntityReader[T domdoc.Source] interface {
	Get(ctx context.Context, id int64) (T, error)
	IDs(ctx context.Context) ([]int64, error)
	IDsByAddress(ctx context.Context, addressID int64) ([]int64, error)
}
