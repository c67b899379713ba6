package search

import (
	"context"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
)

// Matcher runs filter expressions against the search index.
type Matcher interface {
	MatchIDs(ctx context.Context, q query.Query) ([]int64, error)
	MatchAddressComponents(ctx context.Context, q query.Query) (map[int64][]string, error)
}

// RecordFinder loads the eligible relational records among matched ids.
type RecordFinder[T any] interface {
	Find(ctx context.Context, f domain.RecordFilter) ([]T, error)
}

// UserStore finds searchable users and loads the viewer's profile.
type UserStore interface {
	RecordFinder[*entity.User]
	Get(ctx context.Context, id int64) (*entity.User, error)
}

// ResultCache stores ordered result sets. Failures behave as misses.
type ResultCache interface {
	Get(ctx context.Context, kind domain.Kind, name string, dst any) bool
	Set(ctx context.Context, name string, v any)
}
