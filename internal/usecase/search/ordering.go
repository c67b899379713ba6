package search

import (
	"context"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/ordering"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/params"
)

// Sortable record fields besides the tie-breaks.
const (
	fieldName        = "name"
	fieldHighlighted = "highlighted"
	fieldPublished   = "published"
)

var (
	projectFields = map[string]bool{
		ordering.ID: true, ordering.CreatedDate: true, ordering.Relevance: true,
		fieldName: true, fieldHighlighted: true, fieldPublished: true,
	}
	organizationFields = map[string]bool{
		ordering.ID: true, ordering.CreatedDate: true,
		fieldName: true, fieldHighlighted: true, fieldPublished: true,
	}
	userFields = map[string]bool{
		ordering.ID: true, ordering.CreatedDate: true, fieldName: true,
	}

	highlightedFirst = ordering.Ordering{{Name: fieldHighlighted, Desc: true}}
)

// orderingOf picks the explicit ordering, then the legacy order_by/ordered
// pair, then fallback. Relevance is only reachable through ordering.
func orderingOf(p params.Params, allowed map[string]bool, fallback ordering.Ordering) ordering.Ordering {
	if o := ordering.Parse(p.Get(params.Ordering), allowed); len(o) > 0 {
		return o
	}
	if o := ordering.Legacy(p.Get(params.OrderBy), p.Get(params.Ordered), allowed); len(o) > 0 &&
		!o.Has(ordering.Relevance) {
		return o
	}
	return fallback
}

func (s *Service) projectKey(
	ctx context.Context, viewer domain.Viewer, o ordering.Ordering, records []*entity.Project,
) (func(*entity.Project, string) ordering.Value, error) {
	var scores map[int64]int
	if o.Has(ordering.Relevance) {
		var err error
		if scores, err = s.relevance(ctx, viewer, records); err != nil {
			return nil, err
		}
	}
	return func(p *entity.Project, field string) ordering.Value {
		switch field {
		case ordering.Relevance:
			return ordering.Int(int64(scores[p.ID]))
		case ordering.CreatedDate:
			return ordering.Int(p.CreatedAt.Unix())
		case fieldName:
			return ordering.String(p.Name)
		case fieldHighlighted:
			return ordering.Bool(p.Highlighted)
		case fieldPublished:
			return ordering.Bool(p.Published)
		}
		return ordering.Int(p.ID)
	}, nil
}

func organizationKey(
	_ context.Context, _ domain.Viewer, _ ordering.Ordering, _ []*entity.Organization,
) (func(*entity.Organization, string) ordering.Value, error) {
	return func(o *entity.Organization, field string) ordering.Value {
		switch field {
		case ordering.CreatedDate:
			return ordering.Int(o.CreatedAt.Unix())
		case fieldName:
			return ordering.String(o.Name)
		case fieldHighlighted:
			return ordering.Bool(o.Highlighted)
		case fieldPublished:
			return ordering.Bool(o.Published)
		}
		return ordering.Int(o.ID)
	}, nil
}

func userKey(
	_ context.Context, _ domain.Viewer, _ ordering.Ordering, _ []*entity.User,
) (func(*entity.User, string) ordering.Value, error) {
	return func(u *entity.User, field string) ordering.Value {
		switch field {
		case ordering.CreatedDate:
			return ordering.Int(u.CreatedAt.Unix())
		case fieldName:
			return ordering.String(u.Name)
		}
		return ordering.Int(u.ID)
	}, nil
}
