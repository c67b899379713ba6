// Package search resolves search requests: it filters the index, loads the
// matching records, orders them and caches the ordered result.
package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/ordering"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/params"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/pipeline"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
	"github.com/ovp-platform/ovpsearch/internal/logger"
)

// Options are the operator settings the resolver honours.
type Options struct {
	// EnableUserSearch gates Users; when false it fails with ErrPermissionDenied.
	EnableUserSearch bool
	// FilterOut maps a kind to the field=value pairs whose records are hidden.
	FilterOut map[domain.Kind]map[string]string
}

// Service resolves project, organization and user searches.
type Service struct {
	matcher       Matcher
	projects      RecordFinder[*entity.Project]
	organizations RecordFinder[*entity.Organization]
	users         UserStore
	cache         ResultCache
	opts          Options
	duration      *prometheus.HistogramVec
}

// New creates the resolver.
// duration is a histogram vec with label "kind", passed explicitly (may be nil).
func New(
	matcher Matcher,
	projects RecordFinder[*entity.Project],
	organizations RecordFinder[*entity.Organization],
	users UserStore,
	cache ResultCache,
	opts Options,
	duration *prometheus.HistogramVec,
) *Service {
	return &Service{
		matcher:       matcher,
		projects:      projects,
		organizations: organizations,
		users:         users,
		cache:         cache,
		opts:          opts,
		duration:      duration,
	}
}

// Projects returns the open projects matching p, ordered.
func (s *Service) Projects(ctx context.Context, p params.Params) ([]*entity.Project, error) {
	defer s.observe(string(domain.KindProject), time.Now())
	return resolve(ctx, s, resolver[*entity.Project]{
		kind:     domain.KindProject,
		find:     s.projects,
		allowed:  projectFields,
		fallback: highlightedFirst,
		sortKey:  s.projectKey,
	}, p)
}

// Organizations returns the organizations matching p, ordered.
func (s *Service) Organizations(ctx context.Context, p params.Params) ([]*entity.Organization, error) {
	defer s.observe(string(domain.KindOrganization), time.Now())
	return resolve(ctx, s, resolver[*entity.Organization]{
		kind:     domain.KindOrganization,
		find:     s.organizations,
		allowed:  organizationFields,
		fallback: highlightedFirst,
		sortKey:  organizationKey,
	}, p)
}

// Users returns the users with a public profile matching p, newest first
// unless p orders otherwise.
func (s *Service) Users(ctx context.Context, p params.Params) ([]*entity.User, error) {
	if !s.opts.EnableUserSearch {
		return nil, fmt.Errorf("%w: user search is disabled", domain.ErrPermissionDenied)
	}
	defer s.observe(string(domain.KindUser), time.Now())
	return resolve(ctx, s, resolver[*entity.User]{
		kind:    domain.KindUser,
		find:    s.users,
		allowed: userFields,
		sortKey: userKey,
	}, p)
}

type sortKeyFunc[T any] func(
	ctx context.Context, viewer domain.Viewer, o ordering.Ordering, records []T,
) (func(T, string) ordering.Value, error)

type resolver[T any] struct {
	kind     domain.Kind
	find     RecordFinder[T]
	allowed  map[string]bool
	fallback ordering.Ordering
	sortKey  sortKeyFunc[T]
}

func resolve[T any](ctx context.Context, s *Service, r resolver[T], p params.Params) ([]T, error) {
	order := orderingOf(p, r.allowed, r.fallback)

	var viewer domain.Viewer
	var extra []string
	if order.Has(ordering.Relevance) {
		viewer = domain.ViewerFromContext(ctx)
		if !viewer.IsAuthenticated() {
			return nil, domain.ErrNotAuthenticated
		}
		extra = append(extra, "viewer="+strconv.FormatInt(viewer.UserID, 10))
	}

	key := cacheKey(r.kind, p, extra...)
	var cached []T
	if s.cache.Get(ctx, r.kind, key, &cached) {
		return cached, nil
	}

	q, err := buildQuery(r.kind, p)
	if err != nil {
		return nil, err
	}
	ids, err := s.matcher.MatchIDs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", r.kind.Plural(), err)
	}

	f, err := s.recordFilter(r.kind, p, ids)
	if err != nil {
		return nil, err
	}
	records, err := r.find.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.kind.Plural(), err)
	}
	if records == nil {
		records = []T{}
	}

	sortKey, err := r.sortKey(ctx, viewer, order, records)
	if err != nil {
		return nil, err
	}
	order = order.WithTieBreak()
	slices.SortStableFunc(records, ordering.Compare(order, sortKey))

	s.cache.Set(ctx, key, records)
	logger.FromContext(ctx).Debug("Search resolved",
		zap.String("kind", string(r.kind)),
		zap.Int("matched", len(ids)),
		zap.Int("returned", len(records)),
		zap.Stringer("ordering", order),
	)
	return records, nil
}

// buildQuery composes the filters in their fixed order: published, address,
// name, skill, cause, free text, highlighted. Users only filter by skill and
// cause.
func buildQuery(kind domain.Kind, p params.Params) (query.Query, error) {
	q := query.New(kind)
	if kind == domain.KindUser {
		q = pipeline.BySkills(q, p.Get(params.Skill))
		return pipeline.ByCauses(q, p.Get(params.Cause)), nil
	}

	q = pipeline.ByPublished(q, p.GetDefault(params.Published, "true"))
	q, err := pipeline.ByAddress(q, p.Get(params.Address), kind == domain.KindProject)
	if err != nil {
		return query.Query{}, err
	}
	q = pipeline.ByName(q, p.Get(params.Name))
	if kind == domain.KindProject {
		q = pipeline.BySkills(q, p.Get(params.Skill))
	}
	q = pipeline.ByCauses(q, p.Get(params.Cause))
	q = pipeline.ByText(q, p.Get(params.Query))
	return pipeline.ByHighlighted(q, p.Get(params.Highlighted)), nil
}

func (s *Service) recordFilter(kind domain.Kind, p params.Params, ids []int64) (domain.RecordFilter, error) {
	f := domain.RecordFilter{IDs: ids, Exclude: s.opts.FilterOut[kind]}
	if kind == domain.KindUser {
		return f, nil
	}
	var err error
	if f.Organizations, err = p.Int64List(params.Organization); err != nil {
		return f, err
	}
	if f.NotOrganizations, err = p.Int64List(params.NotOrganization); err != nil {
		return f, err
	}
	return f, nil
}

// cacheKey ignores pagination: one entry holds the whole ordered result.
func cacheKey(kind domain.Kind, p params.Params, extra ...string) string {
	v := p.Values()
	v.Del(params.Page)
	v.Del(params.PageSize)
	return params.New(v).CacheKey(kind, extra...)
}

func (s *Service) observe(label string, start time.Time) {
	if s.duration != nil {
		s.duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}
}

// relevance scores each project by how many of its causes and skills the
// viewer's profile shares.
func (s *Service) relevance(
	ctx context.Context, viewer domain.Viewer, projects []*entity.Project,
) (map[int64]int, error) {
	u, err := s.users.Get(ctx, viewer.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load viewer profile: %w", err)
	}

	causes := idSet(u.CauseIDs())
	skills := idSet(u.SkillIDs())
	scores := make(map[int64]int, len(projects))
	for _, p := range projects {
		n := 0
		for _, id := range p.CauseIDs() {
			if causes[id] {
				n++
			}
		}
		for _, id := range p.SkillIDs() {
			if skills[id] {
				n++
			}
		}
		scores[p.ID] = n
	}
	return scores, nil
}

func idSet(ids []int64) map[int64]bool {
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
