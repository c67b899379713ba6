package search

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/address"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/filter"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
)

// CountryCities partitions the cities of a country by who is active there.
// A city appears in exactly one list; each list is sorted.
type CountryCities struct {
	Common        []string
	Projects      []string
	Organizations []string
}

// CountryCities collects the cities of published, open projects and
// published organizations located in country.
func (s *Service) CountryCities(ctx context.Context, country string) (CountryCities, error) {
	defer s.observe("country_cities", time.Now())

	country = strings.TrimSpace(country)
	if country == "" {
		return CountryCities{}, fmt.Errorf("%w: country is required", domain.ErrInvalidParameter)
	}

	inCountry := filter.Tag(domdoc.FieldAddressComponents, address.CountryTag(country))
	projects, err := s.cities(ctx, query.New(domain.KindProject).
		Where(inCountry).
		Where(filter.Flag(entity.FlagPublished, true)).
		Where(filter.Flag(entity.FlagClosed, false)).
		Where(filter.Flag(entity.FlagDeleted, false)))
	if err != nil {
		return CountryCities{}, err
	}
	organizations, err := s.cities(ctx, query.New(domain.KindOrganization).
		Where(inCountry).
		Where(filter.Flag(entity.FlagPublished, true)).
		Where(filter.Flag(entity.FlagDeleted, false)))
	if err != nil {
		return CountryCities{}, err
	}

	return partition(projects, organizations), nil
}

func (s *Service) cities(ctx context.Context, q query.Query) (map[string]bool, error) {
	tagsByID, err := s.matcher.MatchAddressComponents(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("match %s addresses: %w", q.Kind().Plural(), err)
	}
	out := map[string]bool{}
	for _, tags := range tagsByID {
		for _, tag := range tags {
			if name, ok := address.CityName(tag); ok {
				out[name] = true
			}
		}
	}
	return out, nil
}

func partition(projects, organizations map[string]bool) CountryCities {
	out := CountryCities{Common: []string{}, Projects: []string{}, Organizations: []string{}}
	for city := range projects {
		if organizations[city] {
			out.Common = append(out.Common, city)
		} else {
			out.Projects = append(out.Projects, city)
		}
	}
	for city := range organizations {
		if !projects[city] {
			out.Organizations = append(out.Organizations, city)
		}
	}
	slices.Sort(out.Common)
	slices.Sort(out.Projects)
	slices.Sort(out.Organizations)
	return out
}
