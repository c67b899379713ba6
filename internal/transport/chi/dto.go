package chi

import (
	"time"

	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/usecase/health"
	searchuc "github.com/ovp-platform/ovpsearch/internal/usecase/search"
)

// --- Responses ---

// PageResponse is one page of search results.
type PageResponse[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// CountryCitiesResponse lists the cities of a country with activity.
type CountryCitiesResponse struct {
	Common        []string `json:"common"`
	Projects      []string `json:"projects"`
	Organizations []string `json:"organizations"`
}

func countryCitiesToResponse(c searchuc.CountryCities) CountryCitiesResponse {
	return CountryCitiesResponse{
		Common:        nonNil(c.Common),
		Projects:      nonNil(c.Projects),
		Organizations: nonNil(c.Organizations),
	}
}

// HealthResponse reports the status of every backing store.
type HealthResponse struct {
	Status health.Status                 `json:"status"`
	Checks map[string]health.CheckResult `json:"checks"`
}

// ReindexResponse counts documents per kind after a rebuild.
type ReindexResponse struct {
	Indexed map[string]int `json:"indexed"`
	Pruned  map[string]int `json:"pruned"`
}

// DocumentResponse is the indexed projection of one entity.
type DocumentResponse struct {
	Kind              string          `json:"kind"`
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Text              string          `json:"text"`
	Causes            []int64         `json:"causes"`
	Skills            []int64         `json:"skills"`
	AddressComponents []string        `json:"address_components"`
	Flags             map[string]bool `json:"flags"`
	CreatedAt         int64           `json:"created_at"`
}

func documentToResponse(d domdoc.Document) DocumentResponse {
	flags := d.Flags()
	if flags == nil {
		flags = map[string]bool{}
	}
	return DocumentResponse{
		Kind:              string(d.Kind()),
		ID:                d.ID(),
		Name:              d.Name(),
		Text:              d.Text(),
		Causes:            nonNil(d.Causes()),
		Skills:            nonNil(d.Skills()),
		AddressComponents: nonNil(d.AddressComponents()),
		Flags:             flags,
		CreatedAt:         d.CreatedAt(),
	}
}

// --- Requests ---

type projectRequest struct {
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description"`
	Details           string     `json:"details"`
	Highlighted       bool       `json:"highlighted"`
	Published         bool       `json:"published"`
	Deleted           bool       `json:"deleted"`
	Closed            bool       `json:"closed"`
	CanBeDoneRemotely bool       `json:"can_be_done_remotely"`
	CreatedDate       *time.Time `json:"created_date"`
	OrganizationID    *int64     `json:"organization_id"`
	OwnerID           *int64     `json:"owner_id"`
	AddressID         *int64     `json:"address_id"`
}

func (p projectRequest) toEntity() entity.Project {
	return entity.Project{
		Name:              p.Name,
		Slug:              p.Slug,
		Description:       p.Description,
		Details:           p.Details,
		Highlighted:       p.Highlighted,
		Published:         p.Published,
		Deleted:           p.Deleted,
		Closed:            p.Closed,
		CanBeDoneRemotely: p.CanBeDoneRemotely,
		CreatedAt:         derefTime(p.CreatedDate),
		OrganizationID:    p.OrganizationID,
		OwnerID:           p.OwnerID,
		AddressID:         p.AddressID,
	}
}

type organizationRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Details     string     `json:"details"`
	Highlighted bool       `json:"highlighted"`
	Published   bool       `json:"published"`
	Deleted     bool       `json:"deleted"`
	CreatedDate *time.Time `json:"created_date"`
	AddressID   *int64     `json:"address_id"`
}

func (o organizationRequest) toEntity() entity.Organization {
	return entity.Organization{
		Name:        o.Name,
		Slug:        o.Slug,
		Description: o.Description,
		Details:     o.Details,
		Highlighted: o.Highlighted,
		Published:   o.Published,
		Deleted:     o.Deleted,
		CreatedAt:   derefTime(o.CreatedDate),
		AddressID:   o.AddressID,
	}
}

type profileRequest struct {
	Public    bool   `json:"public"`
	About     string `json:"about"`
	AddressID *int64 `json:"address_id"`
}

type userRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Slug        string          `json:"slug"`
	CreatedDate *time.Time      `json:"created_date"`
	Profile     *profileRequest `json:"profile"`
}

func (u userRequest) toEntity() entity.User {
	out := entity.User{
		Name:      u.Name,
		Email:     u.Email,
		Slug:      u.Slug,
		CreatedAt: derefTime(u.CreatedDate),
	}
	if u.Profile != nil {
		out.Profile = &entity.Profile{
			Public:    u.Profile.Public,
			About:     u.Profile.About,
			AddressID: u.Profile.AddressID,
		}
	}
	return out
}

type addressRequest struct {
	TypedAddress string                    `json:"typed_address"`
	Components   []entity.AddressComponent `json:"address_components"`
}

func (a addressRequest) toEntity() entity.Address {
	return entity.Address{TypedAddress: a.TypedAddress, Components: a.Components}
}

type termRequest struct {
	Name string `json:"name"`
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
