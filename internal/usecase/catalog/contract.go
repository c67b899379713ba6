package catalog

import (
	"context"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/usecase/indexer"
)

// ProjectStore defines the storage contract for projects.
type ProjectStore interface {
	Get(ctx context.Context, id int64) (*entity.Project, error)
	Save(ctx context.Context, p *entity.Project) (*entity.Project, error)
	Delete(ctx context.Context, id int64) error
	SetCauses(ctx context.Context, id int64, causeIDs []int64) error
	SetSkills(ctx context.Context, id int64, skillIDs []int64) error
}

// OrganizationStore defines the storage contract for organizations.
type OrganizationStore interface {
	Get(ctx context.Context, id int64) (*entity.Organization, error)
	Save(ctx context.Context, o *entity.Organization) (*entity.Organization, error)
	Delete(ctx context.Context, id int64) error
	SetCauses(ctx context.Context, id int64, causeIDs []int64) error
}

// UserStore defines the storage contract for users and their profiles.
type UserStore interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
	SetCauses(ctx context.Context, id int64, causeIDs []int64) error
	SetSkills(ctx context.Context, id int64, skillIDs []int64) error
}

// AddressStore defines the storage contract for addresses.
type AddressStore interface {
	Get(ctx context.Context, id int64) (*entity.Address, error)
	Save(ctx context.Context, a *entity.Address) (*entity.Address, error)
	Delete(ctx context.Context, id int64) error
}

// TaxonomyStore defines the storage contract for causes and skills.
type TaxonomyStore interface {
	SaveCause(ctx context.Context, c entity.Cause) (entity.Cause, error)
	SaveSkill(ctx context.Context, s entity.Skill) (entity.Skill, error)
	ListCauses(ctx context.Context) ([]entity.Cause, error)
	ListSkills(ctx context.Context) ([]entity.Skill, error)
	DeleteCause(ctx context.Context, id int64) error
	DeleteSkill(ctx context.Context, id int64) error
}

// Rebuilder rebuilds the whole search index.
type Rebuilder interface {
	Rebuild(ctx context.Context) (indexer.RebuildReport, error)
}

// DocumentReader reads back indexed search documents.
type DocumentReader interface {
	Get(ctx context.Context, kind domain.Kind, id int64) (domdoc.Document, error)
}
