// Package catalog applies administrative writes to the relational store.
// Every write goes through a repository, which publishes the change event
// the index synchronizer reacts to.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/usecase/indexer"
)

// Service handles catalog CRUD operations.
type Service struct {
	projects      ProjectStore
	organizations OrganizationStore
	users         UserStore
	addresses     AddressStore
	taxonomy      TaxonomyStore
	rebuilder     Rebuilder
	documents     DocumentReader
	logger        *zap.Logger
}

// New creates a catalog service.
func New(
	projects ProjectStore,
	organizations OrganizationStore,
	users UserStore,
	addresses AddressStore,
	taxonomy TaxonomyStore,
	rebuilder Rebuilder,
	documents DocumentReader,
	logger *zap.Logger,
) *Service {
	return &Service{
		projects:      projects,
		organizations: organizations,
		users:         users,
		addresses:     addresses,
		taxonomy:      taxonomy,
		rebuilder:     rebuilder,
		documents:     documents,
		logger:        logger,
	}
}

// --- Projects ---

// Project returns a project by id.
func (s *Service) Project(ctx context.Context, id int64) (*entity.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// SaveProject creates or replaces the project with the given id.
func (s *Service) SaveProject(ctx context.Context, id int64, p entity.Project) (*entity.Project, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := checkRefs(p.OrganizationID, p.OwnerID, p.AddressID); err != nil {
		return nil, err
	}
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)
	saved, err := s.projects.Save(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return saved, nil
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// SetProjectCauses replaces the causes of a project.
func (s *Service) SetProjectCauses(ctx context.Context, id int64, causeIDs []int64) error {
	return s.setTerms(ctx, "project causes", id, causeIDs, s.projects.SetCauses)
}

// SetProjectSkills replaces the skills of a project.
func (s *Service) SetProjectSkills(ctx context.Context, id int64, skillIDs []int64) error {
	return s.setTerms(ctx, "project skills", id, skillIDs, s.projects.SetSkills)
}

// --- Organizations ---

// Organization returns an organization by id.
func (s *Service) Organization(ctx context.Context, id int64) (*entity.Organization, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	o, err := s.organizations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

// SaveOrganization creates or replaces the organization with the given id.
func (s *Service) SaveOrganization(
	ctx context.Context, id int64, o entity.Organization,
) (*entity.Organization, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := checkRefs(o.AddressID); err != nil {
		return nil, err
	}
	o.ID = id
	o.Name = strings.TrimSpace(o.Name)
	saved, err := s.organizations.Save(ctx, &o)
	if err != nil {
		return nil, fmt.Errorf("save organization: %w", err)
	}
	return saved, nil
}

// DeleteOrganization removes an organization. Its projects stay, detached.
func (s *Service) DeleteOrganization(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.organizations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}

// SetOrganizationCauses replaces the causes of an organization.
func (s *Service) SetOrganizationCauses(ctx context.Context, id int64, causeIDs []int64) error {
	return s.setTerms(ctx, "organization causes", id, causeIDs, s.organizations.SetCauses)
}

// --- Users ---

// User returns a user by id.
func (s *Service) User(ctx context.Context, id int64) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SaveUser creates or replaces the user with the given id. A nil profile
// drops the stored one.
func (s *Service) SaveUser(ctx context.Context, id int64, u entity.User) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if u.Profile != nil {
		if err := checkRefs(u.Profile.AddressID); err != nil {
			return nil, err
		}
	}
	u.ID = id
	u.Name = strings.TrimSpace(u.Name)
	saved, err := s.users.Save(ctx, &u)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return saved, nil
}

// DeleteUser removes a user and the profile.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// SetUserCauses replaces the causes of a user's profile.
func (s *Service) SetUserCauses(ctx context.Context, id int64, causeIDs []int64) error {
	return s.setTerms(ctx, "user causes", id, causeIDs, s.users.SetCauses)
}

// SetUserSkills replaces the skills of a user's profile.
func (s *Service) SetUserSkills(ctx context.Context, id int64, skillIDs []int64) error {
	return s.setTerms(ctx, "user skills", id, skillIDs, s.users.SetSkills)
}

// --- Addresses ---

// Address returns an address by id.
func (s *Service) Address(ctx context.Context, id int64) (*entity.Address, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	a, err := s.addresses.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// SaveAddress creates or replaces the address with the given id. Every
// entity located there is reindexed.
func (s *Service) SaveAddress(ctx context.Context, id int64, a entity.Address) (*entity.Address, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	for i, c := range a.Components {
		if strings.TrimSpace(c.LongName) == "" {
			return nil, fmt.Errorf("%w: address component %d has no long_name", domain.ErrInvalidParameter, i)
		}
		for _, t := range c.Types {
			if strings.TrimSpace(t) == "" {
				return nil, fmt.Errorf("%w: address component %d has an empty type", domain.ErrInvalidParameter, i)
			}
		}
	}
	a.ID = id
	saved, err := s.addresses.Save(ctx, &a)
	if err != nil {
		return nil, fmt.Errorf("save address: %w", err)
	}
	return saved, nil
}

// DeleteAddress removes an address together with the projects and
// organizations located there.
func (s *Service) DeleteAddress(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.addresses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

// --- Causes and skills ---

// Causes lists every cause.
func (s *Service) Causes(ctx context.Context) ([]entity.Cause, error) {
	list, err := s.taxonomy.ListCauses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list causes: %w", err)
	}
	return list, nil
}

// SaveCause creates or renames a cause.
func (s *Service) SaveCause(ctx context.Context, id int64, name string) (entity.Cause, error) {
	if err := checkID(id); err != nil {
		return entity.Cause{}, err
	}
	c, err := s.taxonomy.SaveCause(ctx, entity.Cause{ID: id, Name: strings.TrimSpace(name)})
	if err != nil {
		return entity.Cause{}, fmt.Errorf("save cause: %w", err)
	}
	return c, nil
}

// DeleteCause removes a cause and unlinks it from every owner.
func (s *Service) DeleteCause(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.taxonomy.DeleteCause(ctx, id); err != nil {
		return fmt.Errorf("delete cause: %w", err)
	}
	return nil
}

// Skills lists every skill.
func (s *Service) Skills(ctx context.Context) ([]entity.Skill, error) {
	list, err := s.taxonomy.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return list, nil
}

// SaveSkill creates or renames a skill.
func (s *Service) SaveSkill(ctx context.Context, id int64, name string) (entity.Skill, error) {
	if err := checkID(id); err != nil {
		return entity.Skill{}, err
	}
	sk, err := s.taxonomy.SaveSkill(ctx, entity.Skill{ID: id, Name: strings.TrimSpace(name)})
	if err != nil {
		return entity.Skill{}, fmt.Errorf("save skill: %w", err)
	}
	return sk, nil
}

// DeleteSkill removes a skill and unlinks it from every owner.
func (s *Service) DeleteSkill(ctx context.Context, id int64) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.taxonomy.DeleteSkill(ctx, id); err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return nil
}

// --- Index ---

// Reindex rebuilds the search index from the relational store.
func (s *Service) Reindex(ctx context.Context) (indexer.RebuildReport, error) {
	report, err := s.rebuilder.Rebuild(ctx)
	if err != nil {
		return report, fmt.Errorf("rebuild index: %w", err)
	}
	s.logger.Info("Search index rebuilt")
	return report, nil
}

// Document returns the search document currently indexed for an entity.
// Entities that are not eligible for the index have none.
func (s *Service) Document(ctx context.Context, kind domain.Kind, id int64) (domdoc.Document, error) {
	if err := checkID(id); err != nil {
		return domdoc.Document{}, err
	}
	doc, err := s.documents.Get(ctx, kind, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get %s document: %w", kind, err)
	}
	return doc, nil
}

func (s *Service) setTerms(
	ctx context.Context, what string, id int64, ids []int64,
	set func(ctx context.Context, id int64, ids []int64) error,
) error {
	if err := checkID(id); err != nil {
		return err
	}
	ids, err := uniqueIDs(ids)
	if err != nil {
		return err
	}
	if err := set(ctx, id, ids); err != nil {
		return fmt.Errorf("set %s: %w", what, err)
	}
	return nil
}

func checkID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", domain.ErrInvalidParameter, id)
	}
	return nil
}

func checkRefs(refs ...*int64) error {
	for _, r := range refs {
		if r != nil && *r <= 0 {
			return fmt.Errorf("%w: reference id must be positive, got %d", domain.ErrInvalidParameter, *r)
		}
	}
	return nil
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if err := checkID(id); err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
