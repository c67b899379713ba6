package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	domdoc "github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/usecase/indexer"
)

// --- Mocks ---

type termCall struct {
	id  int64
	ids []int64
}

type mockProjects struct {
	saved     *entity.Project
	deleted   []int64
	causes    []termCall
	skills    []termCall
	getErr    error
	saveErr   error
	deleteErr error
}

func (m *mockProjects) Get(_ context.Context, id int64) (*entity.Project, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &entity.Project{ID: id, Name: "Horta"}, nil
}

func (m *mockProjects) Save(_ context.Context, p *entity.Project) (*entity.Project, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saved = p
	return p, nil
}

func (m *mockProjects) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockProjects) SetCauses(_ context.Context, id int64, ids []int64) error {
	m.causes = append(m.causes, termCall{id, ids})
	return nil
}

func (m *mockProjects) SetSkills(_ context.Context, id int64, ids []int64) error {
	m.skills = append(m.skills, termCall{id, ids})
	return nil
}

type mockOrganizations struct {
	saved  *entity.Organization
	causes []termCall
}

func (m *mockOrganizations) Get(_ context.Context, id int64) (*entity.Organization, error) {
	return &entity.Organization{ID: id}, nil
}

func (m *mockOrganizations) Save(_ context.Context, o *entity.Organization) (*entity.Organization, error) {
	m.saved = o
	return o, nil
}

func (m *mockOrganizations) Delete(context.Context, int64) error { return domain.ErrNotFound }

func (m *mockOrganizations) SetCauses(_ context.Context, id int64, ids []int64) error {
	m.causes = append(m.causes, termCall{id, ids})
	return nil
}

type mockUsers struct {
	saved  *entity.User
	setErr error
	causes []termCall
	skills []termCall
}

func (m *mockUsers) Get(_ context.Context, id int64) (*entity.User, error) {
	return &entity.User{ID: id}, nil
}

func (m *mockUsers) Save(_ context.Context, u *entity.User) (*entity.User, error) {
	m.saved = u
	return u, nil
}

func (m *mockUsers) Delete(context.Context, int64) error { return nil }

func (m *mockUsers) SetCauses(_ context.Context, id int64, ids []int64) error {
	m.causes = append(m.causes, termCall{id, ids})
	return m.setErr
}

func (m *mockUsers) SetSkills(_ context.Context, id int64, ids []int64) error {
	m.skills = append(m.skills, termCall{id, ids})
	return m.setErr
}

type mockAddresses struct {
	saved *entity.Address
}

func (m *mockAddresses) Get(_ context.Context, id int64) (*entity.Address, error) {
	return &entity.Address{ID: id}, nil
}

func (m *mockAddresses) Save(_ context.Context, a *entity.Address) (*entity.Address, error) {
	m.saved = a
	return a, nil
}

func (m *mockAddresses) Delete(context.Context, int64) error { return nil }

type mockTaxonomy struct {
	causes []entity.Cause
	skills []entity.Skill
}

func (m *mockTaxonomy) SaveCause(_ context.Context, c entity.Cause) (entity.Cause, error) {
	m.causes = append(m.causes, c)
	return c, nil
}

func (m *mockTaxonomy) SaveSkill(_ context.Context, s entity.Skill) (entity.Skill, error) {
	m.skills = append(m.skills, s)
	return s, nil
}

func (m *mockTaxonomy) ListCauses(context.Context) ([]entity.Cause, error) { return m.causes, nil }

func (m *mockTaxonomy) ListSkills(context.Context) ([]entity.Skill, error) { return m.skills, nil }

func (m *mockTaxonomy) DeleteCause(context.Context, int64) error { return nil }

func (m *mockTaxonomy) DeleteSkill(context.Context, int64) error { return nil }

type mockRebuilder struct {
	report indexer.RebuildReport
	err    error
	calls  int
}

func (m *mockRebuilder) Rebuild(context.Context) (indexer.RebuildReport, error) {
	m.calls++
	return m.report, m.err
}

type mockDocuments struct {
	docs map[domain.Kind]map[int64]domdoc.Document
	err  error
}

func (m *mockDocuments) Get(_ context.Context, kind domain.Kind, id int64) (domdoc.Document, error) {
	if m.err != nil {
		return domdoc.Document{}, m.err
	}
	doc, ok := m.docs[kind][id]
	if !ok {
		return domdoc.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

type fixture struct {
	projects      *mockProjects
	organizations *mockOrganizations
	users         *mockUsers
	addresses     *mockAddresses
	taxonomy      *mockTaxonomy
	rebuilder     *mockRebuilder
	documents     *mockDocuments
}

func newFixture() *fixture {
	return &fixture{
		projects:      &mockProjects{},
		organizations: &mockOrganizations{},
		users:         &mockUsers{},
		addresses:     &mockAddresses{},
		taxonomy:      &mockTaxonomy{},
		rebuilder:     &mockRebuilder{},
		documents:     &mockDocuments{},
	}
}

func (f *fixture) service() *Service {
	return New(f.projects, f.organizations, f.users, f.addresses, f.taxonomy, f.rebuilder, f.documents, zap.NewNop())
}

func ptr(v int64) *int64 { return &v }
