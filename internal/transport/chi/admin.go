package chi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
)

// --- Projects ---

// GetProject handles GET /api/v1/admin/projects/{id}.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	getByID(s, w, r, s.catalog.Project)
}

// PutProject handles PUT /api/v1/admin/projects/{id}.
func (s *Server) PutProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	putByID(s, w, r, &req, func(ctx context.Context, id int64) (*entity.Project, error) {
		return s.catalog.SaveProject(ctx, id, req.toEntity())
	})
}

// DeleteProject handles DELETE /api/v1/admin/projects/{id}.
func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	deleteByID(s, w, r, s.catalog.DeleteProject)
}

// PutProjectCauses handles PUT /api/v1/admin/projects/{id}/causes.
func (s *Server) PutProjectCauses(w http.ResponseWriter, r *http.Request) {
	s.putTerms(w, r, s.catalog.SetProjectCauses)
}

// PutProjectSkills handles PUT /api/v1/admin/projects/{id}/skills.
func (s *Server) PutProjectSkills(w http.ResponseWriter, r *http.Request) {
	s.putTerms(w, r, s.catalog.SetProjectSkills)
}

// --- Organizations ---

// GetOrganization handles GET /api/v1/admin/organizations/{id}.
func (s *Server) GetOrganization(w http.ResponseWriter, r *http.Request) {
	getByID(s, w, r, s.catalog.Organization)
}

// PutOrganization handles PUT /api/v1/admin/organizations/{id}.
func (s *Server) PutOrganization(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	putByID(s, w, r, &req, func(ctx context.Context, id int64) (*entity.Organization, error) {
		return s.catalog.SaveOrganization(ctx, id, req.toEntity())
	})
}

// DeleteOrganization handles DELETE /api/v1/admin/organizations/{id}.
func (s *Server) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	deleteByID(s, w, r, s.catalog.DeleteOrganization)
}

// PutOrganizationCauses handles PUT /api/v1/admin/organizations/{id}/causes.
func (s *Server) PutOrganizationCauses(w http.ResponseWriter, r *http.Request) {
	s.putTerms(w, r, s.catalog.SetOrganizationCauses)
}

// --- Users ---

// GetUser handles GET /api/v1/admin/users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	getByID(s, w, r, s.catalog.User)
}

// PutUser handles PUT /api/v1/admin/users/{id}.
func (s *Server) PutUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	putByID(s, w, r, &req, func(ctx context.Context, id int64) (*entity.User, error) {
		return s.catalog.SaveUser(ctx, id, req.toEntity())
	})
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	deleteByID(s, w, r, s.catalog.DeleteUser)
}

// PutUserCauses handles PUT /api/v1/admin/users/{id}/causes.
func (s *Server) PutUserCauses(w http.ResponseWriter, r *http.Request) {
	s.putTerms(w, r, s.catalog.SetUserCauses)
}

// PutUserSkills handles PUT /api/v1/admin/users/{id}/skills.
func (s *Server) PutUserSkills(w http.ResponseWriter, r *http.Request) {
	s.putTerms(w, r, s.catalog.SetUserSkills)
}

// --- Addresses ---

// GetAddress handles GET /api/v1/admin/addresses/{id}.
func (s *Server) GetAddress(w http.ResponseWriter, r *http.Request) {
	getByID(s, w, r, s.catalog.Address)
}

// PutAddress handles PUT /api/v1/admin/addresses/{id}.
func (s *Server) PutAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	putByID(s, w, r, &req, func(ctx context.Context, id int64) (*entity.Address, error) {
		return s.catalog.SaveAddress(ctx, id, req.toEntity())
	})
}

// DeleteAddress handles DELETE /api/v1/admin/addresses/{id}.
func (s *Server) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	deleteByID(s, w, r, s.catalog.DeleteAddress)
}

// --- Causes and skills ---

// ListCauses handles GET /api/v1/admin/causes.
func (s *Server) ListCauses(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.Causes(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// PutCause handles PUT /api/v1/admin/causes/{id}.
func (s *Server) PutCause(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	putByID(s, w, r, &req, func(ctx context.Context, id int64) (entity.Cause, error) {
		return s.catalog.SaveCause(ctx, id, req.Name)
	})
}

// DeleteCause handles DELETE /api/v1/admin/causes/{id}.
func (s *Server) DeleteCause(w http.ResponseWriter, r *http.Request) {
	deleteByID(s, w, r, s.catalog.DeleteCause)
}

// ListSkills handles GET /api/v1/admin/skills.
func (s *Server) ListSkills(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.Skills(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// PutSkill handles PUT /api/v1/admin/skills/{id}.
func (s *Server) PutSkill(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	putByID(s, w, r, &req, func(ctx context.Context, id int64) (entity.Skill, error) {
		return s.catalog.SaveSkill(ctx, id, req.Name)
	})
}

// DeleteSkill handles DELETE /api/v1/admin/skills/{id}.
func (s *Server) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	deleteByID(s, w, r, s.catalog.DeleteSkill)
}

// --- Index ---

// Reindex handles POST /api/v1/admin/reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	report, err := s.catalog.Reindex(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReindexResponse{
		Indexed: byKind(report.Indexed),
		Pruned:  byKind(report.Pruned),
	})
}

// GetDocument handles GET /api/v1/admin/documents/{kind}/{id}, where kind
// is the plural route name (projects, organizations, users).
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	getByID(s, w, r, func(ctx context.Context, id int64) (DocumentResponse, error) {
		doc, err := s.catalog.Document(ctx, kind, id)
		if err != nil {
			return DocumentResponse{}, err
		}
		return documentToResponse(doc), nil
	})
}

func kindParam(r *http.Request) (domain.Kind, error) {
	raw := chi.URLParam(r, "kind")
	for _, k := range domain.Kinds() {
		if k.Plural() == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown document kind %q", domain.ErrInvalidParameter, raw)
}

func byKind(counts map[domain.Kind]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, n := range counts {
		out[k.Plural()] = n
	}
	return out
}

// --- Helpers ---

func getByID[T any](s *Server, w http.ResponseWriter, r *http.Request, get func(context.Context, int64) (T, error)) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	v, err := get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// putByID decodes the body into req and then calls save with the path id.
func putByID[T any](
	s *Server, w http.ResponseWriter, r *http.Request, req any,
	save func(context.Context, int64) (T, error),
) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if !decodeBody(w, r, req) {
		return
	}
	v, err := save(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func deleteByID(s *Server, w http.ResponseWriter, r *http.Request, del func(context.Context, int64) error) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) putTerms(w http.ResponseWriter, r *http.Request, set func(context.Context, int64, []int64) error) {
	id, err := idParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	var req idsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := set(r.Context(), id, req.IDs); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
