package chi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ovp-platform/ovpsearch/internal/domain/search/params"
)

// SearchProjects handles GET /api/v1/search/projects.
func (s *Server) SearchProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.search.Projects(r.Context(), params.New(r.URL.Query()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writePage(s, w, r, list)
}

// SearchOrganizations handles GET /api/v1/search/organizations.
func (s *Server) SearchOrganizations(w http.ResponseWriter, r *http.Request) {
	list, err := s.search.Organizations(r.Context(), params.New(r.URL.Query()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writePage(s, w, r, list)
}

// SearchUsers handles GET /api/v1/search/users.
func (s *Server) SearchUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.search.Users(r.Context(), params.New(r.URL.Query()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writePage(s, w, r, list)
}

// CountryCities handles GET /api/v1/search/country-cities/{country}.
func (s *Server) CountryCities(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	// chi matches against RawPath when it is set, leaving the segment escaped
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(country); err == nil {
			country = unescaped
		}
	}
	cities, err := s.search.CountryCities(r.Context(), country)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countryCitiesToResponse(cities))
}

func writePage[T any](s *Server, w http.ResponseWriter, r *http.Request, items []T) {
	page, err := paginate(r, items, s.opts.DefaultPageSize, s.opts.MaxPageSize)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
