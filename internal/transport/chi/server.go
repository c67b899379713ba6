package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	cataloguc "github.com/ovp-platform/ovpsearch/internal/usecase/catalog"
	healthuc "github.com/ovp-platform/ovpsearch/internal/usecase/health"
	searchuc "github.com/ovp-platform/ovpsearch/internal/usecase/search"
)

// maxBodyBytes caps admin request bodies.
const maxBodyBytes = 1 << 20

// Options holds the HTTP settings that shape responses and access.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	APIKeys         []string
	UserTokens      map[string]int64
}

// Server serves the search API and the admin write API.
type Server struct {
	search  *searchuc.Service
	catalog *cataloguc.Service
	health  *healthuc.Service
	opts    Options
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = max(opts.DefaultPageSize, 100)
	}
	return &Server{
		search:  search,
		catalog: catalog,
		health:  health,
		opts:    opts,
		logger:  logger,
	}
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			r.Use(ViewerMiddleware(s.opts.UserTokens))
			r.Get("/projects", s.SearchProjects)
			r.Get("/organizations", s.SearchOrganizations)
			r.Get("/users", s.SearchUsers)
			r.Get("/country-cities/{country}", s.CountryCities)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(BearerAuthMiddleware(s.opts.APIKeys))

			r.Route("/projects/{id}", func(r chi.Router) {
				r.Get("/", s.GetProject)
				r.Put("/", s.PutProject)
				r.Delete("/", s.DeleteProject)
				r.Put("/causes", s.PutProjectCauses)
				r.Put("/skills", s.PutProjectSkills)
			})
			r.Route("/organizations/{id}", func(r chi.Router) {
				r.Get("/", s.GetOrganization)
				r.Put("/", s.PutOrganization)
				r.Delete("/", s.DeleteOrganization)
				r.Put("/causes", s.PutOrganizationCauses)
			})
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", s.GetUser)
				r.Put("/", s.PutUser)
				r.Delete("/", s.DeleteUser)
				r.Put("/causes", s.PutUserCauses)
				r.Put("/skills", s.PutUserSkills)
			})
			r.Route("/addresses/{id}", func(r chi.Router) {
				r.Get("/", s.GetAddress)
				r.Put("/", s.PutAddress)
				r.Delete("/", s.DeleteAddress)
			})

			r.Get("/causes", s.ListCauses)
			r.Put("/causes/{id}", s.PutCause)
			r.Delete("/causes/{id}", s.DeleteCause)
			r.Get("/skills", s.ListSkills)
			r.Put("/skills/{id}", s.PutSkill)
			r.Delete("/skills/{id}", s.DeleteSkill)

			r.Get("/documents/{kind}/{id}", s.GetDocument)
			r.Post("/reindex", s.Reindex)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", domain.ErrInvalidParameter, raw)
	}
	return id, nil
}

// decodeBody reads a JSON request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
