package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/db/memory"
	"github.com/ovp-platform/ovpsearch/internal/db/sqlite"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/events"
	"github.com/ovp-platform/ovpsearch/internal/repository/address"
	"github.com/ovp-platform/ovpsearch/internal/repository/cache"
	"github.com/ovp-platform/ovpsearch/internal/repository/document"
	"github.com/ovp-platform/ovpsearch/internal/repository/organization"
	"github.com/ovp-platform/ovpsearch/internal/repository/project"
	searchrepo "github.com/ovp-platform/ovpsearch/internal/repository/search"
	"github.com/ovp-platform/ovpsearch/internal/repository/taxonomy"
	"github.com/ovp-platform/ovpsearch/internal/repository/user"
	cataloguc "github.com/ovp-platform/ovpsearch/internal/usecase/catalog"
	healthuc "github.com/ovp-platform/ovpsearch/internal/usecase/health"
	"github.com/ovp-platform/ovpsearch/internal/usecase/indexer"
	searchuc "github.com/ovp-platform/ovpsearch/internal/usecase/search"
)

const adminKey = "admin-secret"

// --- Fixture ---

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

// newTestAPI wires the whole service over in-memory sqlite and the memory index.
func newTestAPI(t *testing.T, searchOpts searchuc.Options) *testAPI {
	t.Helper()
	ctx := context.Background()
	sqlDB, err := sqlite.Open(ctx, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	keys := domain.NewKeyspace("ovp:")
	store := memory.NewStore()
	bus := events.NewBus()

	projects := project.New(sqlDB, bus)
	orgs := organization.New(sqlDB, bus)
	users := user.New(sqlDB, bus)
	matcher := searchrepo.New(store, keys, 0)
	documents := document.New(store, keys)

	sync := indexer.New(documents, matcher, projects, orgs, users, nil, zap.NewNop())
	if err := sync.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	if _, err := sync.Subscribe(bus); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	results := cache.New(store, keys, 0, nil, zap.NewNop())
	search := searchuc.New(matcher, projects, orgs, users, results, searchOpts, nil)
	catalog := cataloguc.New(projects, orgs, users, address.New(sqlDB, bus), taxonomy.New(sqlDB, bus),
		sync, documents, zap.NewNop())
	health := healthuc.New(store, sqlDB)

	server := NewServer(search, catalog, health, Options{
		DefaultPageSize: 2,
		MaxPageSize:     3,
		APIKeys:         []string{adminKey},
		UserTokens:      map[string]int64{"ana-token": 1, "bia-token": 2},
	}, zap.NewNop())

	r := chi.NewRouter()
	r.Use(JSONRecoverer(zap.NewNop()))
	server.Mount(r)
	return &testAPI{t: t, handler: r}
}

// do sends a request and returns the recorder. Admin paths get the API key.
func (a *testAPI) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if strings.HasPrefix(path, "/api/v1/admin") {
		req.Header.Set("Authorization", "Bearer "+adminKey)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

// mustDo is do that fails the test unless the response has the wanted status.
func (a *testAPI) mustDo(want int, method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	rr := a.do(method, path, body)
	if rr.Code != want {
		a.t.Fatalf("%s %s: got %d, want %d: %s", method, path, rr.Code, want, rr.Body.String())
	}
	return rr
}

type resultID struct {
	ID int64 `json:"id"`
}

func decodePage(t *testing.T, rr *httptest.ResponseRecorder) PageResponse[resultID] {
	t.Helper()
	var page PageResponse[resultID]
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return page
}

func pageIDs(page PageResponse[resultID]) []int64 {
	ids := make([]int64, len(page.Results))
	for i, r := range page.Results {
		ids[i] = r.ID
	}
	return ids
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}
