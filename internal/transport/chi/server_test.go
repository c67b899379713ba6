package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"

	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	healthuc "github.com/ovp-platform/ovpsearch/internal/usecase/health"
	searchuc "github.com/ovp-platform/ovpsearch/internal/usecase/search"
)

const saoPaulo = `{"address_components":[{"long_name":"São Paulo","types":["locality"]}]}`

// seed loads a small catalog through the admin API:
//
//	project 1  Horta   2024-01-01  causes 1,2  skill 1  at São Paulo
//	project 2  Sopa    2024-01-02  cause 1
//	project 3  Aulas   2024-01-03  highlighted
//	project 4  Rascunho            unpublished
//	organization 1 at São Paulo; user 1 public with cause 1 and skill 1; user 2 private
func seed(a *testAPI) {
	a.t.Helper()
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/causes/1", `{"name":"Education"}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/causes/2", `{"name":"Health"}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/skills/1", `{"name":"Cooking"}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/addresses/1", `{"typed_address":"São Paulo, Brazil",
		"address_components":[
			{"long_name":"São Paulo","short_name":"SP","types":["locality","political"]},
			{"long_name":"Brazil","short_name":"BR","types":["country","political"]}]}`)

	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/organizations/1",
		`{"name":"Atados","published":true,"address_id":1}`)

	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/projects/1", `{"name":"Horta","published":true,
		"created_date":"2024-01-01T00:00:00Z","organization_id":1,"address_id":1}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/projects/2",
		`{"name":"Sopa","published":true,"created_date":"2024-01-02T00:00:00Z"}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/projects/3",
		`{"name":"Aulas","published":true,"highlighted":true,"created_date":"2024-01-03T00:00:00Z"}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/projects/4", `{"name":"Rascunho"}`)
	a.mustDo(http.StatusNoContent, "PUT", "/api/v1/admin/projects/1/causes", `{"ids":[1,2]}`)
	a.mustDo(http.StatusNoContent, "PUT", "/api/v1/admin/projects/1/skills", `{"ids":[1]}`)
	a.mustDo(http.StatusNoContent, "PUT", "/api/v1/admin/projects/2/causes", `{"ids":[1]}`)

	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/users/1", `{"name":"Ana","profile":{"public":true}}`)
	a.mustDo(http.StatusNoContent, "PUT", "/api/v1/admin/users/1/causes", `{"ids":[1]}`)
	a.mustDo(http.StatusNoContent, "PUT", "/api/v1/admin/users/1/skills", `{"ids":[1]}`)
	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/users/2", `{"name":"Bia","profile":{"public":false}}`)
}

func TestHealthCheck(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	rr := a.mustDo(http.StatusOK, "GET", "/health", "")

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != healthuc.Healthy {
		t.Errorf("status = %q", resp.Status)
	}
	for _, name := range []string{healthuc.CheckSearchIndex, healthuc.CheckRelational} {
		if resp.Checks[name] != healthuc.CheckOK {
			t.Errorf("check %s = %q", name, resp.Checks[name])
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	rr := a.mustDo(http.StatusOK, "GET", "/metrics", "")
	if rr.Body.Len() == 0 {
		t.Error("expected metrics output")
	}
}

func TestSearchProjects_DefaultOrderAndPaging(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	first := decodePage(t, a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects", ""))
	if first.Count != 3 {
		t.Errorf("count = %d, want 3", first.Count)
	}
	if got := pageIDs(first); !slices.Equal(got, []int64{3, 2}) {
		t.Errorf("page 1 = %v, want [3 2]", got)
	}
	if first.Next == nil || *first.Next != "http://example.com/api/v1/search/projects?page=2" {
		t.Errorf("next = %v", first.Next)
	}
	if first.Previous != nil {
		t.Errorf("previous = %q, want null", *first.Previous)
	}

	second := decodePage(t, a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?page=2", ""))
	if got := pageIDs(second); !slices.Equal(got, []int64{1}) {
		t.Errorf("page 2 = %v, want [1]", got)
	}
	if second.Next != nil {
		t.Errorf("next = %q, want null", *second.Next)
	}
	if second.Previous == nil || *second.Previous != "http://example.com/api/v1/search/projects" {
		t.Errorf("previous = %v", second.Previous)
	}
}

func TestSearchProjects_PageSize(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"capped at max", "page_size=100", 3},
		{"explicit", "page_size=1", 1},
		{"malformed falls back to default", "page_size=lots", 2},
		{"zero falls back to default", "page_size=0", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := decodePage(t, a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?"+tt.query, ""))
			if len(page.Results) != tt.want {
				t.Errorf("got %d results, want %d", len(page.Results), tt.want)
			}
		})
	}
}

func TestSearchProjects_InvalidPage(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	for _, page := range []string{"3", "0", "-1", "abc"} {
		rr := a.do("GET", "/api/v1/search/projects?page="+page, "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("page=%s: got %d, want 404", page, rr.Code)
		}
	}
}

func TestSearchProjects_EmptyResultIsOnePage(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})

	page := decodePage(t, a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?page=1", ""))
	if page.Count != 0 || page.Results == nil || len(page.Results) != 0 {
		t.Errorf("unexpected page %+v", page)
	}
}

func TestSearchProjects_Filters(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	tests := []struct {
		name  string
		query url.Values
		want  []int64
	}{
		{"cause", url.Values{"cause": {"2"}}, []int64{1}},
		{"causes OR", url.Values{"cause": {"1,2"}}, []int64{2, 1}},
		{"skill", url.Values{"skill": {"1"}}, []int64{1}},
		{"address", url.Values{"address": {saoPaulo}}, []int64{1}},
		{"highlighted", url.Values{"highlighted": {"true"}}, []int64{3}},
		{"unpublished", url.Values{"published": {"false"}}, []int64{4}},
		{"organization", url.Values{"organization": {"1"}}, []int64{1}},
		{"not organization", url.Values{"not_organization": {"1"}}, []int64{3, 2}},
		{"ordering", url.Values{"ordering": {"created_date"}, "page_size": {"3"}}, []int64{1, 2, 3}},
		{"legacy ordering", url.Values{"order_by": {"name"}, "page_size": {"3"}}, []int64{3, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?"+tt.query.Encode(), "")
			if got := pageIDs(decodePage(t, rr)); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchProjects_MalformedAddress(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})

	rr := a.do("GET", "/api/v1/search/projects?address="+url.QueryEscape("{not json"), "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeInvalidAddress {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestSearchProjects_Relevance(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)
	path := "/api/v1/search/projects?ordering=-relevance&page_size=3"

	t.Run("anonymous", func(t *testing.T) {
		rr := a.do("GET", path, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("got %d, want 401", rr.Code)
		}
		if resp := decodeError(t, rr); resp.Code != ErrorCodeNotAuthenticated {
			t.Errorf("code = %q", resp.Code)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		rr := a.do("GET", path, "", "Authorization", "Token nope")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("got %d, want 401", rr.Code)
		}
	})

	t.Run("token of a missing user", func(t *testing.T) {
		a.mustDo(http.StatusNoContent, "DELETE", "/api/v1/admin/users/2", "")
		rr := a.do("GET", path, "", "Authorization", "Token bia-token")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("got %d, want 401", rr.Code)
		}
	})

	t.Run("viewer", func(t *testing.T) {
		rr := a.do("GET", path, "", "Authorization", "Token ana-token")
		if rr.Code != http.StatusOK {
			t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
		}
		// project 1 shares a cause and a skill, project 2 a cause
		if got := pageIDs(decodePage(t, rr)); !slices.Equal(got, []int64{1, 2, 3}) {
			t.Errorf("got %v, want [1 2 3]", got)
		}
	})

	t.Run("other schemes stay anonymous", func(t *testing.T) {
		rr := a.do("GET", "/api/v1/search/projects", "", "Authorization", "Bearer whatever")
		if rr.Code != http.StatusOK {
			t.Errorf("got %d, want 200", rr.Code)
		}
	})
}

func TestSearchOrganizations(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/search/organizations?address="+url.QueryEscape(saoPaulo), "")
	if got := pageIDs(decodePage(t, rr)); !slices.Equal(got, []int64{1}) {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestSearchUsers(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		a := newTestAPI(t, searchuc.Options{})
		rr := a.do("GET", "/api/v1/search/users", "")
		if rr.Code != http.StatusForbidden {
			t.Fatalf("got %d, want 403", rr.Code)
		}
		if resp := decodeError(t, rr); resp.Code != ErrorCodePermissionDenied {
			t.Errorf("code = %q", resp.Code)
		}
	})

	t.Run("public profiles only", func(t *testing.T) {
		a := newTestAPI(t, searchuc.Options{EnableUserSearch: true})
		seed(a)
		rr := a.mustDo(http.StatusOK, "GET", "/api/v1/search/users", "")
		if got := pageIDs(decodePage(t, rr)); !slices.Equal(got, []int64{1}) {
			t.Errorf("got %v, want [1]", got)
		}
	})
}

func TestCountryCities(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/search/country-cities/Brazil", "")
	var resp CountryCitiesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !slices.Equal(resp.Common, []string{"São Paulo"}) {
		t.Errorf("common = %v", resp.Common)
	}
	if resp.Projects == nil || resp.Organizations == nil {
		t.Error("empty lists must encode as []")
	}

	if rr := a.do("GET", "/api/v1/search/country-cities/%20", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("blank country: got %d, want 400", rr.Code)
	}
}

func TestCountryCities_DecodesOnce(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	for i, country := range []string{"A", "%41", "A/B"} {
		id := i + 1
		a.mustDo(http.StatusOK, "PUT", fmt.Sprintf("/api/v1/admin/addresses/%d", id), fmt.Sprintf(
			`{"address_components":[{"long_name":"City %d","types":["locality"]},{"long_name":%q,"types":["country"]}]}`,
			id, country))
		a.mustDo(http.StatusOK, "PUT", fmt.Sprintf("/api/v1/admin/organizations/%d", id),
			fmt.Sprintf(`{"name":"Org %d","published":true,"address_id":%d}`, id, id))
	}

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/search/country-cities/A", "City 1"},
		{"/api/v1/search/country-cities/%2541", "City 2"},
		{"/api/v1/search/country-cities/A%2FB", "City 3"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := a.mustDo(http.StatusOK, "GET", tt.path, "")
			var resp CountryCitiesResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !slices.Equal(resp.Organizations, []string{tt.want}) {
				t.Errorf("organizations = %v, want [%s]", resp.Organizations, tt.want)
			}
		})
	}
}

func TestAdmin_RequiresAPIKey(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})

	req := httptest.NewRequest("GET", "/api/v1/admin/causes", http.NoBody)
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeUnauthorized {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestAdmin_ProjectLifecycle(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	var p struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Causes []struct {
			ID int64 `json:"id"`
		} `json:"causes"`
	}
	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/admin/projects/1", "")
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Horta" || len(p.Causes) != 2 {
		t.Errorf("unexpected project %+v", p)
	}

	a.mustDo(http.StatusNoContent, "DELETE", "/api/v1/admin/projects/1", "")
	a.mustDo(http.StatusNotFound, "GET", "/api/v1/admin/projects/1", "")
	a.mustDo(http.StatusNotFound, "DELETE", "/api/v1/admin/projects/1", "")

	rr = a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?cause=2", "")
	if got := pageIDs(decodePage(t, rr)); len(got) != 0 {
		t.Errorf("deleted project still found: %v", got)
	}
}

func TestAdmin_ClosingRemovesFromSearch(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/projects/3",
		`{"name":"Aulas","published":true,"closed":true,"created_date":"2024-01-03T00:00:00Z"}`)

	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?page_size=3", "")
	if got := pageIDs(decodePage(t, rr)); !slices.Equal(got, []int64{2, 1}) {
		t.Errorf("got %v, want [2 1]", got)
	}
}

func TestAdmin_DeleteAddressCascades(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	a.mustDo(http.StatusNoContent, "DELETE", "/api/v1/admin/addresses/1", "")
	a.mustDo(http.StatusNotFound, "GET", "/api/v1/admin/projects/1", "")

	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/search/organizations", "")
	if page := decodePage(t, rr); page.Count != 0 {
		t.Errorf("organization at a deleted address still found: %v", pageIDs(page))
	}
}

func TestAdmin_Taxonomy(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	var causes []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/admin/causes", "")
	if err := json.NewDecoder(rr.Body).Decode(&causes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(causes) != 2 {
		t.Errorf("causes = %+v", causes)
	}

	a.mustDo(http.StatusNoContent, "DELETE", "/api/v1/admin/causes/2", "")
	rr = a.mustDo(http.StatusOK, "GET", "/api/v1/search/projects?cause=2", "")
	if got := pageIDs(decodePage(t, rr)); len(got) != 0 {
		t.Errorf("projects still tagged with a deleted cause: %v", got)
	}

	a.mustDo(http.StatusNoContent, "DELETE", "/api/v1/admin/skills/1", "")
	rr = a.mustDo(http.StatusOK, "GET", "/api/v1/admin/skills", "")
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("skills = %q, want []", body)
	}
}

func TestAdmin_BadRequests(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"non numeric id", "PUT", "/api/v1/admin/projects/abc", `{"name":"x"}`, http.StatusBadRequest},
		{"zero id", "PUT", "/api/v1/admin/projects/0", `{"name":"x"}`, http.StatusBadRequest},
		{"malformed body", "PUT", "/api/v1/admin/projects/9", `{`, http.StatusBadRequest},
		{"missing name", "PUT", "/api/v1/admin/projects/9", `{}`, http.StatusBadRequest},
		{"unknown organization", "PUT", "/api/v1/admin/projects/9", `{"name":"x","organization_id":99}`,
			http.StatusBadRequest},
		{"unknown cause", "PUT", "/api/v1/admin/projects/1/causes", `{"ids":[42]}`, http.StatusBadRequest},
		{"non positive cause", "PUT", "/api/v1/admin/projects/1/causes", `{"ids":[0]}`, http.StatusBadRequest},
		{"terms of a missing project", "PUT", "/api/v1/admin/projects/77/skills", `{"ids":[1]}`,
			http.StatusNotFound},
		{"skills without profile", "PUT", "/api/v1/admin/users/3/skills", `{"ids":[1]}`, http.StatusNotFound},
		{"empty cause name", "PUT", "/api/v1/admin/causes/5", `{"name":" "}`, http.StatusBadRequest},
		{"component without name", "PUT", "/api/v1/admin/addresses/2",
			`{"address_components":[{"long_name":"","types":["locality"]}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := a.do(tt.method, tt.path, tt.body)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestAdmin_Reindex(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	rr := a.mustDo(http.StatusOK, "POST", "/api/v1/admin/reindex", "")
	var resp ReindexResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// unpublished projects are indexed too; published is a query filter
	want := map[string]int{"projects": 4, "organizations": 1, "users": 2}
	for kind, n := range want {
		if resp.Indexed[kind] != n {
			t.Errorf("indexed %s = %d, want %d", kind, resp.Indexed[kind], n)
		}
	}
}

func TestAdmin_Document(t *testing.T) {
	a := newTestAPI(t, searchuc.Options{})
	seed(a)

	rr := a.mustDo(http.StatusOK, "GET", "/api/v1/admin/documents/projects/1", "")
	var doc DocumentResponse
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Kind != "project" || doc.ID != 1 || doc.Name != "Horta" {
		t.Errorf("doc = %+v", doc)
	}
	if !slices.Equal(doc.Causes, []int64{1, 2}) || !slices.Equal(doc.Skills, []int64{1}) {
		t.Errorf("causes = %v, skills = %v", doc.Causes, doc.Skills)
	}
	if !slices.Contains(doc.AddressComponents, "São Paulo-locality") ||
		!slices.Contains(doc.AddressComponents, "Brazil-country") {
		t.Errorf("address components = %v", doc.AddressComponents)
	}
	if !doc.Flags["published"] || doc.Flags["closed"] {
		t.Errorf("flags = %v", doc.Flags)
	}

	a.mustDo(http.StatusOK, "PUT", "/api/v1/admin/projects/3",
		`{"name":"Aulas","published":true,"closed":true,"created_date":"2024-01-03T00:00:00Z"}`)
	a.mustDo(http.StatusNotFound, "GET", "/api/v1/admin/documents/projects/3", "")
	a.mustDo(http.StatusOK, "GET", "/api/v1/admin/documents/users/2", "")
	a.mustDo(http.StatusBadRequest, "GET", "/api/v1/admin/documents/events/1", "")
	a.mustDo(http.StatusBadRequest, "GET", "/api/v1/admin/documents/projects/x", "")
}

func TestHandleDomainError(t *testing.T) {
	s := &Server{logger: zap.NewNop()}

	tests := []struct {
		err    error
		status int
		code   ErrorCode
		msg    string
	}{
		{fmt.Errorf("get project: %w", domain.ErrNotFound), http.StatusNotFound, ErrorCodeNotFound, "not found"},
		{fmt.Errorf("%w: bad", domain.ErrInvalidParameter), http.StatusBadRequest, ErrorCodeBadRequest,
			domain.ErrInvalidParameter.Error()},
		{domain.ErrInvalidAddress, http.StatusBadRequest, ErrorCodeInvalidAddress, domain.ErrInvalidAddress.Error()},
		{domain.ErrNotAuthenticated, http.StatusUnauthorized, ErrorCodeNotAuthenticated,
			domain.ErrNotAuthenticated.Error()},
		{domain.ErrPermissionDenied, http.StatusForbidden, ErrorCodePermissionDenied,
			domain.ErrPermissionDenied.Error()},
		{errors.New("dial tcp 10.0.0.1:6379: refused"), http.StatusInternalServerError, ErrorCodeInternalError,
			"internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.handleDomainError(rr, tt.err)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.code || resp.Message != tt.msg {
				t.Errorf("got %+v, want %s %q", resp, tt.code, tt.msg)
			}
		})
	}
}
