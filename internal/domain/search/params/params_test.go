package params

import (
	"errors"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/ovp-platform/ovpsearch/internal/domain"
)

func TestCacheKey_OrderIndependent(t *testing.T) {
	a, _ := url.ParseQuery("cause=1&skill=2&skill=3")
	b, _ := url.ParseQuery("skill=3&cause=1&skill=2")

	ka := New(a).CacheKey(domain.KindProject)
	kb := New(b).CacheKey(domain.KindProject)
	if ka != kb {
		t.Errorf("keys differ: %s vs %s", ka, kb)
	}
	if !strings.HasPrefix(ka, "projects-") {
		t.Errorf("unexpected prefix: %s", ka)
	}
}

func TestCacheKey_Discriminates(t *testing.T) {
	a, _ := url.ParseQuery("cause=1")
	b, _ := url.ParseQuery("cause=2")
	c, _ := url.ParseQuery("cause=1&cause=1")

	keys := []string{
		New(a).CacheKey(domain.KindProject),
		New(b).CacheKey(domain.KindProject),
		New(c).CacheKey(domain.KindProject),
		New(a).CacheKey(domain.KindOrganization),
		New(a).CacheKey(domain.KindProject, "viewer:7"),
	}
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate key %s", k)
		}
		seen[k] = true
	}
}

func TestCacheKey_Separators(t *testing.T) {
	a, _ := url.ParseQuery("a=b%26c%3Dd")
	b, _ := url.ParseQuery("a=b&c=d")
	if New(a).CacheKey(domain.KindUser) == New(b).CacheKey(domain.KindUser) {
		t.Error("escaped separators must not collide")
	}
}

func TestGetDefault(t *testing.T) {
	p := New(url.Values{"published": {""}})
	if got := p.GetDefault(Published, "true"); got != "" {
		t.Errorf("present but empty should be kept, got %q", got)
	}
	if got := New(nil).GetDefault(Published, "true"); got != "true" {
		t.Errorf("absent should default, got %q", got)
	}
}

func TestInt64List(t *testing.T) {
	p := New(url.Values{"organization": {"1, 2,,3"}, "bad": {"1,x"}})
	ids, err := p.Int64List(Organization)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []int64{1, 2, 3}) {
		t.Errorf("ids = %v", ids)
	}
	if _, err := p.Int64List("bad"); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if ids, err := p.Int64List("missing"); ids != nil || err != nil {
		t.Errorf("missing = %v, %v", ids, err)
	}
}

func TestPositiveInt(t *testing.T) {
	p := New(url.Values{"page": {"3"}, "zero": {"0"}, "word": {"x"}})
	if n, err := p.PositiveInt(Page, 1); n != 3 || err != nil {
		t.Errorf("page = %d, %v", n, err)
	}
	if n, _ := p.PositiveInt("absent", 20); n != 20 {
		t.Errorf("default = %d", n)
	}
	for _, name := range []string{"zero", "word"} {
		if _, err := p.PositiveInt(name, 1); !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter, got %v", name, err)
		}
	}
}
