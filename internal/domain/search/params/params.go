// Package params reads search request parameters.
package params

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// Parameter names accepted by the search endpoints.
const (
	Query           = "query"
	Cause           = "cause"
	Skill           = "skill"
	Address         = "address"
	Name            = "name"
	Highlighted     = "highlighted"
	Published       = "published"
	Ordering        = "ordering"
	OrderBy         = "order_by"
	Ordered         = "ordered"
	Organization    = "organization"
	NotOrganization = "not_organization"
	Page            = "page"
	PageSize        = "page_size"
)

// Params is a read-only view over a request's query string.
type Params struct {
	values url.Values
}

// New wraps v. A nil v behaves like an empty query string.
func New(v url.Values) Params {
	if v == nil {
		v = url.Values{}
	}
	return Params{values: v}
}

// Get returns the first value of name, or "".
func (p Params) Get(name string) string { return p.values.Get(name) }

// Has reports whether name was sent, even with an empty value.
func (p Params) Has(name string) bool { return p.values.Has(name) }

// GetDefault returns the first value of name, or def when name is absent.
func (p Params) GetDefault(name, def string) string {
	if !p.values.Has(name) {
		return def
	}
	return p.values.Get(name)
}

// Values returns a copy of the underlying values.
func (p Params) Values() url.Values {
	out := make(url.Values, len(p.values))
	for k, v := range p.values {
		out[k] = slices.Clone(v)
	}
	return out
}

// CacheKey hashes the order-independent multiset of every (name, value) pair
// plus any extra discriminators, prefixed with the plural kind name.
func (p Params) CacheKey(kind domain.Kind, extra ...string) string {
	pairs := make([]string, 0, len(p.values)+len(extra))
	for k, vs := range p.values {
		for _, v := range vs {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	slices.Sort(pairs)
	h := sha256.New()
	for _, s := range pairs {
		h.Write([]byte(s))
		h.Write([]byte{'&'})
	}
	for _, s := range extra {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return kind.Plural() + "-" + hex.EncodeToString(h.Sum(nil))
}

// Int64List parses a comma separated id list. Empty tokens are skipped.
func (p Params) Int64List(name string) ([]int64, error) {
	raw := p.Get(name)
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a comma separated list of integers", domain.ErrInvalidParameter, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PositiveInt parses name as an integer >= 1, returning def when absent.
func (p Params) PositiveInt(name string, def int) (int, error) {
	raw := p.Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidParameter, name)
	}
	return n, nil
}
