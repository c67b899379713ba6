package chi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/params"
)

var errInvalidPage = fmt.Errorf("%w: invalid page", domain.ErrNotFound)

// paginate cuts one page out of a fully ordered result list. page defaults
// to 1 and must exist; page_size falls back to the default when malformed and
// is capped at maxSize.
func paginate[T any](r *http.Request, items []T, defaultSize, maxSize int) (PageResponse[T], error) {
	p := params.New(r.URL.Query())

	page := 1
	if raw := p.Get(params.Page); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return PageResponse[T]{}, errInvalidPage
		}
		page = n
	}

	size, err := p.PositiveInt(params.PageSize, defaultSize)
	if err != nil {
		size = defaultSize
	}
	size = min(size, maxSize)

	count := len(items)
	pages := max(1, (count+size-1)/size)
	if page > pages {
		return PageResponse[T]{}, errInvalidPage
	}

	start := (page - 1) * size
	end := min(start+size, count)
	resp := PageResponse[T]{
		Count:   count,
		Results: nonNil(items[start:end]),
	}
	if page < pages {
		resp.Next = pageURL(r, page+1)
	}
	if page > 1 {
		resp.Previous = pageURL(r, page-1)
	}
	return resp, nil
}

// pageURL rebuilds the absolute request URL pointing at another page. The
// first page carries no page parameter.
func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	u.Host = r.Host

	q := u.Query()
	if page == 1 {
		q.Del(params.Page)
	} else {
		q.Set(params.Page, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}
