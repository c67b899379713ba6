package db

import "github.com/ovp-platform/ovpsearch/internal/domain/search/filter"

// SearchQuery is the input for a filtered FT.SEARCH.
type SearchQuery struct {
	IndexName    string
	Filter       filter.Expression
	Offset       int
	Limit        int
	ReturnFields []string
	// NoContent returns keys only.
	NoContent bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
