// Package query defines the immutable search request that filter pipelines narrow.
package query

import (
	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/filter"
)

// Query is a search over one kind of document. Every narrowing returns a new value.
type Query struct {
	kind domain.Kind
	expr filter.Expression
}

// New creates a Query matching every document of kind.
func New(kind domain.Kind) Query {
	return Query{kind: kind}
}

// Kind returns the document kind.
func (q Query) Kind() domain.Kind { return q.kind }

// Filter returns the accumulated conjunction.
func (q Query) Filter() filter.Expression { return q.expr }

// Where returns q narrowed by p.
func (q Query) Where(p filter.Predicate) Query {
	return Query{kind: q.kind, expr: q.expr.And(p)}
}
