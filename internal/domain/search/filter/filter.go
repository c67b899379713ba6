// Package filter holds the typed boolean predicate tree that search backends
// evaluate. Backends render it into their own query language.
package filter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// Op combines the children of a group.
type Op int

const (
	And Op = iota
	Or
)

func (o Op) String() string {
	if o == Or {
		return "OR"
	}
	return "AND"
}

// Kind identifies the predicate variant.
type Kind int

const (
	// KindTag matches documents whose tag field contains a value.
	KindTag Kind = iota
	// KindFlag matches documents whose boolean facet equals a value.
	KindFlag
	// KindText matches documents whose text field contains every term.
	KindText
	// KindPrefix matches documents whose text field has a word starting with every term.
	KindPrefix
	// KindAllTags matches documents whose tag field contains every value.
	KindAllTags
	// KindGroup combines child predicates with an Op.
	KindGroup
)

// Predicate is one node of the tree. Construct it with the helpers below.
type Predicate struct {
	kind     Kind
	field    string
	values   []string
	flag     bool
	op       Op
	children []Predicate
}

// Tag matches a single tag value.
func Tag(field, value string) Predicate {
	return Predicate{kind: KindTag, field: field, values: []string{value}}
}

// Flag matches a boolean facet.
func Flag(field string, value bool) Predicate {
	return Predicate{kind: KindFlag, field: field, flag: value}
}

// Text matches every term of text as a whole word.
func Text(field, text string) Predicate {
	return Predicate{kind: KindText, field: field, values: Tokenize(text)}
}

// Prefix matches every term of text as a word prefix.
func Prefix(field, text string) Predicate {
	return Predicate{kind: KindPrefix, field: field, values: Tokenize(text)}
}

// AllTags requires every value to be present on the tag field.
func AllTags(field string, values []string) Predicate {
	return Predicate{kind: KindAllTags, field: field, values: values}
}

// Group combines children with op.
func Group(op Op, children ...Predicate) Predicate {
	return Predicate{kind: KindGroup, op: op, children: children}
}

// Kind returns the predicate variant.
func (p Predicate) Kind() Kind { return p.kind }

// Field returns the indexed field name (empty for groups).
func (p Predicate) Field() string { return p.field }

// Values returns tag values or text terms.
func (p Predicate) Values() []string { return p.values }

// Value returns the single tag value of a KindTag predicate.
func (p Predicate) Value() string {
	if len(p.values) == 0 {
		return ""
	}
	return p.values[0]
}

// FlagValue returns the expected value of a KindFlag predicate.
func (p Predicate) FlagValue() bool { return p.flag }

// Op returns the group operator.
func (p Predicate) Op() Op { return p.op }

// Children returns the group members.
func (p Predicate) Children() []Predicate { return p.children }

func (p Predicate) validate() error {
	if p.kind == KindGroup {
		for _, c := range p.children {
			if err := c.validate(); err != nil {
				return err
			}
		}
		return nil
	}
	if p.field == "" {
		return fmt.Errorf("%w: filter field is required", domain.ErrInvalidParameter)
	}
	return nil
}

// Expression is a conjunction of predicates. The zero value matches everything.
type Expression struct {
	predicates []Predicate
}

// And returns a copy of e narrowed by p.
func (e Expression) And(p Predicate) Expression {
	out := make([]Predicate, len(e.predicates), len(e.predicates)+1)
	copy(out, e.predicates)
	return Expression{predicates: append(out, p)}
}

// Predicates returns the conjuncts.
func (e Expression) Predicates() []Predicate { return e.predicates }

// IsEmpty reports whether the expression has no predicates.
func (e Expression) IsEmpty() bool { return len(e.predicates) == 0 }

// Validate checks field names. Group sizes are unbounded; cause and skill
// lists carry as many ids as the caller sends.
func (e Expression) Validate() error {
	for _, p := range e.predicates {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Tokenize lowercases s and splits it on anything that is not a letter or digit.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}
