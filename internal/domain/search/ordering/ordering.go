// Package ordering parses sort specifications and compares records by them.
package ordering

import (
	"cmp"
	"strings"
)

// Relevance is the viewer-dependent score field.
const Relevance = "relevance"

// CreatedDate and ID are the tie-break fields appended to every ordering.
const (
	CreatedDate = "created_date"
	ID          = "id"
)

// Field is one sort key.
type Field struct {
	Name string
	Desc bool
}

func (f Field) String() string {
	if f.Desc {
		return "-" + f.Name
	}
	return f.Name
}

// Ordering is a list of sort keys applied left to right.
type Ordering []Field

// Parse reads a comma separated "field,-field" list. Fields outside allowed
// are dropped.
func Parse(raw string, allowed map[string]bool) Ordering {
	var out Ordering
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		f := Field{Name: tok}
		if strings.HasPrefix(tok, "-") {
			f = Field{Name: tok[1:], Desc: true}
		}
		if f.Name == "" || !allowed[f.Name] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Legacy reads the order_by + ordered=desc parameter pair.
func Legacy(orderBy, ordered string, allowed map[string]bool) Ordering {
	if !allowed[orderBy] {
		return nil
	}
	return Ordering{{Name: orderBy, Desc: ordered == "desc"}}
}

// Has reports whether name is one of the keys.
func (o Ordering) Has(name string) bool {
	for _, f := range o {
		if f.Name == name {
			return true
		}
	}
	return false
}

// WithTieBreak appends newest-first then id, unless already present, so that
// every ordering is total.
func (o Ordering) WithTieBreak() Ordering {
	out := append(Ordering(nil), o...)
	if !o.Has(CreatedDate) {
		out = append(out, Field{Name: CreatedDate, Desc: true})
	}
	if !o.Has(ID) {
		out = append(out, Field{Name: ID})
	}
	return out
}

func (o Ordering) String() string {
	parts := make([]string, len(o))
	for i, f := range o {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// Value is a sortable field value. Numbers sort before strings.
type Value struct {
	num   int64
	str   string
	isStr bool
}

// Int wraps an integer.
func Int(v int64) Value { return Value{num: v} }

// Bool wraps a boolean; false sorts before true.
func Bool(v bool) Value {
	if v {
		return Value{num: 1}
	}
	return Value{}
}

// String wraps a string, compared case-insensitively.
func String(v string) Value { return Value{str: strings.ToLower(v), isStr: true} }

func (v Value) compare(o Value) int {
	if v.isStr != o.isStr {
		if v.isStr {
			return 1
		}
		return -1
	}
	if v.isStr {
		return cmp.Compare(v.str, o.str)
	}
	return cmp.Compare(v.num, o.num)
}

// Compare returns a comparison function for slices.SortStableFunc. key must
// return the value of the named field for an item.
func Compare[T any](o Ordering, key func(item T, field string) Value) func(a, b T) int {
	return func(a, b T) int {
		for _, f := range o {
			c := key(a, f.Name).compare(key(b, f.Name))
			if f.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
}
