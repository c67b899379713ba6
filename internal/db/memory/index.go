package memory

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/filter"
)

// index is an inverted index over the hashes under def.Prefixes.
// Structure: field -> value/term -> bitmap of internal doc ids.
type index struct {
	def *db.IndexDefinition

	ids  map[string]uint32
	keys map[uint32]string
	next uint32
	all  *roaring.Bitmap

	// postings remembers what each doc contributed so a reindex can retract it.
	postings map[uint32]map[string][]string
	inverted map[string]map[string]*roaring.Bitmap
}

func newIndex(def *db.IndexDefinition) *index {
	return &index{
		def:      def,
		ids:      make(map[string]uint32),
		keys:     make(map[uint32]string),
		all:      roaring.New(),
		postings: make(map[uint32]map[string][]string),
		inverted: make(map[string]map[string]*roaring.Bitmap),
	}
}

func (ix *index) covers(key string) bool {
	return hasAnyPrefix(key, ix.def.Prefixes)
}

func (ix *index) put(key string, h map[string]string) {
	id, ok := ix.ids[key]
	if ok {
		ix.retract(id)
	} else {
		id = ix.next
		ix.next++
		ix.ids[key] = id
		ix.keys[id] = key
	}
	ix.all.Add(id)

	contributed := make(map[string][]string)
	for i := range ix.def.Fields {
		f := &ix.def.Fields[i]
		raw, ok := h[f.Name]
		if !ok {
			continue
		}
		var values []string
		switch f.Type {
		case db.IndexFieldTag:
			values = tagValues(f, raw)
		case db.IndexFieldText:
			values = filter.Tokenize(raw)
		default:
			continue
		}
		for _, v := range values {
			ix.posting(f.Name, v).Add(id)
		}
		contributed[f.Name] = values
	}
	ix.postings[id] = contributed
}

func (ix *index) remove(key string) {
	id, ok := ix.ids[key]
	if !ok {
		return
	}
	ix.retract(id)
	ix.all.Remove(id)
	delete(ix.ids, key)
	delete(ix.keys, id)
}

func (ix *index) retract(id uint32) {
	for field, values := range ix.postings[id] {
		for _, v := range values {
			if bm, ok := ix.inverted[field][v]; ok {
				bm.Remove(id)
				if bm.IsEmpty() {
					delete(ix.inverted[field], v)
				}
			}
		}
	}
	delete(ix.postings, id)
}

func (ix *index) posting(field, value string) *roaring.Bitmap {
	values, ok := ix.inverted[field]
	if !ok {
		values = make(map[string]*roaring.Bitmap)
		ix.inverted[field] = values
	}
	bm, ok := values[value]
	if !ok {
		bm = roaring.New()
		values[value] = bm
	}
	return bm
}

func tagValues(f *db.IndexField, raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, f.Separator()) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !f.TagCaseSensitive {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	return out
}

// evaluate returns a fresh bitmap of matching doc ids.
func (ix *index) evaluate(expr filter.Expression) (*roaring.Bitmap, error) {
	out := ix.all.Clone()
	for _, p := range expr.Predicates() {
		bm, err := ix.match(p)
		if err != nil {
			return nil, err
		}
		out.And(bm)
	}
	return out, nil
}

func (ix *index) match(p filter.Predicate) (*roaring.Bitmap, error) {
	if p.Kind() == filter.KindGroup {
		return ix.matchGroup(p)
	}

	f, ok := ix.def.Field(p.Field())
	if !ok {
		return nil, fmt.Errorf("unknown field `%s`", p.Field())
	}

	switch p.Kind() {
	case filter.KindTag:
		return ix.lookupTag(f, p.Value()), nil
	case filter.KindFlag:
		return ix.lookupTag(f, fmt.Sprint(p.FlagValue())), nil
	case filter.KindAllTags:
		out := ix.all.Clone()
		for _, v := range p.Values() {
			out.And(ix.lookupTag(f, v))
		}
		return out, nil
	case filter.KindText:
		out := ix.all.Clone()
		for _, term := range p.Values() {
			out.And(ix.lookup(f.Name, term))
		}
		return out, nil
	case filter.KindPrefix:
		out := ix.all.Clone()
		for _, term := range p.Values() {
			out.And(ix.lookupPrefix(f.Name, term))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported predicate kind %d", p.Kind())
}

func (ix *index) matchGroup(p filter.Predicate) (*roaring.Bitmap, error) {
	if len(p.Children()) == 0 {
		return ix.all.Clone(), nil
	}
	var out *roaring.Bitmap
	for _, c := range p.Children() {
		bm, err := ix.match(c)
		if err != nil {
			return nil, err
		}
		switch {
		case out == nil:
			out = bm
		case p.Op() == filter.Or:
			out.Or(bm)
		default:
			out.And(bm)
		}
	}
	return out, nil
}

func (ix *index) lookupTag(f *db.IndexField, value string) *roaring.Bitmap {
	if !f.TagCaseSensitive {
		value = strings.ToLower(value)
	}
	return ix.lookup(f.Name, value)
}

func (ix *index) lookup(field, value string) *roaring.Bitmap {
	if bm, ok := ix.inverted[field][value]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

func (ix *index) lookupPrefix(field, prefix string) *roaring.Bitmap {
	out := roaring.New()
	for term, bm := range ix.inverted[field] {
		if strings.HasPrefix(term, prefix) {
			out.Or(bm)
		}
	}
	return out
}
