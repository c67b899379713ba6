// Package pipeline turns raw request parameters into filter predicates.
// Every step takes a query and returns it narrowed, or unchanged when the
// parameter is absent or carries no usable value.
package pipeline

import (
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/domain/address"
	"github.com/ovp-platform/ovpsearch/internal/domain/document"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/filter"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/query"
)

// ParseOperatorAndItems splits a comma separated list whose optional first
// token is the exact word AND or OR. The operator defaults to OR.
func ParseOperatorAndItems(raw string) (filter.Op, []string) {
	items := strings.Split(raw, ",")
	switch items[0] {
	case "AND":
		return filter.And, items[1:]
	case "OR":
		return filter.Or, items[1:]
	}
	return filter.Or, items
}

// ByPublished keeps published documents for "true", unpublished ones for
// "false", and both for anything else.
func ByPublished(q query.Query, raw string) query.Query {
	switch raw {
	case "true":
		return q.Where(filter.Flag(entity.FlagPublished, true))
	case "false":
		return q.Where(filter.Flag(entity.FlagPublished, false))
	}
	return q
}

// ByHighlighted keeps highlighted documents when raw is "true".
func ByHighlighted(q query.Query, raw string) query.Query {
	if raw == "true" {
		return q.Where(filter.Flag(entity.FlagHighlighted, true))
	}
	return q
}

// ByText matches every word of raw against the text blob.
func ByText(q query.Query, raw string) query.Query {
	p := filter.Text(document.FieldText, raw)
	if len(p.Values()) == 0 {
		return q
	}
	return q.Where(p)
}

// ByName matches whole words of raw against the name.
func ByName(q query.Query, raw string) query.Query {
	p := filter.Text(document.FieldName, raw)
	if len(p.Values()) == 0 {
		return q
	}
	return q.Where(p)
}

// ByNameAutocomplete matches each word of raw as a prefix of a name word.
func ByNameAutocomplete(q query.Query, raw string) query.Query {
	p := filter.Prefix(document.FieldName, raw)
	if len(p.Values()) == 0 {
		return q
	}
	return q.Where(p)
}

// BySkills filters by a "[AND|OR,]id,id,..." skill list.
func BySkills(q query.Query, raw string) query.Query {
	return byTagList(q, document.FieldSkills, raw)
}

// ByCauses filters by a "[AND|OR,]id,id,..." cause list.
func ByCauses(q query.Query, raw string) query.Query {
	return byTagList(q, document.FieldCauses, raw)
}

func byTagList(q query.Query, field, raw string) query.Query {
	if raw == "" {
		return q
	}
	op, items := ParseOperatorAndItems(raw)
	preds := make([]filter.Predicate, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		preds = append(preds, filter.Tag(field, item))
	}
	if len(preds) == 0 {
		return q
	}
	return q.Where(filter.Group(op, preds...))
}

// ByAddress requires every address component tag of the raw JSON address.
// An explicit empty component list means "remote" and, when remoteFallback is
// set, keeps only documents that can be done remotely.
func ByAddress(q query.Query, raw string, remoteFallback bool) (query.Query, error) {
	if raw == "" {
		return q, nil
	}
	f, err := address.ParseFilter(raw)
	if err != nil {
		return q, err
	}
	if !f.Present {
		return q, nil
	}
	if f.RemoteOnly() {
		if remoteFallback {
			return q.Where(filter.Flag(entity.FlagCanBeDoneRemotely, true)), nil
		}
		return q, nil
	}
	return q.Where(filter.AllTags(document.FieldAddressComponents, f.Tags)), nil
}
