// Package document defines the denormalized projection of an entity that the
// search index stores and filters on.
package document

import (
	"maps"
	"slices"
	"time"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/address"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
)

// Indexed field names shared by every kind.
const (
	FieldName              = "name"
	FieldText              = "text"
	FieldCauses            = "causes"
	FieldSkills            = "skills"
	FieldAddressComponents = "address_components"
	FieldCreatedAt         = "created_at"
)

// Source is implemented by every entity that has a search document.
type Source interface {
	DocumentID() int64
	DocumentName() string
	DocumentText() string
	DocumentCreatedAt() time.Time
	Indexable() bool
}

// HasCauses is implemented by entities tagged with causes.
type HasCauses interface {
	CauseIDs() []int64
}

// HasSkills is implemented by entities tagged with skills.
type HasSkills interface {
	SkillIDs() []int64
}

// HasAddressComponents is implemented by entities located at an address.
type HasAddressComponents interface {
	AddressComponents() []entity.AddressComponent
}

// HasFlags is implemented by entities with boolean facets.
type HasFlags interface {
	SearchFlags() map[string]bool
}

// Document is the search projection of one entity (immutable value object).
type Document struct {
	kind              domain.Kind
	id                int64
	name              string
	text              string
	causes            []int64
	skills            []int64
	addressComponents []string
	flags             map[string]bool
	createdAt         int64
}

// Build projects src into a Document. Tag lists are sorted and deduplicated
// so that rebuilding an unchanged entity yields an identical document.
func Build(kind domain.Kind, src Source) Document {
	d := Document{
		kind:      kind,
		id:        src.DocumentID(),
		name:      src.DocumentName(),
		text:      src.DocumentText(),
		flags:     map[string]bool{},
		createdAt: src.DocumentCreatedAt().Unix(),
	}
	if c, ok := src.(HasCauses); ok {
		d.causes = normalizeIDs(c.CauseIDs())
	}
	if s, ok := src.(HasSkills); ok {
		d.skills = normalizeIDs(s.SkillIDs())
	}
	if a, ok := src.(HasAddressComponents); ok {
		d.addressComponents = address.Tags(a.AddressComponents())
		slices.Sort(d.addressComponents)
	}
	if f, ok := src.(HasFlags); ok {
		maps.Copy(d.flags, f.SearchFlags())
	}
	return d
}

// Reconstruct creates a Document without normalization (storage hydration).
func Reconstruct(
	kind domain.Kind, id int64, name, text string,
	causes, skills []int64, addressComponents []string,
	flags map[string]bool, createdAt int64,
) Document {
	return Document{
		kind: kind, id: id, name: name, text: text,
		causes: causes, skills: skills, addressComponents: addressComponents,
		flags: flags, createdAt: createdAt,
	}
}

// Kind returns the entity kind.
func (d Document) Kind() domain.Kind { return d.kind }

// ID returns the entity primary key.
func (d Document) ID() int64 { return d.id }

// Name returns the indexed name.
func (d Document) Name() string { return d.name }

// Text returns the free-text blob.
func (d Document) Text() string { return d.text }

// Causes returns the sorted cause ids.
func (d Document) Causes() []int64 { return d.causes }

// Skills returns the sorted skill ids.
func (d Document) Skills() []int64 { return d.skills }

// AddressComponents returns the sorted "<long_name>-<type>" tags.
func (d Document) AddressComponents() []string { return d.addressComponents }

// Flags returns the boolean facets.
func (d Document) Flags() map[string]bool { return d.flags }

// Flag returns a single boolean facet (false when absent).
func (d Document) Flag(name string) bool { return d.flags[name] }

// CreatedAt returns the creation time as unix seconds.
func (d Document) CreatedAt() int64 { return d.createdAt }

func normalizeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// FlagFields lists the boolean facets indexed for a kind.
func FlagFields(kind domain.Kind) []string {
	switch kind {
	case domain.KindProject:
		return []string{
			entity.FlagPublished, entity.FlagHighlighted, entity.FlagDeleted,
			entity.FlagClosed, entity.FlagCanBeDoneRemotely,
		}
	case domain.KindOrganization:
		return []string{entity.FlagPublished, entity.FlagHighlighted, entity.FlagDeleted}
	default:
		return nil
	}
}
