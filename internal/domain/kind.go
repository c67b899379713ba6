package domain

import "fmt"

// Kind identifies a searchable entity type.
type Kind string

const (
	// KindProject is a volunteering project.
	KindProject Kind = "project"
	// KindOrganization is a non-profit organization.
	KindOrganization Kind = "organization"
	// KindUser is a platform user (searched through the public profile).
	KindUser Kind = "user"
)

// Kinds lists every searchable kind in index creation order.
func Kinds() []Kind {
	return []Kind{KindProject, KindOrganization, KindUser}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindProject, KindOrganization, KindUser:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidParameter, s)
	}
}

// Plural returns the collection name used in cache keys and routes.
func (k Kind) Plural() string {
	return string(k) + "s"
}
