package entity

import "time"

// Organization is a non-profit that publishes projects.
type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	Highlighted bool      `json:"highlighted"`
	Published   bool      `json:"published"`
	Deleted     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_date"`
	AddressID   *int64    `json:"-"`
	Address     *Address  `json:"address,omitempty"`
	Causes      []Cause   `json:"causes"`
}

// Indexable reports whether the organization belongs in the search index.
func (o *Organization) Indexable() bool { return !o.Deleted }

// DocumentID returns the primary key.
func (o *Organization) DocumentID() int64 { return o.ID }

// DocumentName returns the name field.
func (o *Organization) DocumentName() string { return o.Name }

// DocumentText returns the free-text blob.
func (o *Organization) DocumentText() string {
	return joinText(o.Name, o.Description, o.Details)
}

// DocumentCreatedAt returns the creation time.
func (o *Organization) DocumentCreatedAt() time.Time { return o.CreatedAt }

// CauseIDs returns the associated cause ids.
func (o *Organization) CauseIDs() []int64 { return CauseIDs(o.Causes) }

// AddressComponents returns the geocoded components of the organization address.
func (o *Organization) AddressComponents() []AddressComponent {
	if o.Address == nil {
		return nil
	}
	return o.Address.Components
}

// SearchFlags returns the boolean facets indexed for organizations.
func (o *Organization) SearchFlags() map[string]bool {
	return map[string]bool{
		FlagPublished:   o.Published,
		FlagHighlighted: o.Highlighted,
		FlagDeleted:     o.Deleted,
	}
}
