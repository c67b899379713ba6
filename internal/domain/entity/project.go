package entity

import (
	"strings"
	"time"
)

// Project is a volunteering opportunity.
type Project struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Details           string    `json:"details"`
	Highlighted       bool      `json:"highlighted"`
	Published         bool      `json:"published"`
	Deleted           bool      `json:"-"`
	Closed            bool      `json:"closed"`
	CanBeDoneRemotely bool      `json:"can_be_done_remotely"`
	CreatedAt         time.Time `json:"created_date"`
	OrganizationID    *int64    `json:"organization_id,omitempty"`
	OwnerID           *int64    `json:"owner_id,omitempty"`
	AddressID         *int64    `json:"-"`
	Address           *Address  `json:"address,omitempty"`
	Causes            []Cause   `json:"causes"`
	Skills            []Skill   `json:"skills"`
}

// Indexable reports whether the project belongs in the search index.
func (p *Project) Indexable() bool { return !p.Deleted && !p.Closed }

// DocumentID returns the primary key.
func (p *Project) DocumentID() int64 { return p.ID }

// DocumentName returns the name field.
func (p *Project) DocumentName() string { return p.Name }

// DocumentText returns the free-text blob.
func (p *Project) DocumentText() string {
	return joinText(p.Name, p.Description, p.Details)
}

// DocumentCreatedAt returns the creation time.
func (p *Project) DocumentCreatedAt() time.Time { return p.CreatedAt }

// CauseIDs returns the associated cause ids.
func (p *Project) CauseIDs() []int64 { return CauseIDs(p.Causes) }

// SkillIDs returns the associated skill ids.
func (p *Project) SkillIDs() []int64 { return SkillIDs(p.Skills) }

// AddressComponents returns the geocoded components of the project address.
func (p *Project) AddressComponents() []AddressComponent {
	if p.Address == nil {
		return nil
	}
	return p.Address.Components
}

// SearchFlags returns the boolean facets indexed for projects.
func (p *Project) SearchFlags() map[string]bool {
	return map[string]bool{
		FlagPublished:         p.Published,
		FlagHighlighted:       p.Highlighted,
		FlagDeleted:           p.Deleted,
		FlagClosed:            p.Closed,
		FlagCanBeDoneRemotely: p.CanBeDoneRemotely,
	}
}

func joinText(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
