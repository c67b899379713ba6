package entity

import "time"

// Profile is the volunteer-facing part of a user account.
type Profile struct {
	Public    bool     `json:"public"`
	About     string   `json:"about"`
	AddressID *int64   `json:"-"`
	Address   *Address `json:"address,omitempty"`
	Causes    []Cause  `json:"causes"`
	Skills    []Skill  `json:"skills"`
}

// User is a platform account. Profile is nil when the user never filled one in.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_date"`
	Profile   *Profile  `json:"profile,omitempty"`
}

// Indexable reports whether the user belongs in the search index (always).
func (u *User) Indexable() bool { return true }

// DocumentID returns the primary key.
func (u *User) DocumentID() int64 { return u.ID }

// DocumentName returns the name field.
func (u *User) DocumentName() string { return u.Name }

// DocumentText returns the free-text blob.
func (u *User) DocumentText() string {
	if u.Profile == nil {
		return joinText(u.Name)
	}
	return joinText(u.Name, u.Profile.About)
}

// DocumentCreatedAt returns the creation time.
func (u *User) DocumentCreatedAt() time.Time { return u.CreatedAt }

// CauseIDs returns the profile cause ids (none without a profile).
func (u *User) CauseIDs() []int64 {
	if u.Profile == nil {
		return nil
	}
	return CauseIDs(u.Profile.Causes)
}

// SkillIDs returns the profile skill ids (none without a profile).
func (u *User) SkillIDs() []int64 {
	if u.Profile == nil {
		return nil
	}
	return SkillIDs(u.Profile.Skills)
}

// AddressComponents returns the geocoded components of the profile address.
func (u *User) AddressComponents() []AddressComponent {
	if u.Profile == nil || u.Profile.Address == nil {
		return nil
	}
	return u.Profile.Address.Components
}

// IsPublic reports whether the user may appear in search results.
func (u *User) IsPublic() bool { return u.Profile != nil && u.Profile.Public }
