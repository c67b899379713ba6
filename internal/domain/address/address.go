// Package address derives the geographic facet tags indexed for entities and
// parsed from the address search parameter.
package address

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/domain/entity"
)

// Component types that identify a city in geocoder output.
const (
	TypeLocality        = "locality"
	TypeAdminAreaLevel2 = "administrative_area_level_2"
	TypeCountry         = "country"
)

// Tag combines a component display name and its type: "São Paulo-locality".
func Tag(longName, componentType string) string {
	return strings.TrimSpace(fmt.Sprintf("%s-%s", longName, componentType))
}

// CountryTag is the tag that marks every document located in a country.
func CountryTag(country string) string {
	return Tag(country, TypeCountry)
}

// Tags returns one tag per (component, type) pair in first-seen order, deduplicated.
func Tags(components []entity.AddressComponent) []string {
	var tags []string
	for _, c := range components {
		for _, t := range c.Types {
			tag := Tag(c.LongName, t)
			if !slices.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// CityName returns the city encoded in a locality or second-level
// administrative area tag.
func CityName(tag string) (string, bool) {
	for _, suffix := range []string{"-" + TypeAdminAreaLevel2, "-" + TypeLocality} {
		if name, ok := strings.CutSuffix(tag, suffix); ok {
			return name, true
		}
	}
	return "", false
}

// Filter is the decoded address search parameter.
type Filter struct {
	// Present is false when the JSON object has no address_components key.
	Present bool
	// Tags are the deduplicated component tags, all required to match.
	Tags []string
}

// RemoteOnly reports an explicit empty component list, which selects remote work.
func (f Filter) RemoteOnly() bool { return f.Present && len(f.Tags) == 0 }

type rawFilter struct {
	Components *[]rawComponent `json:"address_components"`
}

type rawComponent struct {
	Types    []string `json:"types"`
	LongName string   `json:"long_name"`
}

// ParseFilter decodes `{"address_components": [{"types": [...], "long_name": "..."}]}`.
func ParseFilter(raw string) (Filter, error) {
	var rf rawFilter
	if err := json.Unmarshal([]byte(raw), &rf); err != nil {
		return Filter{}, fmt.Errorf("%w: %w", domain.ErrInvalidAddress, err)
	}
	if rf.Components == nil {
		return Filter{}, nil
	}

	components := make([]entity.AddressComponent, len(*rf.Components))
	for i, c := range *rf.Components {
		components[i] = entity.AddressComponent{LongName: c.LongName, Types: c.Types}
	}
	return Filter{Present: true, Tags: Tags(components)}, nil
}
