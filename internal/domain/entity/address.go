package entity

// AddressComponent is one geocoded part of an address (city, state, country...).
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Address is a geocoded location shared by projects, organizations and profiles.
type Address struct {
	ID           int64              `json:"id"`
	TypedAddress string             `json:"typed_address"`
	Components   []AddressComponent `json:"address_components"`
}
