package property

import "time"

// Type classifies a listing.
type Type string

const (
	TypeHouse      Type = "house"
	TypeCondo      Type = "condo"
	TypeTownhouse  Type = "townhouse"
	TypeLand       Type = "land"
	TypeCommercial Type = "commercial"
)

// Status is the sales state of a listing.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
)

// Location is the street address and coordinates of a property.
type Location struct {
	Address string
	City    string
	State   string
	ZipCode string
	Lat     float64
	Lng     float64
}

// Specifications describe the physical characteristics of a property.
// Bedrooms, Bathrooms and Sqft are always present; LotSize and
// YearBuilt are optional.
type Specifications struct {
	Bedrooms     int
	Bathrooms    float64
	Sqft         int
	LotSize      *int
	YearBuilt    *int
	PropertyType Type
}

// Property is the domain representation of a listing. It mirrors the
// properties table and carries no JSON annotations so it can be reused
// by different presentation layers.
type Property struct {
	ID             string
	Title          string
	Description    string
	Price          float64
	Location       Location
	Specifications Specifications
	Images         []string
	VideoURL       *string
	VirtualTourURL *string
	Amenities      []string
	Status         Status
	Featured       bool
	AgentID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ViewCount      int
}

// ValidType reports whether t is a known property type.
func ValidType(t Type) bool {
	switch t {
	case TypeHouse, TypeCondo, TypeTownhouse, TypeLand, TypeCommercial:
		return true
	default:
		return false
	}
}

// ValidStatus reports whether s is a known listing status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusPending, StatusSold:
		return true
	default:
		return false
	}
}
