package property

// Filter narrows a listing view. Nil fields mean no constraint; a zero
// value behind a pointer is still a constraint, except Bedrooms where
// values <= 0 also mean unconstrained.
type Filter struct {
	City         *string
	PropertyType *Type
	Bedrooms     *int // minimum, inclusive
	Featured     *bool
	MinPrice     *float64 // inclusive
	MaxPrice     *float64 // inclusive
}

// Equal reports whether two filters constrain the same result set.
func (f Filter) Equal(other Filter) bool {
	return eqPtr(f.City, other.City) &&
		eqPtr(f.PropertyType, other.PropertyType) &&
		eqBedrooms(f.Bedrooms, other.Bedrooms) &&
		eqPtr(f.Featured, other.Featured) &&
		eqPtr(f.MinPrice, other.MinPrice) &&
		eqPtr(f.MaxPrice, other.MaxPrice)
}

// MinBedrooms returns the effective bedroom floor, or 0 when the field
// is absent or non-positive.
func (f Filter) MinBedrooms() int {
	if f.Bedrooms == nil || *f.Bedrooms <= 0 {
		return 0
	}
	return *f.Bedrooms
}

// WithinPriceBounds reports whether p satisfies MinPrice and MaxPrice.
// These two predicates are never part of the store query; every
// snapshot is re-checked against them locally.
func (f Filter) WithinPriceBounds(p Property) bool {
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// ApplyPriceBounds returns the subset of list inside the price bounds,
// preserving order. The input slice is not modified.
func (f Filter) ApplyPriceBounds(list []Property) []Property {
	if f.MinPrice == nil && f.MaxPrice == nil {
		return list
	}
	out := make([]Property, 0, len(list))
	for _, p := range list {
		if f.WithinPriceBounds(p) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p satisfies every predicate of the filter,
// server-side and local alike.
func (f Filter) Matches(p Property) bool {
	if f.City != nil && p.Location.City != *f.City {
		return false
	}
	if f.PropertyType != nil && p.Specifications.PropertyType != *f.PropertyType {
		return false
	}
	if min := f.MinBedrooms(); min > 0 && p.Specifications.Bedrooms < min {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	return f.WithinPriceBounds(p)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqBedrooms(a, b *int) bool {
	// 0, negative and absent all mean "no floor".
	norm := func(p *int) int {
		if p == nil || *p <= 0 {
			return 0
		}
		return *p
	}
	return norm(a) == norm(b)
}
