package inventory

import "time"

type Sweet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter selects sweets. Name and Category match case-insensitive
// substrings; the price bounds are inclusive and ignored when nil.
type Filter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (f Filter) matches(s *Sweet) bool {
	if f.Name != "" && !containsFold(s.Name, f.Name) {
		return false
	}
	if f.Category != "" && !containsFold(s.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && s.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && s.Price > *f.MaxPrice {
		return false
	}
	return true
}
