package database

import (
	"time"
)

// Listing is the unified, source-independent representation of one property
// listing. Exactly one row exists per distinct ID; rows are never updated
// after insertion.
type Listing struct {
	ID            string
	Name          string
	City          string
	Country       string
	IsAvailable   bool
	PricePerNight float64
	PriceSegment  string // low, medium, high; empty when unset
	Other         map[string]interface{}
	Source        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListingFilter narrows read queries. Zero values mean "no constraint";
// pointer fields distinguish "unset" from a legitimate zero.
type ListingFilter struct {
	City         string
	Country      string
	IsAvailable  *bool
	PriceSegment string
	MinPrice     *float64
	MaxPrice     *float64
	Source       string
}
