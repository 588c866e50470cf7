package api

import (
	"time"

	"github.com/lysyi3m/listing-comb/app/config"
	"github.com/lysyi3m/listing-comb/app/database"
	"github.com/lysyi3m/listing-comb/app/ingest"
)

type Handler struct {
	repo         database.ListingRepository
	configs      *config.Cache
	orchestrator *ingest.Orchestrator
}

// ListingResponse is the wire shape of one canonical listing.
type ListingResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name,omitempty"`
	City          string                 `json:"city"`
	Country       string                 `json:"country,omitempty"`
	IsAvailable   bool                   `json:"isAvailable"`
	PricePerNight float64                `json:"pricePerNight"`
	PriceSegment  string                 `json:"priceSegment,omitempty"`
	Other         map[string]interface{} `json:"other"`
	Source        string                 `json:"source"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// PaginatedListingsResponse wraps a filtered page of listings.
type PaginatedListingsResponse struct {
	Data       []ListingResponse `json:"data"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}
