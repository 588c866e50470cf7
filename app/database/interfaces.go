package database

type ListingRepository interface {
	GetExistingIDs(ids []string) (map[string]bool, error)
	InsertListing(listing Listing) error

	CountListings(filter ListingFilter) (int, error)
	FindListings(filter ListingFilter, offset, limit int) ([]Listing, error)

	GetListingCount() (int, error)
	GetSourceCounts() (map[string]int, error)
}
