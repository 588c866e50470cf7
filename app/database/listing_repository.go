package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

var _ ListingRepository = (*SQLListingRepository)(nil)

// SQLListingRepository handles database operations for canonical listings
type SQLListingRepository struct {
	db *DB
}

func NewListingRepository(db *DB) *SQLListingRepository {
	return &SQLListingRepository{db: db}
}

// GetExistingIDs returns which of the given listing IDs are already stored.
func (r *SQLListingRepository) GetExistingIDs(ids []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(ids) == 0 {
		return existing, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(fmt.Sprintf(`SELECT id FROM listings WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		existing[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating id rows: %w", err)
	}

	return existing, nil
}

// InsertListing stores one canonical listing. Timestamps are assigned by the
// database; the unique constraint on id is the final dedup authority.
func (r *SQLListingRepository) InsertListing(listing Listing) error {
	other := listing.Other
	if other == nil {
		other = map[string]interface{}{}
	}
	otherJSON, err := json.Marshal(other)
	if err != nil {
		return fmt.Errorf("failed to marshal other fields: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO listings (
			id, name, city, country, is_available,
			price_per_night, price_segment, other, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, listing.ID, nullString(listing.Name), listing.City, nullString(listing.Country),
		listing.IsAvailable, listing.PricePerNight, nullString(listing.PriceSegment),
		string(otherJSON), listing.Source)

	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}

	return nil
}

// CountListings returns the number of listings matching the filter.
func (r *SQLListingRepository) CountListings(filter ListingFilter) (int, error) {
	where, args := buildFilter(filter)

	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM listings`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// FindListings returns the listings matching the filter, ordered by creation
// time then id for stable pagination.
func (r *SQLListingRepository) FindListings(filter ListingFilter, offset, limit int) ([]Listing, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)

	rows, err := r.db.Query(`
		SELECT id, COALESCE(name, ''), city, COALESCE(country, ''),
		       is_available, price_per_night, COALESCE(price_segment, ''),
		       other, source, created_at, updated_at
		FROM listings`+where+`
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var listing Listing
		var otherJSON string
		err := rows.Scan(
			&listing.ID, &listing.Name, &listing.City, &listing.Country,
			&listing.IsAvailable, &listing.PricePerNight, &listing.PriceSegment,
			&otherJSON, &listing.Source, &listing.CreatedAt, &listing.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}

		if err := json.Unmarshal([]byte(otherJSON), &listing.Other); err != nil {
			return nil, fmt.Errorf("failed to unmarshal other fields for listing %s: %w", listing.ID, err)
		}

		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}

	return listings, nil
}

// GetListingCount returns the total number of stored listings.
func (r *SQLListingRepository) GetListingCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get listing count: %w", err)
	}
	return count, nil
}

// GetSourceCounts returns the number of stored listings per source.
func (r *SQLListingRepository) GetSourceCounts() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT source, COUNT(*) FROM listings GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to get source counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts[source] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source count rows: %w", err)
	}

	return counts, nil
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// i.e. an insert raced with an already-present id.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func buildFilter(filter ListingFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if filter.City != "" {
		clauses = append(clauses, "city = ?")
		args = append(args, filter.City)
	}
	if filter.Country != "" {
		clauses = append(clauses, "country = ?")
		args = append(args, filter.Country)
	}
	if filter.IsAvailable != nil {
		clauses = append(clauses, "is_available = ?")
		args = append(args, *filter.IsAvailable)
	}
	if filter.PriceSegment != "" {
		clauses = append(clauses, "price_segment = ?")
		args = append(args, filter.PriceSegment)
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, "price_per_night >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "price_per_night <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, filter.Source)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
