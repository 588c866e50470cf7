package ingest

import (
	"fmt"
	"log/slog"

	"github.com/lysyi3m/listing-comb/app/database"
)

type FailedWrite struct {
	ID     string
	Reason string
}

// WriteResult is the per-batch outcome: how many records were inserted, how
// many were suppressed as already stored, and which individual writes failed.
type WriteResult struct {
	Inserted        int
	SkippedExisting int
	Failed          []FailedWrite
}

// Writer persists batches of canonical listings with deduplication. It first
// asks the store which ids already exist, inserts only the new records, and
// reports partial success instead of aborting the batch. The check-then-insert
// pair leaves a narrow race window under concurrent writers; the store's
// unique constraint is the final authority, and losing that race degrades the
// record to skipped.
type Writer struct {
	repo database.ListingRepository
}

func NewWriter(repo database.ListingRepository) *Writer {
	return &Writer{repo: repo}
}

// Run writes one batch. An existence-check failure is fatal to the batch;
// individual insert failures are collected per record and never abort the
// remaining inserts.
func (w *Writer) Run(batch []database.Listing) (*WriteResult, error) {
	result := &WriteResult{}
	if len(batch) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(batch))
	for _, listing := range batch {
		ids = append(ids, listing.ID)
	}

	existing, err := w.repo.GetExistingIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing ids: %w", err)
	}

	newListings := make([]database.Listing, 0, len(batch))
	for _, listing := range batch {
		if existing[listing.ID] {
			result.SkippedExisting++
			continue
		}
		newListings = append(newListings, listing)
	}

	if len(newListings) == 0 {
		slog.Debug("All records in batch already exist", "batch", len(batch))
		return result, nil
	}

	for _, listing := range newListings {
		if err := w.repo.InsertListing(listing); err != nil {
			if database.IsUniqueViolation(err) {
				// A concurrent writer inserted the same id between the
				// existence check and this insert.
				slog.Debug("Listing inserted concurrently, skipping", "id", listing.ID, "source", listing.Source)
				result.SkippedExisting++
				continue
			}

			slog.Error("Failed to insert listing", "id", listing.ID, "source", listing.Source, "error", err)
			result.Failed = append(result.Failed, FailedWrite{ID: listing.ID, Reason: err.Error()})
			continue
		}
		result.Inserted++
	}

	return result, nil
}
