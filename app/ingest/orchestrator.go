package ingest

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/listing-comb/app/config"
	"github.com/lysyi3m/listing-comb/app/database"
	"github.com/lysyi3m/listing-comb/app/source"
	"github.com/lysyi3m/listing-comb/app/transform"
)

// StreamOpener opens the byte stream for a named source's data file.
type StreamOpener interface {
	Open(ctx context.Context, sourceName, fileKey string) (io.ReadCloser, error)
}

// Orchestrator drives ingestion end-to-end: for each configured source it
// opens the stream, pulls record batches, maps and validates them, and hands
// them to the writer. One batch is in flight at a time, so memory stays
// bounded regardless of source file size.
type Orchestrator struct {
	configs   *config.Cache
	opener    StreamOpener
	mapper    *transform.Mapper
	validator *transform.Validator
	writer    *Writer
	batchSize int
	running   atomic.Bool
}

func NewOrchestrator(configs *config.Cache, opener StreamOpener, mapper *transform.Mapper,
	validator *transform.Validator, writer *Writer, batchSize int) *Orchestrator {
	return &Orchestrator{
		configs:   configs,
		opener:    opener,
		mapper:    mapper,
		validator: validator,
		writer:    writer,
		batchSize: batchSize,
	}
}

// Start launches a background sweep over all configured sources. At most one
// sweep is in flight process-wide: a start while one is running is a logged
// no-op. The caller does not wait for completion; it only learns whether a
// sweep was started.
func (o *Orchestrator) Start() bool {
	if !o.running.CompareAndSwap(false, true) {
		slog.Info("Ingestion is already running")
		return false
	}

	go func() {
		defer o.running.Store(false)
		o.sweep(context.Background())
	}()

	return true
}

// IsRunning reports whether a sweep is currently in flight.
func (o *Orchestrator) IsRunning() bool {
	return o.running.Load()
}

// sweep processes the configured sources in their declared order. One
// source's failure never aborts the sweep.
func (o *Orchestrator) sweep(ctx context.Context) {
	sources := o.configs.All()
	if len(sources) == 0 {
		slog.Info("No sources configured")
		return
	}

	start := time.Now()
	slog.Info("Ingestion sweep started", "sources", len(sources))

	for _, src := range sources {
		if err := o.processSource(ctx, src); err != nil {
			slog.Error("Failed to process source", "source", src.Name, "error", err)
			continue
		}
	}

	slog.Info("Ingestion sweep completed", "sources", len(sources), "duration", time.Since(start).Round(time.Millisecond).String())
}

func (o *Orchestrator) processSource(ctx context.Context, src *config.Source) error {
	fileKey := src.FileKey()
	if fileKey == "" {
		slog.Warn("No file key found in source URL, skipping", "source", src.Name, "url", src.URL)
		return nil
	}

	slog.Info("Processing source", "source", src.Name, "file", fileKey)

	stream, err := o.opener.Open(ctx, src.Name, fileKey)
	if err != nil {
		return err
	}
	defer stream.Close()

	batches := source.NewBatchReader(stream, o.batchSize)

	total := 0
	inserted := 0
	skipped := 0
	rejected := 0
	failed := 0

	for {
		batch, err := batches.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		total += len(batch)

		listings := make([]database.Listing, 0, len(batch))
		for _, record := range batch {
			candidate, err := o.mapper.Run(src.Name, record)
			if err != nil {
				rejected++
				slog.Warn("Record rejected by mapping", "source", src.Name, "error", err)
				continue
			}

			listing, err := o.validator.Run(candidate)
			if err != nil {
				rejected++
				slog.Warn("Record rejected by validation", "source", src.Name, "error", err)
				continue
			}

			listings = append(listings, *listing)
		}

		if len(listings) == 0 {
			continue
		}

		result, err := o.writer.Run(listings)
		if err != nil {
			return err
		}

		inserted += result.Inserted
		skipped += result.SkippedExisting
		failed += len(result.Failed)
	}

	slog.Info("Source processed",
		"source", src.Name,
		"total", total,
		"inserted", inserted,
		"skipped_existing", skipped,
		"rejected", rejected,
		"failed", failed)

	return nil
}
