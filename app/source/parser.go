package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const defaultBatchSize = 1000

// BatchReader incrementally consumes a byte stream holding a single top-level
// JSON array and hands its elements out in bounded batches. Memory use scales
// with one batch, not with the payload. A BatchReader is single-use: it is
// backed by the stream and cannot be restarted; callers must drain it before
// releasing the underlying stream.
type BatchReader struct {
	dec       *json.Decoder
	batchSize int
	started   bool
	done      bool
}

func NewBatchReader(r io.Reader, batchSize int) *BatchReader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &BatchReader{
		dec:       json.NewDecoder(r),
		batchSize: batchSize,
	}
}

// Next returns the next batch of raw records. The final batch may be smaller
// than the configured batch size; io.EOF signals a fully drained stream.
// A syntax error anywhere fails the stream with MalformedPayloadError, while
// an element that is not a JSON object is logged and skipped.
func (b *BatchReader) Next() ([]Record, error) {
	if b.done {
		return nil, io.EOF
	}

	if !b.started {
		tok, err := b.dec.Token()
		if err != nil {
			b.done = true
			return nil, &MalformedPayloadError{Err: err}
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			b.done = true
			return nil, &MalformedPayloadError{Err: fmt.Errorf("expected top-level array, got %v", tok)}
		}
		b.started = true
	}

	batch := make([]Record, 0, b.batchSize)
	for b.dec.More() {
		var record Record
		if err := b.dec.Decode(&record); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				slog.Warn("Skipping non-object array element", "offset", b.dec.InputOffset(), "error", err)
				continue
			}
			b.done = true
			return nil, &MalformedPayloadError{Err: err}
		}

		batch = append(batch, record)
		if len(batch) >= b.batchSize {
			return batch, nil
		}
	}

	// Consume the closing bracket; anything else means a truncated or
	// corrupt container.
	if _, err := b.dec.Token(); err != nil {
		b.done = true
		return nil, &MalformedPayloadError{Err: err}
	}

	b.done = true
	if len(batch) > 0 {
		return batch, nil
	}
	return nil, io.EOF
}
