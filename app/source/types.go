package source

import (
	"fmt"
)

// Record is one raw element of a source's data file, before any mapping.
type Record map[string]interface{}

// MalformedPayloadError means the payload's container format is unreadable.
// It is fatal to the whole stream; individual bad elements inside a
// well-formed array are skipped instead.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// UnavailableError means a source's data file could not be opened or read.
// The reader performs no retries; the error is fatal to that source only.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
