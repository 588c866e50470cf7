package transform

import (
	"fmt"
	"strings"
)

// Candidate is a partially built canonical record: the mapped and coerced
// field values plus the raw fields the source's mapping did not consume.
type Candidate struct {
	Source string
	Fields map[string]interface{}
	Other  map[string]interface{}
}

// MissingFieldError rejects a record whose mapping references absent source
// fields that populate required canonical fields. The record never reaches
// validation.
type MissingFieldError struct {
	Source string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record from source %s is missing mapped fields: %s", e.Source, strings.Join(e.Fields, ", "))
}

// MissingRequiredFieldError rejects a candidate that lacks a required
// canonical field at validation time.
type MissingRequiredFieldError struct {
	Source string
	Field  string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %s in record from source %s", e.Field, e.Source)
}
