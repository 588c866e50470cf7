package transform

import (
	"log/slog"

	"github.com/lysyi3m/listing-comb/app/database"
)

// Validator checks candidates against the full canonical field registry and
// builds the final listing. It runs on every batch before a write, so a
// candidate assembled elsewhere gets the same coercion rules as one built by
// the Mapper; transforms are idempotent, applying them twice is harmless.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Run validates one candidate. A missing required field rejects the record;
// a failed coercion degrades that field to its default (or leaves it unset)
// without rejecting the record, unless the field is required and has no
// default.
func (v *Validator) Run(candidate *Candidate) (*database.Listing, error) {
	fields := make(map[string]interface{}, len(candidate.Fields))

	for name, def := range canonicalFields {
		value, ok := candidate.Fields[name]
		if !ok {
			if def.Required {
				return nil, &MissingRequiredFieldError{Source: candidate.Source, Field: name}
			}
			continue
		}

		if def.Transform != nil {
			coerced, err := def.Transform(value, nil)
			if err != nil {
				slog.Warn("Error transforming field", "source", candidate.Source, "field", name, "error", err)
				if def.HasDefault {
					fields[name] = def.Default
					continue
				}
				if def.Required {
					return nil, &MissingRequiredFieldError{Source: candidate.Source, Field: name}
				}
				continue
			}
			value = coerced
		}

		fields[name] = value
	}

	listing := &database.Listing{
		Source: candidate.Source,
		Other:  candidate.Other,
	}
	if listing.Other == nil {
		listing.Other = map[string]interface{}{}
	}

	for name, value := range fields {
		switch name {
		case "id":
			listing.ID, _ = value.(string)
		case "name":
			listing.Name, _ = value.(string)
		case "city":
			listing.City, _ = value.(string)
		case "country":
			listing.Country, _ = value.(string)
		case "isAvailable":
			listing.IsAvailable, _ = value.(bool)
		case "pricePerNight":
			listing.PricePerNight, _ = value.(float64)
		case "priceSegment":
			listing.PriceSegment, _ = value.(string)
		}
	}

	return listing, nil
}
