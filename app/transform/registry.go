package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lysyi3m/listing-comb/app/source"
)

type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
)

// TransformFunc coerces a raw value into its canonical form. The full raw
// record is passed so a field's coercion may depend on sibling data.
// Transforms are idempotent: applying one to an already-coerced value yields
// the same value.
type TransformFunc func(value interface{}, record source.Record) (interface{}, error)

// FieldDefinition is one entry of the canonical field registry, the single
// source of truth for coercion rules. A failed transform degrades the field
// to Default when HasDefault is set.
type FieldDefinition struct {
	Type       FieldType
	Required   bool
	Transform  TransformFunc
	Default    interface{}
	HasDefault bool
}

var canonicalFields = map[string]FieldDefinition{
	"id": {
		Type:      FieldTypeString,
		Required:  true,
		Transform: coerceID,
	},
	"city": {
		Type:      FieldTypeString,
		Required:  true,
		Transform: coerceTrimmedString,
	},
	"name": {
		Type:      FieldTypeString,
		Required:  false,
		Transform: coerceTrimmedString,
	},
	"country": {
		Type:      FieldTypeString,
		Required:  false,
		Transform: coerceTrimmedString,
	},
	"isAvailable": {
		Type:      FieldTypeBoolean,
		Required:  true,
		Transform: coerceBool,
	},
	"pricePerNight": {
		Type:      FieldTypeNumber,
		Required:  true,
		Transform: coercePrice,
	},
	"priceSegment": {
		Type:       FieldTypeString,
		Required:   false,
		Transform:  coerceSegment,
		Default:    "medium",
		HasDefault: true,
	},
}

// stringify renders scalar values the way the canonical schema expects.
// Composite values cannot be coerced to a string and report an error so the
// field can degrade to its default.
func stringify(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("cannot coerce %T to string", value)
	}
}

func coerceID(value interface{}, _ source.Record) (interface{}, error) {
	s, err := stringify(value)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func coerceTrimmedString(value interface{}, _ source.Record) (interface{}, error) {
	s, err := stringify(value)
	if err != nil {
		return nil, err
	}
	return strings.TrimSpace(s), nil
}

func coerceBool(value interface{}, _ source.Record) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		lower := strings.ToLower(v)
		return lower == "true" || lower == "yes" || lower == "1", nil
	case float64:
		return v == 1, nil
	case int:
		return v == 1, nil
	case int64:
		return v == int64(1), nil
	default:
		return false, nil
	}
}

func coercePrice(value interface{}, _ source.Record) (interface{}, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, v)
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return float64(0), nil
		}
		return num, nil
	default:
		return float64(0), nil
	}
}

func coerceSegment(value interface{}, _ source.Record) (interface{}, error) {
	s, err := stringify(value)
	if err != nil {
		return "medium", nil
	}

	normalized := strings.ToLower(s)
	switch normalized {
	case "low", "medium", "high":
		return normalized, nil
	default:
		return "medium", nil
	}
}
