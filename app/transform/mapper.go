package transform

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lysyi3m/listing-comb/app/config"
	"github.com/lysyi3m/listing-comb/app/source"
)

// Mapper converts raw source records into canonical record candidates using
// the source's declared field mapping.
type Mapper struct {
	configs *config.Cache
}

func NewMapper(configs *config.Cache) *Mapper {
	return &Mapper{configs: configs}
}

// Run maps one raw record. All mapped paths are resolved before any value is
// assigned, so the record's completeness is judged in a single pass: absent
// paths feeding required canonical fields reject the whole record, absent
// paths feeding optional fields are logged and skipped.
func (m *Mapper) Run(sourceName string, record source.Record) (*Candidate, error) {
	sourceConfig, err := m.configs.Get(sourceName)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]interface{}, len(sourceConfig.Mapping))
	var missing []string
	requiredMissing := false

	for canonicalField, sourcePath := range sourceConfig.Mapping {
		value, ok := resolvePath(record, sourcePath)
		if !ok {
			missing = append(missing, fmt.Sprintf("%s (for %s)", sourcePath, canonicalField))
			if def, known := canonicalFields[canonicalField]; known && def.Required {
				requiredMissing = true
			}
			continue
		}
		resolved[canonicalField] = value
	}

	sort.Strings(missing)

	if requiredMissing {
		return nil, &MissingFieldError{Source: sourceName, Fields: missing}
	}
	if len(missing) > 0 {
		slog.Warn("Record is missing optional mapped fields", "source", sourceName, "fields", strings.Join(missing, ", "))
	}

	candidate := &Candidate{
		Source: sourceName,
		Fields: make(map[string]interface{}, len(resolved)),
	}

	for canonicalField, value := range resolved {
		def, known := canonicalFields[canonicalField]
		if !known || def.Transform == nil {
			candidate.Fields[canonicalField] = value
			continue
		}

		coerced, err := def.Transform(value, record)
		if err != nil {
			slog.Warn("Error transforming field", "source", sourceName, "field", canonicalField, "error", err)
			if def.HasDefault {
				candidate.Fields[canonicalField] = def.Default
			}
			continue
		}
		candidate.Fields[canonicalField] = coerced
	}

	candidate.Other = extractUnmappedFields(record, sourceConfig.Mapping)

	return candidate, nil
}

// resolvePath walks the raw record along a dot-delimited path. A missing
// segment at any depth yields absent, not an error.
func resolvePath(record source.Record, path string) (interface{}, bool) {
	var current interface{} = map[string]interface{}(record)

	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// extractUnmappedFields copies every top-level raw field that is neither a
// mapped source path nor an ancestor prefix of a mapped nested path. Data
// present in a source payload is never silently dropped, even when the
// source's mapping is incomplete.
func extractUnmappedFields(record source.Record, mapping map[string]string) map[string]interface{} {
	exclude := make(map[string]bool, len(mapping))
	for _, path := range mapping {
		exclude[path] = true

		parts := strings.Split(path, ".")
		for i := 1; i < len(parts); i++ {
			exclude[strings.Join(parts[:i], ".")] = true
		}
	}

	unmapped := make(map[string]interface{})
	for field, value := range record {
		if !exclude[field] {
			unmapped[field] = value
		}
	}

	return unmapped
}
