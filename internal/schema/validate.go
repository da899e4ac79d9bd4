package schema

import (
	"context"
	"maps"

	"github.com/garnizeh/dayhire/internal/apperror"
)

// ValidateForWrite checks a candidate document against the schema before it is
// persisted. It rejects a caller-supplied id, applies declared defaults for
// omitted optional fields, and returns the normalized copy. The candidate map
// is never mutated. Failures carry field paths in a ValidationError and are
// never persisted.
func (es *EntitySchema) ValidateForWrite(ctx context.Context, candidate map[string]any) (map[string]any, error) {
	if _, ok := candidate["id"]; ok {
		return nil, apperror.Validation(es.name, "id", "id is assigned by the store and must not be supplied")
	}

	normalized := make(map[string]any, len(candidate)+len(es.defaults))
	maps.Copy(normalized, candidate)
	for field, def := range es.defaults {
		if _, ok := normalized[field]; !ok {
			normalized[field] = def
		}
	}

	fields, err := es.validate(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, &apperror.ValidationError{Entity: es.name, Fields: fields}
	}

	return normalized, nil
}

// ValidateForRead merges the store-assigned id into a raw document and checks
// the result against the current schema. A persisted record that no longer
// validates surfaces a CorruptRecordError rather than being coerced or
// dropped: coercion would hide data loss from schema evolution.
func (es *EntitySchema) ValidateForRead(ctx context.Context, raw map[string]any, id string) (map[string]any, error) {
	merged := make(map[string]any, len(raw)+1)
	maps.Copy(merged, raw)
	merged["id"] = id

	fields, err := es.validate(ctx, merged)
	if err != nil {
		return nil, err
	}
	if id == "" {
		if fields == nil {
			fields = make(map[string]string, 1)
		}
		fields["id"] = "store-assigned id is missing"
	}
	if len(fields) > 0 {
		return nil, &apperror.CorruptRecordError{Collection: es.name, ID: id, Fields: fields}
	}

	return merged, nil
}
