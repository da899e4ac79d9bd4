package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for taxonomy checks via errors.Is.
var (
	// ErrNotFound marks a mutation that targets a record that does not exist.
	// Reads report absence as (nil, nil) instead.
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrCorruptRecord    = errors.New("corrupt record")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConflict         = errors.New("version conflict")
	ErrForbidden        = errors.New("forbidden")
)

// ValidationError reports a candidate write that violates an entity schema.
// It is never persisted; Fields maps a field path to a human-readable message
// so callers can render errors per field.
type ValidationError struct {
	Entity string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: validation failed", e.Entity)
	}
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, p := range paths {
		parts = append(parts, p+": "+e.Fields[p])
	}
	return fmt.Sprintf("%s: validation failed: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a single-field ValidationError.
func Validation(entity, field, message string) *ValidationError {
	return &ValidationError{Entity: entity, Fields: map[string]string{field: message}}
}

// CorruptRecordError reports a persisted record that no longer satisfies the
// current schema. It must be surfaced, not coerced: silent coercion would hide
// data loss from schema evolution.
type CorruptRecordError struct {
	Collection string
	ID         string
	Fields     map[string]string
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record %s/%s: %d field(s) no longer valid", e.Collection, e.ID, len(e.Fields))
}

func (e *CorruptRecordError) Unwrap() error { return ErrCorruptRecord }

// StoreUnavailableError wraps a transport or connectivity failure from the
// underlying store. It is propagated unchanged; retry policy belongs to the
// caller.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return ErrStoreUnavailable }

// ConflictError reports an optimistic-concurrency check failure on an opt-in
// versioned update. The default write path never produces it.
type ConflictError struct {
	Collection string
	ID         string
	Expected   int64
	Actual     int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s/%s: version conflict: expected %d, stored %d", e.Collection, e.ID, e.Expected, e.Actual)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Forbidden reports an operation the caller's role does not permit.
func Forbidden(message string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, message)
}
