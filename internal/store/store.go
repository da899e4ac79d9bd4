package store

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by write primitives that target an id with no
// stored document. Reads report absence as (nil, nil) instead.
var ErrNoDocument = errors.New("no such document")

// Document is one raw record from a collection. Seq is the store's monotonic
// insertion counter; callers that order by a timestamp field use it as the
// stable tiebreak.
type Document struct {
	ID   string
	Seq  int64
	Data map[string]any
}

// Store is the abstract document store the gateway binds to: get/set/query by
// id and by indexed field, nothing more. No joins, no transactions, no
// server-side aggregation. It is an injected dependency so tests can
// substitute a fake.
type Store interface {
	// Get returns the document data for id, or (nil, nil) when absent.
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	// GetAll returns every document in the collection in insertion order.
	GetAll(ctx context.Context, collection string) ([]Document, error)
	// FindEqual returns documents whose top-level field equals value, in
	// insertion order.
	FindEqual(ctx context.Context, collection, field string, value any) ([]Document, error)
	// Create persists data under id, or under a newly assigned id when id is
	// empty. Returns the id the document was stored under.
	Create(ctx context.Context, collection, id string, data map[string]any) (string, error)
	// UpdateFields merges fields into the stored document.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error
	// UpdateFieldsChecked merges fields only when the stored guardField still
	// equals expected. Returns false when the guard did not match.
	UpdateFieldsChecked(ctx context.Context, collection, id string, fields map[string]any, guardField string, expected any) (bool, error)
	// Delete removes the document. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error

	Close() error
}
