// Package gateway binds one entity schema to one store collection. Every
// write is validated before it is persisted and every read result is
// validated before it reaches a repository. The gateway carries no
// cross-entity logic; referential and denormalization rules live one layer up.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/garnizeh/dayhire/internal/apperror"
	"github.com/garnizeh/dayhire/internal/schema"
	"github.com/garnizeh/dayhire/internal/store"
)

// Item is one decoded entity plus the store's insertion sequence. Most
// callers only need Value; the message repository uses Seq as the stable
// tiebreak when ordering by timestamp.
type Item[T any] struct {
	Seq   int64
	Value T
}

// Gateway is the generic read/write primitive bound to one schema and one
// collection.
type Gateway[T any] struct {
	store      store.Store
	schema     *schema.EntitySchema
	collection string
}

func New[T any](st store.Store, es *schema.EntitySchema, collection string) *Gateway[T] {
	return &Gateway[T]{store: st, schema: es, collection: collection}
}

// Collection returns the bound collection name.
func (g *Gateway[T]) Collection() string { return g.collection }

// Get returns the entity for id, or (nil, nil) when absent: absence is a
// normal outcome, many callers probe for optional relations.
func (g *Gateway[T]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := g.store.Get(ctx, g.collection, id)
	if err != nil {
		return nil, g.wrap("get", err)
	}
	if raw == nil {
		return nil, nil
	}

	validated, err := g.schema.ValidateForRead(ctx, raw, id)
	if err != nil {
		return nil, err
	}

	v, err := decode[T](validated)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", g.collection, id, err)
	}

	return v, nil
}

// GetAll returns every entity in the collection in insertion order.
func (g *Gateway[T]) GetAll(ctx context.Context) ([]Item[T], error) {
	docs, err := g.store.GetAll(ctx, g.collection)
	if err != nil {
		return nil, g.wrap("get all", err)
	}
	return g.decodeDocs(ctx, docs)
}

// FindEqual returns the entities whose field equals value, in insertion order.
func (g *Gateway[T]) FindEqual(ctx context.Context, field string, value any) ([]Item[T], error) {
	docs, err := g.store.FindEqual(ctx, g.collection, field, value)
	if err != nil {
		return nil, g.wrap("find", err)
	}
	return g.decodeDocs(ctx, docs)
}

// Create validates the candidate, applies schema defaults and persists it
// under a store-assigned id.
func (g *Gateway[T]) Create(ctx context.Context, candidate map[string]any) (string, error) {
	return g.create(ctx, "", candidate)
}

// CreateWithID persists under a caller-supplied id. Used for entities keyed
// by the auth boundary's opaque user id.
func (g *Gateway[T]) CreateWithID(ctx context.Context, id string, candidate map[string]any) (string, error) {
	return g.create(ctx, id, candidate)
}

func (g *Gateway[T]) create(ctx context.Context, id string, candidate map[string]any) (string, error) {
	normalized, err := g.schema.ValidateForWrite(ctx, candidate)
	if err != nil {
		return "", err
	}

	newID, err := g.store.Create(ctx, g.collection, id, normalized)
	if err != nil {
		return "", g.wrap("create", err)
	}

	return newID, nil
}

// UpdateFields merges fields into the stored document after validating that
// the merged result still satisfies the schema. The read-merge-write is not
// atomic: a concurrent writer can still interleave (last-writer-wins).
func (g *Gateway[T]) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if err := g.validateMerged(ctx, id, fields); err != nil {
		return err
	}
	if err := g.store.UpdateFields(ctx, g.collection, id, fields); err != nil {
		return g.wrap("update", err)
	}
	return nil
}

// UpdateFieldsChecked is the opt-in optimistic variant: the merge is applied
// only when the stored guardField still equals expected. Returns false on a
// guard mismatch.
func (g *Gateway[T]) UpdateFieldsChecked(ctx context.Context, id string, fields map[string]any, guardField string, expected any) (bool, error) {
	if err := g.validateMerged(ctx, id, fields); err != nil {
		return false, err
	}
	ok, err := g.store.UpdateFieldsChecked(ctx, g.collection, id, fields, guardField, expected)
	if err != nil {
		return false, g.wrap("checked update", err)
	}
	return ok, nil
}

// Delete removes the document. Deleting an absent id is not an error.
func (g *Gateway[T]) Delete(ctx context.Context, id string) error {
	if err := g.store.Delete(ctx, g.collection, id); err != nil {
		return g.wrap("delete", err)
	}
	return nil
}

func (g *Gateway[T]) validateMerged(ctx context.Context, id string, fields map[string]any) error {
	if _, ok := fields["id"]; ok {
		return apperror.Validation(g.schema.Name(), "id", "id cannot be updated")
	}

	current, err := g.store.Get(ctx, g.collection, id)
	if err != nil {
		return g.wrap("update", err)
	}
	if current == nil {
		return fmt.Errorf("update %s/%s: %w", g.collection, id, store.ErrNoDocument)
	}

	merged := make(map[string]any, len(current)+len(fields))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	if _, err := g.schema.ValidateForWrite(ctx, merged); err != nil {
		return err
	}

	return nil
}

func (g *Gateway[T]) decodeDocs(ctx context.Context, docs []store.Document) ([]Item[T], error) {
	out := make([]Item[T], 0, len(docs))
	for _, doc := range docs {
		validated, err := g.schema.ValidateForRead(ctx, doc.Data, doc.ID)
		if err != nil {
			return nil, err
		}

		v, err := decode[T](validated)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", g.collection, doc.ID, err)
		}

		out = append(out, Item[T]{Seq: doc.Seq, Value: *v})
	}

	return out, nil
}

// wrap converts transport failures into the store-unavailable taxonomy while
// letting the no-document sentinel pass through for repositories to inspect.
func (g *Gateway[T]) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNoDocument) {
		return err
	}
	return &apperror.StoreUnavailableError{Op: g.collection + " " + op, Err: err}
}

func decode[T any](data map[string]any) (*T, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ToDocument converts a typed entity into the plain keyed structure the
// gateway accepts for writes, dropping an empty id.
func ToDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if id, ok := doc["id"].(string); ok && id == "" {
		delete(doc, "id")
	}
	return doc, nil
}
