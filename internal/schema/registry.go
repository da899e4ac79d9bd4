// Package schema is the validation registry: one JSON Schema per entity kind,
// embedded in the binary and compiled once. Every document crossing the
// gateway passes through here, in both directions.
package schema

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Entity kind names, also used as collection names by the gateway bindings.
const (
	User         = "user"
	Job          = "job"
	Application  = "application"
	Notification = "notification"
	Message      = "message"
	Review       = "review"
	Credential   = "credential"
)

// EntitySchema is one compiled entity schema plus its declared defaults.
type EntitySchema struct {
	name     string
	compiled *jsonschema.Schema
	defaults map[string]any
}

// Name returns the entity kind this schema validates.
func (es *EntitySchema) Name() string { return es.name }

// Registry holds the compiled schemas keyed by entity kind.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*EntitySchema
}

// NewRegistry loads and compiles every embedded schema.
func NewRegistry() (*Registry, error) {
	r := &Registry{schemas: make(map[string]*EntitySchema)}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return fmt.Errorf("read schemas dir: %w", err)
	}

	schemas := make(map[string]*EntitySchema)
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		b, err := fs.ReadFile(schemaFS, path.Join("schemas", e.Name()))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", name, err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", name, err)
		}

		defaults, err := extractDefaults(b)
		if err != nil {
			return fmt.Errorf("defaults for schema %s: %w", name, err)
		}

		schemas[name] = &EntitySchema{name: name, compiled: rs, defaults: defaults}
	}

	r.schemas = schemas
	return nil
}

// Get returns the schema for an entity kind.
func (r *Registry) Get(name string) (*EntitySchema, bool) {
	r.mu.RLock()
	s, ok := r.schemas[name]
	r.mu.RUnlock()
	return s, ok
}

// MustGet panics on an unknown entity kind; registry contents are fixed at
// compile time, so a miss is a programming error.
func (r *Registry) MustGet(name string) *EntitySchema {
	s, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("schema: unknown entity kind %q", name))
	}
	return s
}

// extractDefaults walks the raw schema document collecting per-property
// "default" values. The validator itself does not apply defaults; write
// validation does.
func extractDefaults(raw []byte) (map[string]any, error) {
	var doc struct {
		Properties map[string]struct {
			Default any `json:"default"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	defaults := make(map[string]any)
	for field, p := range doc.Properties {
		if p.Default != nil {
			defaults[field] = p.Default
		}
	}

	return defaults, nil
}

// validate runs the compiled schema and flattens key errors into a field path
// to message map.
func (es *EntitySchema) validate(ctx context.Context, candidate map[string]any) (map[string]string, error) {
	b, err := json.Marshal(candidate)
	if err != nil {
		return nil, fmt.Errorf("encode %s candidate: %w", es.name, err)
	}

	keyErrs, err := es.compiled.ValidateBytes(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", es.name, err)
	}
	if len(keyErrs) == 0 {
		return nil, nil
	}

	fields := make(map[string]string, len(keyErrs))
	for _, ke := range keyErrs {
		p := strings.TrimPrefix(ke.PropertyPath, "/")
		if p == "" {
			p = "(root)"
		}
		fields[p] = ke.Message
	}

	return fields, nil
}
