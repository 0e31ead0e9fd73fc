// Package registry holds the static per-collection configuration table: which
// field carries the collection-scoped sequence id, which fields are searchable
// and sortable, and how numeric foreign keys map to other collections. The
// table is loaded once at process startup and is immutable afterwards.
package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed collections.json
var collectionsJSON []byte

//go:embed collections.schema.json
var collectionsSchemaJSON []byte

// ForeignKey declares how a numeric reference field on one collection points
// at a document in another collection.
type ForeignKey struct {
	// Field is the name of the foreign-key field on the owning document.
	Field string `json:"field"`
	// Collection is the target collection the field references.
	Collection string `json:"collection"`
	// Projection is the allow-list of target fields substituted during hydration.
	Projection []string `json:"projection"`
	// Required marks the reference as mandatory at write time.
	Required bool `json:"required"`
	// RequireActive demands the referenced document be active at write time.
	RequireActive bool `json:"requireActive"`
	// DisplayName is the human-facing relationship name used in error messages.
	DisplayName string `json:"displayName"`
}

// Collection describes one named collection managed by the engine.
type Collection struct {
	Name          string       `json:"name"`
	SequenceField string       `json:"sequenceField"`
	ActiveField   string       `json:"activeField"`
	Searchable    []string     `json:"searchable"`
	Sortable      []string     `json:"sortable"`
	ForeignKeys   []ForeignKey `json:"foreignKeys"`
}

// IsSortable reports whether field is on the collection's sort allow-list.
func (c Collection) IsSortable(field string) bool {
	for _, f := range c.Sortable {
		if f == field {
			return true
		}
	}
	return false
}

// ForeignKeyFor returns the declaration for the given field, if any.
func (c Collection) ForeignKeyFor(field string) (ForeignKey, bool) {
	for _, fk := range c.ForeignKeys {
		if fk.Field == field {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

// Registry is the immutable lookup table of collection specs.
type Registry struct {
	byName map[string]Collection
}

type collectionsFile struct {
	Collections []Collection `json:"collections"`
}

// Load parses the embedded collection table after validating it against the
// embedded JSON Schema. It is intended to run once during startup; any problem
// with the table is a boot failure, never a request-time failure.
func Load() (*Registry, error) {
	if err := validateConfig(collectionsJSON); err != nil {
		return nil, fmt.Errorf("validate collection registry: %w", err)
	}

	var file collectionsFile
	decoder := json.NewDecoder(bytes.NewReader(collectionsJSON))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode collection registry: %w", err)
	}

	return New(file.Collections)
}

// New builds a Registry from explicit collection specs and cross-checks that
// every declared foreign key targets a registered collection.
func New(collections []Collection) (*Registry, error) {
	if len(collections) == 0 {
		return nil, fmt.Errorf("at least one collection is required")
	}

	byName := make(map[string]Collection, len(collections))
	for _, col := range collections {
		if col.Name == "" {
			return nil, fmt.Errorf("collection name is required")
		}
		if col.SequenceField == "" {
			return nil, fmt.Errorf("collection %q: sequence field is required", col.Name)
		}
		if col.ActiveField == "" {
			return nil, fmt.Errorf("collection %q: active field is required", col.Name)
		}
		if _, exists := byName[col.Name]; exists {
			return nil, fmt.Errorf("collection %q declared twice", col.Name)
		}
		byName[col.Name] = col
	}

	for _, col := range byName {
		for _, fk := range col.ForeignKeys {
			if fk.Field == "" || fk.Collection == "" {
				return nil, fmt.Errorf("collection %q: foreign key declarations need a field and a target collection", col.Name)
			}
			if _, ok := byName[fk.Collection]; !ok {
				return nil, fmt.Errorf("collection %q: foreign key %q targets unknown collection %q", col.Name, fk.Field, fk.Collection)
			}
		}
	}

	return &Registry{byName: byName}, nil
}

// Get returns the spec for the named collection.
func (r *Registry) Get(name string) (Collection, bool) {
	col, ok := r.byName[name]
	return col, ok
}

// Names returns the registered collection names in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}
