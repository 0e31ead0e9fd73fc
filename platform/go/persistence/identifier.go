package persistence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

var nativeKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsNativeKey reports whether raw matches the store-native primary key shape
// (a 24-character hexadecimal string).
func IsNativeKey(raw string) bool {
	return nativeKeyPattern.MatchString(raw)
}

// Resolver disambiguates caller-supplied identifiers. Callers may hold either
// a store-native primary key or the public, collection-scoped sequence id, so
// lookups are dispatched by shape: native-key shape first, then base-10
// integer. The precedence is fixed; a 24-digit numeric string is always
// treated as a native key even when a matching sequence id exists.
type Resolver struct {
	store    Store
	registry *registry.Registry
}

// NewResolver builds a Resolver over the provided store and registry.
func NewResolver(store Store, reg *registry.Registry) *Resolver {
	if store == nil {
		panic("store is required")
	}
	if reg == nil {
		panic("registry is required")
	}
	return &Resolver{store: store, registry: reg}
}

// Resolve looks up a document by an untrusted identifier string. It returns
// ErrInvalidIdentifier when the input matches neither identifier shape and
// ErrNotFound when the shape is valid but nothing matches.
func (r *Resolver) Resolve(ctx context.Context, collection, rawID string) (Document, error) {
	trimmed := strings.TrimSpace(rawID)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidIdentifier)
	}

	if IsNativeKey(trimmed) {
		return r.store.FindByNativeKey(ctx, collection, strings.ToLower(trimmed))
	}

	if seq, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		col, ok := r.registry.Get(collection)
		if !ok {
			return nil, fmt.Errorf("unknown collection %q", collection)
		}
		return r.store.FindOne(ctx, collection, Eq(col.SequenceField, seq), nil)
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, rawID)
}
