package persistence

import (
	"context"
	"errors"
	"fmt"
)

// SequenceGenerator issues collection-scoped, strictly increasing integer ids.
// Uniqueness is delegated to the store's atomic increment-and-read primitive,
// so two concurrent callers targeting the same collection can never observe
// the same value.
type SequenceGenerator struct {
	store Store
}

// NewSequenceGenerator builds a generator over the provided store.
func NewSequenceGenerator(store Store) *SequenceGenerator {
	if store == nil {
		panic("store is required")
	}
	return &SequenceGenerator{store: store}
}

// NextID returns the next sequence id for the collection, starting at 1.
// A counter-store failure is fatal for the enclosing creation: callers must
// obtain the id before inserting, so no document is ever persisted without one.
func (g *SequenceGenerator) NextID(ctx context.Context, collection string) (int64, error) {
	id, err := g.store.NextSequence(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("next id for %q: %w", collection, errors.Join(ErrSequenceUnavailable, err))
	}
	if id <= 0 {
		return 0, fmt.Errorf("next id for %q: %w: non-positive value %d", collection, ErrSequenceUnavailable, id)
	}
	return id, nil
}
