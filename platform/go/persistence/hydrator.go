package persistence

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

const defaultHydrationConcurrency = 8

// Hydrator replaces raw numeric foreign-key values with the (projected)
// documents they reference. It is a pure read: hydration never writes, never
// filters by active state, and degrades gracefully — a dangling reference
// leaves the original integer in place and the call still succeeds.
type Hydrator struct {
	store       Store
	registry    *registry.Registry
	concurrency int
}

// NewHydrator builds a Hydrator over the provided store and registry.
func NewHydrator(store Store, reg *registry.Registry) *Hydrator {
	if store == nil {
		panic("store is required")
	}
	if reg == nil {
		panic("registry is required")
	}
	return &Hydrator{store: store, registry: reg, concurrency: defaultHydrationConcurrency}
}

// HydrateOne hydrates a single document in place and returns it. A nil
// document is returned unchanged.
func (h *Hydrator) HydrateOne(ctx context.Context, collection string, doc Document) (Document, error) {
	if doc == nil {
		return nil, nil
	}
	docs, err := h.HydrateAll(ctx, collection, []Document{doc})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// HydrateAll hydrates a batch of documents in place, preserving length and
// order. Lookups are batched per declared foreign key and issued concurrently,
// so latency is bounded by the number of declared keys rather than by
// entities × fields. Fields already holding an embedded object are left
// untouched, which makes repeated hydration a no-op.
func (h *Hydrator) HydrateAll(ctx context.Context, collection string, docs []Document) ([]Document, error) {
	col, ok := h.registry.Get(collection)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	if len(docs) == 0 || len(col.ForeignKeys) == 0 {
		return docs, nil
	}

	lookups := h.collectLookups(col, docs)
	if len(lookups) == 0 {
		return docs, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(h.concurrency)
	for i := range lookups {
		lu := &lookups[i]
		group.Go(func() error {
			return h.resolveLookup(groupCtx, lu)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for _, lu := range lookups {
		for _, doc := range docs {
			if doc == nil {
				continue
			}
			raw, present := doc[lu.spec.Field]
			if !present {
				continue
			}
			id, numeric := toInt64(raw)
			if !numeric {
				continue
			}
			if resolved, found := lu.resolved[id]; found {
				// Each entity gets its own copy so siblings sharing a
				// reference never alias one embedded document.
				doc[lu.spec.Field] = copyDocument(resolved)
			}
		}
	}

	return docs, nil
}

// lookup gathers every distinct raw id a batch references through one declared
// foreign key.
type lookup struct {
	spec     registry.ForeignKey
	seqField string
	ids      []int64
	resolved map[int64]Document
}

func (h *Hydrator) collectLookups(col registry.Collection, docs []Document) []lookup {
	lookups := make([]lookup, 0, len(col.ForeignKeys))
	for _, fk := range col.ForeignKeys {
		target, ok := h.registry.Get(fk.Collection)
		if !ok {
			continue
		}

		seen := make(map[int64]struct{})
		var ids []int64
		for _, doc := range docs {
			if doc == nil {
				continue
			}
			raw, present := doc[fk.Field]
			if !present || raw == nil {
				continue
			}
			// A field already holding an embedded document is pre-hydrated.
			id, numeric := toInt64(raw)
			if !numeric {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}

		lookups = append(lookups, lookup{
			spec:     fk,
			seqField: target.SequenceField,
			ids:      ids,
			resolved: make(map[int64]Document, len(ids)),
		})
	}
	return lookups
}

func (h *Hydrator) resolveLookup(ctx context.Context, lu *lookup) error {
	projection := lu.spec.Projection
	if len(projection) > 0 && !contains(projection, lu.seqField) {
		// The sequence field is needed to correlate results back to raw values.
		projection = append(append([]string{}, projection...), lu.seqField)
	}

	found, err := h.store.Find(ctx, lu.spec.Collection, FindOptions{
		Filter:     In(lu.seqField, lu.ids),
		Limit:      int64(len(lu.ids)),
		Projection: projection,
	})
	if err != nil {
		return fmt.Errorf("hydrate %q via %q: %w", lu.spec.Field, lu.spec.Collection, err)
	}

	for _, doc := range found {
		if id, ok := toInt64(doc[lu.seqField]); ok {
			lu.resolved[id] = doc
		}
	}
	return nil
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
