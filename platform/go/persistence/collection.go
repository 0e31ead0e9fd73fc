package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

// CollectionRepository is the shared create/read/update cycle every domain
// repository builds on: guard references before a write, assign the sequence
// id before the insert, hydrate after every read, and compute pagination
// metadata for every list. It replaces the copy-pasted per-controller variant
// of this pattern with one parameterized implementation.
type CollectionRepository struct {
	engine *Engine
	spec   registry.Collection
	now    func() time.Time
}

// Collection returns a repository bound to the named registered collection.
func (e *Engine) Collection(name string) (*CollectionRepository, error) {
	spec, ok := e.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	return &CollectionRepository{engine: e, spec: spec, now: time.Now}, nil
}

// Spec returns the collection's registry entry.
func (r *CollectionRepository) Spec() registry.Collection { return r.spec }

// ListResult pairs a hydrated page of documents with its pagination metadata.
type ListResult struct {
	Items []Document
	Meta  PaginationMeta
}

// Create guards every declared reference on the document, obtains a sequence
// id, stamps audit fields, and inserts. The id is always obtained before the
// insert so a counter failure can never leave a document without one.
func (r *CollectionRepository) Create(ctx context.Context, fields Document, actor *int64) (Document, error) {
	doc := copyDocument(fields)
	if doc == nil {
		doc = Document{}
	}
	if actor != nil {
		doc["Created_by"] = *actor
		doc["Updated_by"] = *actor
	}

	if err := r.engine.guard.CheckReferences(ctx, ReferencesFromDocument(r.spec, doc)); err != nil {
		return nil, err
	}

	id, err := r.engine.sequences.NextID(ctx, r.spec.Name)
	if err != nil {
		return nil, err
	}
	doc[r.spec.SequenceField] = id

	if _, present := doc[r.spec.ActiveField]; !present {
		doc[r.spec.ActiveField] = true
	}
	now := r.now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	stored, err := r.engine.store.Insert(ctx, r.spec.Name, doc)
	if err != nil {
		return nil, err
	}
	return r.engine.hydrator.HydrateOne(ctx, r.spec.Name, stored)
}

// Get resolves the identifier (native key or sequence id) and hydrates the
// result.
func (r *CollectionRepository) Get(ctx context.Context, rawID string) (Document, error) {
	doc, err := r.engine.resolver.Resolve(ctx, r.spec.Name, rawID)
	if err != nil {
		return nil, err
	}
	return r.engine.hydrator.HydrateOne(ctx, r.spec.Name, doc)
}

// List runs the shaped query, hydrates the page, and computes metadata from
// the filtered total. The find and the count share one filter so the metadata
// always describes the returned window.
func (r *CollectionRepository) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	docs, err := r.engine.store.Find(ctx, r.spec.Name, opts.FindOptions())
	if err != nil {
		return ListResult{}, err
	}

	total, err := r.engine.store.Count(ctx, r.spec.Name, opts.Filter)
	if err != nil {
		return ListResult{}, err
	}

	hydrated, err := r.engine.hydrator.HydrateAll(ctx, r.spec.Name, docs)
	if err != nil {
		return ListResult{}, err
	}
	if hydrated == nil {
		hydrated = []Document{}
	}

	return ListResult{
		Items: hydrated,
		Meta:  NewPaginationMeta(opts.Page, opts.Limit, total),
	}, nil
}

// Update resolves the target, guards any references present in the set, stamps
// updatedAt, applies the update by native key, and hydrates the new document.
func (r *CollectionRepository) Update(ctx context.Context, rawID string, set Document, actor *int64) (Document, error) {
	current, err := r.engine.resolver.Resolve(ctx, r.spec.Name, rawID)
	if err != nil {
		return nil, err
	}

	changes := copyDocument(set)
	if changes == nil {
		changes = Document{}
	}
	// Immutable fields are never updatable through this path.
	delete(changes, NativeKeyField)
	delete(changes, r.spec.SequenceField)
	delete(changes, "createdAt")
	if actor != nil {
		changes["Updated_by"] = *actor
	}

	if err := r.engine.guard.CheckReferences(ctx, referencesFromUpdate(r.spec, changes)); err != nil {
		return nil, err
	}
	changes["updatedAt"] = r.now().UTC()

	nativeKey, _ := current[NativeKeyField].(string)
	updated, err := r.engine.store.Update(ctx, r.spec.Name, Eq(NativeKeyField, nativeKey), changes)
	if err != nil {
		return nil, err
	}
	return r.engine.hydrator.HydrateOne(ctx, r.spec.Name, updated)
}

// Deactivate flips the active flag off. Nothing cascades: dependents keep
// their now-dangling references and the read path degrades hydration for them.
func (r *CollectionRepository) Deactivate(ctx context.Context, rawID string, actor *int64) (Document, error) {
	return r.Update(ctx, rawID, Document{r.spec.ActiveField: false}, actor)
}

// referencesFromUpdate checks only the foreign keys the update touches; an
// absent optional or mandatory key is left as stored.
func referencesFromUpdate(col registry.Collection, set Document) []Reference {
	refs := make([]Reference, 0, len(col.ForeignKeys))
	for _, fk := range col.ForeignKeys {
		raw, present := set[fk.Field]
		if !present {
			continue
		}
		if raw == nil {
			if fk.Required {
				refs = append(refs, Reference{Spec: fk})
			}
			continue
		}
		value, numeric := toInt64(raw)
		if !numeric {
			if fk.Required {
				refs = append(refs, Reference{Spec: fk})
			}
			continue
		}
		refs = append(refs, Reference{Spec: fk, Value: &value})
	}
	return refs
}
