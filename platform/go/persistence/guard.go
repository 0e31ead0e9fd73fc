package persistence

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

// Reference is a single write-time foreign-key check: the declared relationship
// plus the value the incoming write wants to store. Value is nil when the field
// is absent from the write.
type Reference struct {
	Spec  registry.ForeignKey
	Value *int64
}

// Guard performs write-time referential-integrity checks. Referential integrity
// is enforced only here: referenced documents may later be deactivated without
// cascading, and the read path handles the resulting dangling references by
// degrading hydration instead of failing.
type Guard struct {
	store    Store
	registry *registry.Registry
}

// NewGuard builds a Guard over the provided store and registry.
func NewGuard(store Store, reg *registry.Registry) *Guard {
	if store == nil {
		panic("store is required")
	}
	if reg == nil {
		panic("registry is required")
	}
	return &Guard{store: store, registry: reg}
}

// EnsureExists reports whether the reference is satisfied: true when the value
// is absent and the field is optional, or when a document with that sequence id
// exists in the target collection (and is active, when the spec demands it).
// Store failures are returned as errors and are never folded into false.
func (g *Guard) EnsureExists(ctx context.Context, ref Reference) (bool, error) {
	if ref.Value == nil {
		return !ref.Spec.Required, nil
	}

	target, ok := g.registry.Get(ref.Spec.Collection)
	if !ok {
		return false, fmt.Errorf("unknown collection %q", ref.Spec.Collection)
	}

	filter := Eq(target.SequenceField, *ref.Value)
	if ref.Spec.RequireActive {
		filter = filter.AndEq(target.ActiveField, true)
	}

	_, err := g.store.FindOne(ctx, ref.Spec.Collection, filter, []string{target.SequenceField})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CheckReferences evaluates every reference concurrently and, once all lookups
// settle, reports the first unsatisfied reference in declared order as a
// *ReferenceError. The first-failure-wins policy is applied uniformly across
// all collections. Store failures take precedence over reference failures.
func (g *Guard) CheckReferences(ctx context.Context, refs []Reference) error {
	if len(refs) == 0 {
		return nil
	}

	ok := make([]bool, len(refs))
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range refs {
		group.Go(func() error {
			satisfied, err := g.EnsureExists(groupCtx, refs[i])
			if err != nil {
				return err
			}
			ok[i] = satisfied
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for i, ref := range refs {
		if !ok[i] {
			return &ReferenceError{
				DisplayName: ref.Spec.DisplayName,
				Field:       ref.Spec.Field,
				Value:       ref.Value,
			}
		}
	}
	return nil
}

// ReferencesFromDocument builds the checks for a write from the collection's
// declared foreign keys and the fields present on the incoming document.
// Optional keys missing from the document are skipped entirely; required keys
// are always checked so an absent mandatory reference surfaces as a failure.
func ReferencesFromDocument(col registry.Collection, doc Document) []Reference {
	refs := make([]Reference, 0, len(col.ForeignKeys))
	for _, fk := range col.ForeignKeys {
		raw, present := doc[fk.Field]
		if !present || raw == nil {
			if fk.Required {
				refs = append(refs, Reference{Spec: fk})
			}
			continue
		}
		value, numeric := toInt64(raw)
		if !numeric {
			// Already-embedded objects and junk values are not checkable here;
			// required junk still fails as an absent reference.
			if fk.Required {
				refs = append(refs, Reference{Spec: fk})
			}
			continue
		}
		refs = append(refs, Reference{Spec: fk, Value: &value})
	}
	return refs
}
