package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

func int64Ptr(v int64) *int64 { return &v }

func categoryTypeSpec(t *testing.T, reg *registry.Registry) registry.Collection {
	t.Helper()
	col, ok := reg.Get("grocery_category_types")
	require.True(t, ok)
	return col
}

func TestGuardEnsureExists(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t)
	seedDocument(t, store, "grocery_categories", Document{
		"Grocery_Categories_id": int64(1),
		"Name":                  "Produce",
		"Status":                true,
	})
	seedDocument(t, store, "grocery_categories", Document{
		"Grocery_Categories_id": int64(2),
		"Name":                  "Legacy",
		"Status":                false,
	})

	spec := categoryTypeSpec(t, engine.Registry())
	categoryFK, ok := spec.ForeignKeyFor("Grocery_Categories_id")
	require.True(t, ok)
	creatorFK, ok := spec.ForeignKeyFor("Created_by")
	require.True(t, ok)

	cases := []struct {
		name string
		ref  Reference
		want bool
	}{
		{name: "required present and active", ref: Reference{Spec: categoryFK, Value: int64Ptr(1)}, want: true},
		{name: "required absent", ref: Reference{Spec: categoryFK}, want: false},
		{name: "required dangling", ref: Reference{Spec: categoryFK, Value: int64Ptr(999)}, want: false},
		{name: "required inactive with require-active", ref: Reference{Spec: categoryFK, Value: int64Ptr(2)}, want: false},
		{name: "optional absent", ref: Reference{Spec: creatorFK}, want: true},
		{name: "optional dangling", ref: Reference{Spec: creatorFK, Value: int64Ptr(404)}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ok, err := engine.Guard().EnsureExists(context.Background(), tc.ref)
			require.NoError(t, err)
			require.Equal(t, tc.want, ok)
		})
	}
}

func TestGuardEnsureExistsIgnoresActiveWhenNotRequired(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t)
	seedDocument(t, store, "users", Document{
		"Users_id": int64(5),
		"Name":     "Retired Admin",
		"Status":   false,
	})

	spec := categoryTypeSpec(t, engine.Registry())
	creatorFK, ok := spec.ForeignKeyFor("Created_by")
	require.True(t, ok)

	// Created_by does not demand an active target, so an inactive user satisfies it.
	satisfied, err := engine.Guard().EnsureExists(context.Background(), Reference{Spec: creatorFK, Value: int64Ptr(5)})
	require.NoError(t, err)
	require.True(t, satisfied)
}

func TestGuardCheckReferencesFirstFailureInDeclaredOrder(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	spec := categoryTypeSpec(t, engine.Registry())
	categoryFK, _ := spec.ForeignKeyFor("Grocery_Categories_id")
	creatorFK, _ := spec.ForeignKeyFor("Created_by")

	// Both references fail; the declared-order first one must win regardless of
	// lookup completion order.
	err := engine.Guard().CheckReferences(context.Background(), []Reference{
		{Spec: categoryFK, Value: int64Ptr(111)},
		{Spec: creatorFK, Value: int64Ptr(222)},
	})

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "Grocery_Categories_id", refErr.Field)
	require.Equal(t, "Grocery Category not found or inactive", refErr.Error())
}

func TestGuardCheckReferencesRequiredAbsentMessage(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	spec := categoryTypeSpec(t, engine.Registry())
	categoryFK, _ := spec.ForeignKeyFor("Grocery_Categories_id")

	err := engine.Guard().CheckReferences(context.Background(), []Reference{{Spec: categoryFK}})

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Nil(t, refErr.Value)
	require.Equal(t, "Grocery Category is required", refErr.Error())
}

type failingLookupStore struct {
	*MemoryStore
}

func (s *failingLookupStore) FindOne(ctx context.Context, collection string, filter Filter, projection []string) (Document, error) {
	return nil, errors.New("connection reset")
}

func TestGuardStoreFailureIsNotAReferenceFailure(t *testing.T) {
	t.Parallel()

	reg := newTestRegistry(t)
	guard := NewGuard(&failingLookupStore{MemoryStore: NewMemoryStore()}, reg)

	spec, _ := reg.Get("grocery_category_types")
	categoryFK, _ := spec.ForeignKeyFor("Grocery_Categories_id")

	err := guard.CheckReferences(context.Background(), []Reference{{Spec: categoryFK, Value: int64Ptr(1)}})
	require.Error(t, err)

	var refErr *ReferenceError
	require.False(t, errors.As(err, &refErr), "store failures must not surface as reference errors")
}

func TestReferencesFromDocument(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t)
	spec := categoryTypeSpec(t, engine.Registry())

	t.Run("builds checks for present fields", func(t *testing.T) {
		t.Parallel()
		refs := ReferencesFromDocument(spec, Document{
			"Grocery_Categories_id": int64(3),
			"Created_by":            int64(9),
		})
		require.Len(t, refs, 2)
		require.Equal(t, int64(3), *refs[0].Value)
		require.Equal(t, int64(9), *refs[1].Value)
	})

	t.Run("required absent still checked", func(t *testing.T) {
		t.Parallel()
		refs := ReferencesFromDocument(spec, Document{"Name": "Organic"})
		require.Len(t, refs, 1)
		require.Equal(t, "Grocery_Categories_id", refs[0].Spec.Field)
		require.Nil(t, refs[0].Value)
	})

	t.Run("optional absent skipped", func(t *testing.T) {
		t.Parallel()
		refs := ReferencesFromDocument(spec, Document{"Grocery_Categories_id": int64(1)})
		require.Len(t, refs, 1)
	})

	t.Run("junk value on required fails as absent", func(t *testing.T) {
		t.Parallel()
		refs := ReferencesFromDocument(spec, Document{"Grocery_Categories_id": "not-a-number"})
		require.Len(t, refs, 1)
		require.Nil(t, refs[0].Value)
	})
}
