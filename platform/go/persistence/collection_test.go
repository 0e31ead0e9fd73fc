package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

// newProductionEngine runs the repository cycle against the real embedded
// registry, end to end over the in-memory store.
func newProductionEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	return NewEngine(NewMemoryStore(), reg)
}

func TestCollectionRepositoryCreateAssignsSequenceAndAudit(t *testing.T) {
	t.Parallel()

	engine := newProductionEngine(t)
	users, err := engine.Collection("users")
	require.NoError(t, err)
	categories, err := engine.Collection("grocery_categories")
	require.NoError(t, err)

	admin, err := users.Create(context.Background(), Document{"Name": "Ada", "Email": "ada@freshfleet.dev"}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), admin["Users_id"])
	require.Equal(t, true, admin["Status"], "active flag defaults to true")
	require.IsType(t, time.Time{}, admin["createdAt"])

	actor := int64(1)
	category, err := categories.Create(context.Background(), Document{"Name": "Produce"}, &actor)
	require.NoError(t, err)
	require.Equal(t, int64(1), category["Grocery_Categories_id"])

	// Audit stamps hydrate into the projected user document.
	creator, ok := category["Created_by"].(Document)
	require.True(t, ok)
	require.Equal(t, int64(1), creator["Users_id"])
	require.Equal(t, "Ada", creator["Name"])
	require.Equal(t, "ada@freshfleet.dev", creator["Email"])

	// Sequence ids are collection scoped; the second category gets 2.
	second, err := categories.Create(context.Background(), Document{"Name": "Dairy"}, &actor)
	require.NoError(t, err)
	require.Equal(t, int64(2), second["Grocery_Categories_id"])
}

func TestCollectionRepositoryReferenceLifecycle(t *testing.T) {
	t.Parallel()

	engine := newProductionEngine(t)
	categories, err := engine.Collection("grocery_categories")
	require.NoError(t, err)
	types, err := engine.Collection("grocery_category_types")
	require.NoError(t, err)

	category, err := categories.Create(context.Background(), Document{"Name": "Produce"}, nil)
	require.NoError(t, err)
	categoryID, _ := category["Grocery_Categories_id"].(int64)

	// A valid reference hydrates to the projected category document.
	created, err := types.Create(context.Background(), Document{
		"Name":                  "Organic",
		"Grocery_Categories_id": categoryID,
	}, nil)
	require.NoError(t, err)

	embedded, ok := created["Grocery_Categories_id"].(Document)
	require.True(t, ok)
	require.Equal(t, categoryID, embedded["Grocery_Categories_id"])
	require.Equal(t, "Produce", embedded["Name"])
	require.Equal(t, true, embedded["Status"])
	require.NotContains(t, embedded, "Description")

	// A dangling reference is rejected at write time.
	_, err = types.Create(context.Background(), Document{
		"Name":                  "Phantom",
		"Grocery_Categories_id": int64(999),
	}, nil)
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "Grocery Category not found or inactive", refErr.Error())

	// A missing mandatory reference is rejected with the required message.
	_, err = types.Create(context.Background(), Document{"Name": "Unparented"}, nil)
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "Grocery Category is required", refErr.Error())

	// Deactivating the category blocks new writes referencing it...
	_, err = categories.Deactivate(context.Background(), fmt.Sprint(categoryID), nil)
	require.NoError(t, err)

	_, err = types.Create(context.Background(), Document{
		"Name":                  "Late Arrival",
		"Grocery_Categories_id": categoryID,
	}, nil)
	require.ErrorAs(t, err, &refErr)

	// ...but existing documents still read fine: hydration never filters by
	// active state, so the (now inactive) category still embeds.
	got, err := types.Get(context.Background(), "1")
	require.NoError(t, err)
	embedded, ok = got["Grocery_Categories_id"].(Document)
	require.True(t, ok)
	require.Equal(t, false, embedded["Status"])
}

func TestCollectionRepositoryGetByEitherIdentifier(t *testing.T) {
	t.Parallel()

	engine := newProductionEngine(t)
	categories, err := engine.Collection("grocery_categories")
	require.NoError(t, err)

	created, err := categories.Create(context.Background(), Document{"Name": "Beverages"}, nil)
	require.NoError(t, err)

	bySeq, err := categories.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Beverages", bySeq["Name"])

	byNative, err := categories.Get(context.Background(), created[NativeKeyField].(string))
	require.NoError(t, err)
	require.Equal(t, "Beverages", byNative["Name"])

	_, err = categories.Get(context.Background(), "not-an-id")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestCollectionRepositoryUpdateProtectsImmutableFields(t *testing.T) {
	t.Parallel()

	engine := newProductionEngine(t)
	users, err := engine.Collection("users")
	require.NoError(t, err)
	categories, err := engine.Collection("grocery_categories")
	require.NoError(t, err)

	_, err = users.Create(context.Background(), Document{"Name": "Ada", "Email": "ada@freshfleet.dev"}, nil)
	require.NoError(t, err)

	created, err := categories.Create(context.Background(), Document{"Name": "Produce"}, nil)
	require.NoError(t, err)
	createdAt := created["createdAt"].(time.Time)

	actor := int64(1)
	updated, err := categories.Update(context.Background(), "1", Document{
		"Name":                  "Fresh Produce",
		"Grocery_Categories_id": int64(999),
		NativeKeyField:          "0000000000000000000000ff",
		"createdAt":             time.Unix(0, 0),
	}, &actor)
	require.NoError(t, err)

	require.Equal(t, "Fresh Produce", updated["Name"])
	require.Equal(t, int64(1), updated["Grocery_Categories_id"], "sequence id is immutable")
	require.Equal(t, created[NativeKeyField], updated[NativeKeyField], "native key is immutable")
	require.Equal(t, createdAt, updated["createdAt"], "createdAt is immutable")

	// The audit stamp hydrates like any other declared reference.
	auditor, ok := updated["Updated_by"].(Document)
	require.True(t, ok)
	require.Equal(t, int64(1), auditor["Users_id"])
}

func TestCollectionRepositoryListSearchAndPagination(t *testing.T) {
	t.Parallel()

	engine := newProductionEngine(t)
	suppliers, err := engine.Collection("suppliers")
	require.NoError(t, err)

	names := []string{"Green Farms", "Greenhouse Goods", "Baker Bros", "City Dairy"}
	for _, name := range names {
		_, err := suppliers.Create(context.Background(), Document{"Name": name}, nil)
		require.NoError(t, err)
	}

	opts := BuildListOptions(Params{"search": "green", "limit": "1", "page": "2"}, suppliers.Spec())
	result, err := suppliers.List(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	require.Equal(t, PaginationMeta{
		Page:        2,
		Limit:       1,
		TotalItems:  2,
		TotalPages:  2,
		HasPrevPage: true,
	}, result.Meta)

	// A page past the end returns an empty list with intact metadata.
	opts = BuildListOptions(Params{"page": "50"}, suppliers.Spec())
	result, err = suppliers.List(context.Background(), opts)
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Equal(t, int64(4), result.Meta.TotalItems)
}

func TestCollectionRepositoryDeactivate(t *testing.T) {
	t.Parallel()

	engine := newProductionEngine(t)
	suppliers, err := engine.Collection("suppliers")
	require.NoError(t, err)

	_, err = suppliers.Create(context.Background(), Document{"Name": "Green Farms"}, nil)
	require.NoError(t, err)

	deactivated, err := suppliers.Deactivate(context.Background(), "1", nil)
	require.NoError(t, err)
	require.Equal(t, false, deactivated["Status"])

	// Listing with an active filter excludes it.
	opts := BuildListOptions(Params{"status": "true"}, suppliers.Spec())
	result, err := suppliers.List(context.Background(), opts)
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Equal(t, int64(0), result.Meta.TotalItems)
}
