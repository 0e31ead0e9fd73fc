package persistence

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreInsertIsolatesInput(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	input := Document{"Name": "Produce"}

	stored, err := store.Insert(context.Background(), "grocery_categories", input)
	require.NoError(t, err)
	require.True(t, IsNativeKey(stored[NativeKeyField].(string)))

	// Mutating the caller's map after insert must not affect the stored copy.
	input["Name"] = "Changed"
	found, err := store.FindByNativeKey(context.Background(), "grocery_categories", stored[NativeKeyField].(string))
	require.NoError(t, err)
	require.Equal(t, "Produce", found["Name"])
}

func TestMemoryStoreFindOneProjection(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Insert(context.Background(), "grocery_categories", Document{
		"Grocery_Categories_id": int64(1),
		"Name":                  "Produce",
		"Description":           "secret",
	})
	require.NoError(t, err)

	doc, err := store.FindOne(context.Background(), "grocery_categories", Eq("Grocery_Categories_id", int64(1)), []string{"Name"})
	require.NoError(t, err)
	require.Equal(t, "Produce", doc["Name"])
	require.NotContains(t, doc, "Description")
	require.Contains(t, doc, NativeKeyField)
}

func TestMemoryStoreFindSortSkipLimit(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	for i := int64(1); i <= 5; i++ {
		_, err := store.Insert(context.Background(), "suppliers", Document{"Suppliers_id": i})
		require.NoError(t, err)
	}

	docs, err := store.Find(context.Background(), "suppliers", FindOptions{
		Sort:  Sort{Field: "Suppliers_id", Order: SortDesc},
		Skip:  1,
		Limit: 2,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, int64(4), docs[0]["Suppliers_id"])
	require.Equal(t, int64(3), docs[1]["Suppliers_id"])

	// Skipping past the end yields an empty page, not an error.
	docs, err = store.Find(context.Background(), "suppliers", FindOptions{Skip: 50})
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestMemoryStoreFilterSemantics(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.Insert(context.Background(), "suppliers", Document{"Suppliers_id": int64(1), "Name": "Green Farms", "Status": true})
	require.NoError(t, err)
	_, err = store.Insert(context.Background(), "suppliers", Document{"Suppliers_id": int64(2), "Name": "Baker Bros", "Status": false})
	require.NoError(t, err)

	// Case-insensitive substring match over the OR group.
	filter := Filter{Or: []Clause{
		{Field: "Name", Op: OpContainsFold, Value: "FARM"},
		{Field: "Name", Op: OpContainsFold, Value: "nothing"},
	}}
	count, err := store.Count(context.Background(), "suppliers", filter)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// Conjunction of clauses plus OR group.
	filter.Clauses = []Clause{{Field: "Status", Op: OpEq, Value: false}}
	count, err = store.Count(context.Background(), "suppliers", filter)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	// Set membership.
	count, err = store.Count(context.Background(), "suppliers", In("Suppliers_id", []int64{1, 2, 99}))
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	// Numeric equality across representations.
	count, err = store.Count(context.Background(), "suppliers", Eq("Suppliers_id", float64(2)))
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestMemoryStoreConcurrentFindAndUpdate(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	for i := int64(1); i <= 8; i++ {
		_, err := store.Insert(ctx, "suppliers", Document{
			"Suppliers_id": i,
			"Name":         fmt.Sprintf("Supplier %d", i),
			"Status":       true,
		})
		require.NoError(t, err)
	}

	// Sorted reads and field updates race against the same collection; results
	// must always come from isolated copies (run with -race to enforce).
	const pairs = 4
	var wg sync.WaitGroup
	errs := make([]error, pairs*2)
	for i := 0; i < pairs; i++ {
		wg.Add(2)
		go func(slot int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				if _, err := store.Find(ctx, "suppliers", FindOptions{
					Sort: Sort{Field: "Name", Order: SortAsc},
				}); err != nil {
					errs[slot] = err
					return
				}
			}
		}(i)
		go func(slot int) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				if _, err := store.Update(ctx, "suppliers",
					Eq("Suppliers_id", int64(slot%8+1)),
					Document{"Name": fmt.Sprintf("Renamed %d-%d", slot, n)}); err != nil {
					errs[pairs+slot] = err
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
}

func TestMemoryStoreFindResultsAreIsolatedCopies(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	_, err := store.Insert(ctx, "suppliers", Document{"Suppliers_id": int64(1), "Name": "Green Farms"})
	require.NoError(t, err)

	docs, err := store.Find(ctx, "suppliers", FindOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// Mutating a returned document must not leak into the stored copy.
	docs[0]["Name"] = "Tampered"
	found, err := store.FindOne(ctx, "suppliers", Eq("Suppliers_id", int64(1)), nil)
	require.NoError(t, err)
	require.Equal(t, "Green Farms", found["Name"])
}

func TestMemoryStoreUpdateMergesAndReturnsNewDocument(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	stored, err := store.Insert(context.Background(), "suppliers", Document{"Suppliers_id": int64(1), "Name": "Green Farms", "City": "Leeds"})
	require.NoError(t, err)

	updated, err := store.Update(context.Background(), "suppliers",
		Eq(NativeKeyField, stored[NativeKeyField].(string)),
		Document{"Name": "Greener Farms"})
	require.NoError(t, err)
	require.Equal(t, "Greener Farms", updated["Name"])
	require.Equal(t, "Leeds", updated["City"], "untouched fields survive the update")

	_, err = store.Update(context.Background(), "suppliers", Eq("Suppliers_id", int64(42)), Document{"Name": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotFound(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_, err := store.FindByNativeKey(context.Background(), "suppliers", "64b1f0a2c3d4e5f601234567")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindOne(context.Background(), "suppliers", Eq("Suppliers_id", int64(1)), nil)
	require.ErrorIs(t, err, ErrNotFound)
}
