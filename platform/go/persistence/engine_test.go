package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freshfleet/backoffice/platform/go/registry"
)

// newTestRegistry mirrors the catalog slice of the production registry: users,
// categories, and the category types that must reference an active category.
func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := registry.New([]registry.Collection{
		{
			Name:          "users",
			SequenceField: "Users_id",
			ActiveField:   "Status",
			Searchable:    []string{"Name", "Email"},
			Sortable:      []string{"createdAt", "Name", "Users_id"},
		},
		{
			Name:          "grocery_categories",
			SequenceField: "Grocery_Categories_id",
			ActiveField:   "Status",
			Searchable:    []string{"Name", "Description"},
			Sortable:      []string{"createdAt", "Name", "Grocery_Categories_id"},
			ForeignKeys: []registry.ForeignKey{
				{
					Field:       "Created_by",
					Collection:  "users",
					Projection:  []string{"Users_id", "Name", "Email"},
					DisplayName: "Created By User",
				},
			},
		},
		{
			Name:          "grocery_category_types",
			SequenceField: "Grocery_Categories_Types_id",
			ActiveField:   "Status",
			Searchable:    []string{"Name", "Description"},
			Sortable:      []string{"createdAt", "Name", "Grocery_Categories_Types_id"},
			ForeignKeys: []registry.ForeignKey{
				{
					Field:         "Grocery_Categories_id",
					Collection:    "grocery_categories",
					Projection:    []string{"Grocery_Categories_id", "Name", "Status"},
					Required:      true,
					RequireActive: true,
					DisplayName:   "Grocery Category",
				},
				{
					Field:       "Created_by",
					Collection:  "users",
					Projection:  []string{"Users_id", "Name", "Email"},
					DisplayName: "Created By User",
				},
			},
		},
	})
	require.NoError(t, err)
	return reg
}

func newTestEngine(t *testing.T) (*Engine, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewEngine(store, newTestRegistry(t)), store
}

func seedDocument(t *testing.T, store *MemoryStore, collection string, doc Document) Document {
	t.Helper()
	stored, err := store.Insert(context.Background(), collection, doc)
	require.NoError(t, err)
	return stored
}
