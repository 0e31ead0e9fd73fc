package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedRegistry(t *testing.T) {
	t.Parallel()

	reg, err := Load()
	require.NoError(t, err)
	require.Len(t, reg.Names(), 6)

	types, ok := reg.Get("grocery_category_types")
	require.True(t, ok)
	require.Equal(t, "Grocery_Categories_Types_id", types.SequenceField)
	require.Equal(t, "Status", types.ActiveField)

	fk, ok := types.ForeignKeyFor("Grocery_Categories_id")
	require.True(t, ok)
	require.Equal(t, "grocery_categories", fk.Collection)
	require.True(t, fk.Required)
	require.True(t, fk.RequireActive)
	require.Equal(t, "Grocery Category", fk.DisplayName)
	require.Equal(t, []string{"Grocery_Categories_id", "Name", "Status"}, fk.Projection)

	_, ok = reg.Get("unknown")
	require.False(t, ok)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	base := Collection{
		Name:          "widgets",
		SequenceField: "Widgets_id",
		ActiveField:   "Status",
	}

	t.Run("empty table rejected", func(t *testing.T) {
		t.Parallel()
		_, err := New(nil)
		require.ErrorContains(t, err, "at least one collection")
	})

	t.Run("missing sequence field rejected", func(t *testing.T) {
		t.Parallel()
		col := base
		col.SequenceField = ""
		_, err := New([]Collection{col})
		require.ErrorContains(t, err, "sequence field is required")
	})

	t.Run("missing active field rejected", func(t *testing.T) {
		t.Parallel()
		col := base
		col.ActiveField = ""
		_, err := New([]Collection{col})
		require.ErrorContains(t, err, "active field is required")
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		t.Parallel()
		_, err := New([]Collection{base, base})
		require.ErrorContains(t, err, `declared twice`)
	})

	t.Run("foreign key to unknown collection rejected", func(t *testing.T) {
		t.Parallel()
		col := base
		col.ForeignKeys = []ForeignKey{{Field: "Owner_id", Collection: "nowhere"}}
		_, err := New([]Collection{col})
		require.ErrorContains(t, err, `targets unknown collection "nowhere"`)
	})
}

func TestCollectionHelpers(t *testing.T) {
	t.Parallel()

	col := Collection{
		Name:          "widgets",
		SequenceField: "Widgets_id",
		ActiveField:   "Status",
		Sortable:      []string{"createdAt", "Name"},
		ForeignKeys:   []ForeignKey{{Field: "Owner_id", Collection: "users"}},
	}

	require.True(t, col.IsSortable("Name"))
	require.False(t, col.IsSortable("Widgets_id"))

	fk, ok := col.ForeignKeyFor("Owner_id")
	require.True(t, ok)
	require.Equal(t, "users", fk.Collection)

	_, ok = col.ForeignKeyFor("Missing")
	require.False(t, ok)
}

func TestValidateConfigRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	err := validateConfig([]byte(`{
		"collections": [
			{
				"name": "widgets",
				"sequenceField": "Widgets_id",
				"activeField": "Status",
				"searchable": [],
				"sortable": [],
				"foreignKeys": [],
				"bogus": true
			}
		]
	}`))
	require.Error(t, err)
}

func TestValidateConfigRejectsMissingRequired(t *testing.T) {
	t.Parallel()

	err := validateConfig([]byte(`{"collections": [{"name": "widgets"}]}`))
	require.Error(t, err)
}
