package inventory_test

import (
	"testing"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/inventory"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name string) *models.Product {
	return &models.Product{ID: uuid.New(), Name: name}
}

func ids(products []*models.Product) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}

	return out
}

func assertNoDuplicateIDs(t *testing.T, products []*models.Product) {
	t.Helper()

	seen := map[uuid.UUID]bool{}
	for _, p := range products {
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestMerge(t *testing.T) {
	t.Run("Admin copy excluded by name match", func(t *testing.T) {
		// Arrange
		uploadedB := product("Widget B")
		uploadedB.IsClientUploaded = true
		adminB := product("Widget B")
		adminC := product("Widget C")

		// Act
		merged := inventory.Merge(inventory.Sources{
			ClientUploaded: []*models.Product{uploadedB},
			AdminCatalog:   []*models.Product{adminB, adminC},
		})

		// Assert
		require.Len(t, merged, 2)
		assert.Equal(t, uploadedB.ID, merged[0].ID)
		assert.Equal(t, adminC.ID, merged[1].ID)

		count := 0
		for _, p := range merged {
			if p.Name == "Widget B" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("Name match is case sensitive", func(t *testing.T) {
		created := product("widget d")
		admin := product("Widget D")

		merged := inventory.Merge(inventory.Sources{
			CreatedByClient: []*models.Product{created},
			AdminCatalog:    []*models.Product{admin},
		})

		assert.Equal(t, []uuid.UUID{created.ID, admin.ID}, ids(merged))
	})

	t.Run("Same record in several client sources appears once, last wins", func(t *testing.T) {
		// Arrange
		id := uuid.New()
		asCreated := &models.Product{ID: id, Name: "Widget A", Stock: 1}
		asTransferred := &models.Product{ID: id, Name: "Widget A", ClientInventory: &models.ClientInventory{CurrentStock: 8}}
		other := product("Other")

		// Act
		merged := inventory.Merge(inventory.Sources{
			CreatedByClient: []*models.Product{asCreated, other},
			Transferred:     []*models.Product{asTransferred},
		})

		// Assert
		require.Len(t, merged, 2)
		assertNoDuplicateIDs(t, merged)
		assert.Same(t, asTransferred, merged[0])
		assert.Same(t, other, merged[1])
	})

	t.Run("Missing sources are tolerated", func(t *testing.T) {
		admin := product("Only Admin")

		merged := inventory.Merge(inventory.Sources{AdminCatalog: []*models.Product{admin, nil}})

		assert.Equal(t, []uuid.UUID{admin.ID}, ids(merged))
	})

	t.Run("Empty sources", func(t *testing.T) {
		merged := inventory.Merge(inventory.Sources{})

		assert.Empty(t, merged)
	})

	t.Run("Output never carries duplicate ids", func(t *testing.T) {
		shared := product("Shared")
		dupAdmin := &models.Product{ID: shared.ID, Name: "Renamed"}
		a := product("A")

		merged := inventory.Merge(inventory.Sources{
			CreatedByClient: []*models.Product{shared, a},
			ClientUploaded:  []*models.Product{a},
			Transferred:     []*models.Product{shared},
			AdminCatalog:    []*models.Product{dupAdmin, a},
		})

		assertNoDuplicateIDs(t, merged)
		assert.Len(t, merged, 2)
		assert.Same(t, dupAdmin, merged[0])
	})
}

func TestDedupe(t *testing.T) {
	a := product("A")
	b := product("B")
	a2 := &models.Product{ID: a.ID, Name: "A v2"}

	out := inventory.Dedupe([]*models.Product{a, b, a2})

	require.Len(t, out, 2)
	assert.Equal(t, "A v2", out[0].Name)
	assert.Equal(t, "B", out[1].Name)
}

func TestItems(t *testing.T) {
	withInventory := &models.Product{ID: uuid.New(), Stock: 99, ClientInventory: &models.ClientInventory{CurrentStock: 7, ReorderLevel: 2}}
	missing := &models.Product{ID: uuid.New(), IsClientUploaded: true}

	items := inventory.Items([]*models.Product{withInventory, missing}, models.DefaultReorderLevel)

	require.Len(t, items, 2)
	assert.Equal(t, int64(7), items[0].Effective.Stock)
	assert.Equal(t, models.StockStatusInStock, items[0].Effective.Status)
	assert.True(t, items[1].Effective.MissingInventory)
	assert.Equal(t, int64(0), items[1].Effective.Stock)
}
