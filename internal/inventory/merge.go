// Package inventory merges a client's product sources into one deduplicated list.
package inventory

import (
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
)

// Sources holds the product sets fetched for a client. A nil slice means the
// source was not available.
type Sources struct {
	CreatedByClient []*models.Product
	ClientUploaded  []*models.Product
	Transferred     []*models.Product
	AdminCatalog    []*models.Product
}

// Merge builds the client inventory.
//
// Client specific products (created, uploaded, transferred) come first. Admin
// catalog entries whose name already appears among them are dropped. The
// concatenation is then deduplicated by id: a later record replaces an earlier
// one but keeps the earlier position.
func Merge(src Sources) []*models.Product {
	clientSpecific := make([]*models.Product, 0, len(src.CreatedByClient)+len(src.ClientUploaded)+len(src.Transferred))
	clientSpecific = append(clientSpecific, src.CreatedByClient...)
	clientSpecific = append(clientSpecific, src.ClientUploaded...)
	clientSpecific = append(clientSpecific, src.Transferred...)

	names := make(map[string]struct{}, len(clientSpecific))
	for _, p := range clientSpecific {
		if p != nil {
			names[p.Name] = struct{}{}
		}
	}

	combined := clientSpecific
	for _, p := range src.AdminCatalog {
		if p == nil {
			continue
		}

		if _, taken := names[p.Name]; taken {
			continue
		}

		combined = append(combined, p)
	}

	return Dedupe(combined)
}

// Dedupe removes repeated ids, last seen wins.
func Dedupe(products []*models.Product) []*models.Product {
	index := make(map[uuid.UUID]int, len(products))
	out := make([]*models.Product, 0, len(products))

	for _, p := range products {
		if p == nil {
			continue
		}

		if i, seen := index[p.ID]; seen {
			out[i] = p
			continue
		}

		index[p.ID] = len(out)
		out = append(out, p)
	}

	return out
}

// Items resolves the effective stock of each product.
func Items(products []*models.Product, defaultReorderLevel int64) []models.InventoryItem {
	items := make([]models.InventoryItem, 0, len(products))

	for _, p := range products {
		items = append(items, models.InventoryItem{
			Product:   *p,
			Effective: p.EffectiveStock(defaultReorderLevel),
		})
	}

	return items
}
