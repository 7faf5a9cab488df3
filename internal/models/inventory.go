package models

import "strings"

type InventorySource string

const (
	SourceCreatedByClient InventorySource = "created_by_client"
	SourceClientUploaded  InventorySource = "client_uploaded"
	SourceTransferred     InventorySource = "transferred"
	SourceAdminCatalog    InventorySource = "admin_catalog"
	SourceAdminOwned      InventorySource = "admin_owned"
)

// InventoryItem is a reconciled product together with its resolved stock.
type InventoryItem struct {
	Product
	Effective StockLevel `json:"effective"`
}

func (i InventoryItem) SearchFields() []string {
	return []string{i.Name, i.SKU, i.Description}
}

func (i InventoryItem) StatusKey() string {
	return string(i.Effective.Status)
}

func (i InventoryItem) FacetValue(name string) string {
	if strings.EqualFold(name, "category") {
		return i.Category
	}

	return ""
}

type InventoryView struct {
	Items         []InventoryItem   `json:"items"`
	Degraded      bool              `json:"degraded"`
	FailedSources []InventorySource `json:"failedSources,omitempty"`
	LastUpdate    int64             `json:"lastUpdate"`
}

// InventoryPage is one page of a reconciled inventory listing.
type InventoryPage struct {
	Data          []InventoryItem   `json:"data"`
	Total         int               `json:"total"`
	Page          int               `json:"page"`
	PageSize      int               `json:"pageSize"`
	TotalPages    int               `json:"totalPages"`
	Degraded      bool              `json:"degraded"`
	FailedSources []InventorySource `json:"failedSources,omitempty"`
	LastUpdate    int64             `json:"lastUpdate"`
}
