package catalog

import "github.com/viduni-ubesekara/GreenLink-Project/models"

const DefaultLowStockThreshold = 50

// LowStockReport is recomputed from the current items on every read.
type LowStockReport struct {
	Threshold int           `json:"threshold"`
	Low       []models.Item `json:"lowStockItems"`
	Normal    []models.Item `json:"normalItems"`
}

// PartitionLowStock splits items into those with stock strictly below
// threshold and the rest, keeping the input order in both.
func PartitionLowStock(items []models.Item, threshold int) (low, normal []models.Item) {
	low = make([]models.Item, 0)
	normal = make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.StockCount < threshold {
			low = append(low, item)
		} else {
			normal = append(normal, item)
		}
	}
	return low, normal
}
