package history

import (
	"strings"

	"github.com/closetlab/wardrobe/internal/models"
)

// FilterGroups returns the grouped products whose name or brand contains
// the query, case-insensitive. Applied after aggregation and before sort.
// An empty query returns the input unchanged.
func FilterGroups(groups []models.GroupedProduct, query string) []models.GroupedProduct {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return groups
	}

	filtered := make([]models.GroupedProduct, 0, len(groups))
	for _, g := range groups {
		name := strings.ToLower(g.Info.ProductName)
		brand := strings.ToLower(g.Info.BrandName)
		if strings.Contains(name, query) || strings.Contains(brand, query) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// FilterFavorites keeps only favorited products.
func FilterFavorites(groups []models.GroupedProduct) []models.GroupedProduct {
	filtered := make([]models.GroupedProduct, 0, len(groups))
	for _, g := range groups {
		if g.IsFavorite {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
