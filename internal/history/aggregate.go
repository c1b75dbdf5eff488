// Package history holds the view-model for the try-on history browser:
// grouping raw try-on records into product cards, page-fetch state, and
// the favorite/delete mutation flows.
package history

import (
	"sort"

	"github.com/closetlab/wardrobe/internal/models"
)

// Aggregate groups a flat list of try-on records into per-product cards.
// Pure and deterministic given input order: output cards appear in order
// of each key's first occurrence, later records with the same key merge
// into the existing card. Within a card:
//
//   - Images is the concatenation of every contributing record's images,
//     each stamped with its source record's latestTryOnDate and a 0-based
//     index local to that record, then sorted newest-first.
//   - LatestTimestamp is the chronologically latest across records.
//   - TotalTryOns takes the max; the server reports it inconsistently
//     across pages for the same product.
//   - IsFavorite is the OR of all records' flags (nil counts as false).
//
// ProductInfo is taken from the first record only; product fields are
// stable per product so re-merging would change nothing.
func Aggregate(records []models.TryOnRecord) []models.GroupedProduct {
	byKey := make(map[string]*models.GroupedProduct)
	var order []string

	for _, record := range records {
		key := record.IdentityKey()

		group, ok := byKey[key]
		if !ok {
			group = &models.GroupedProduct{
				ProductURL:      key,
				Info:            record.ProductInfo,
				LatestTimestamp: record.LatestTryOnDate,
				TotalTryOns:     record.TotalTryOns,
				IsFavorite:      record.Favorite(),
			}
			byKey[key] = group
			order = append(order, key)
		} else {
			group.LatestTimestamp = models.LaterTimestamp(group.LatestTimestamp, record.LatestTryOnDate)
			if record.TotalTryOns > group.TotalTryOns {
				group.TotalTryOns = record.TotalTryOns
			}
			group.IsFavorite = group.IsFavorite || record.Favorite()
		}

		for i, img := range record.TryOnImages {
			group.Images = append(group.Images, models.GroupedImage{
				URL:        img.URL,
				Timestamp:  record.LatestTryOnDate,
				ImageIndex: i,
				RecordID:   img.RecordID,
			})
		}
	}

	groups := make([]models.GroupedProduct, 0, len(order))
	for _, key := range order {
		group := byKey[key]
		sortImagesNewestFirst(group.Images)
		groups = append(groups, *group)
	}
	return groups
}

// sortImagesNewestFirst keeps the invariant that Images[0] is the cover
// image. Stable so images from the same record keep their relative order.
func sortImagesNewestFirst(images []models.GroupedImage) {
	sort.SliceStable(images, func(i, j int) bool {
		return compareTimestamps(images[i].Timestamp, images[j].Timestamp) > 0
	})
}

// compareTimestamps returns >0 if a is later than b, <0 if earlier, 0 if
// equal. Unparsable values compare lexicographically, which is correct
// for well-formed ISO-8601 strings of equal precision.
func compareTimestamps(a, b string) int {
	ta, errA := models.ParseTimestamp(a)
	tb, errB := models.ParseTimestamp(b)
	if errA == nil && errB == nil {
		switch {
		case ta.After(tb):
			return 1
		case tb.After(ta):
			return -1
		default:
			return 0
		}
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
