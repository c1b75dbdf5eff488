package history

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/closetlab/wardrobe/internal/models"
)

// SortOrder selects the client-side price sort applied to the aggregated,
// filtered card list. Sorting never affects pagination or fetching.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortPriceLowToHigh
	SortPriceHighToLow
)

// Cycle advances to the next sort order; used by the UI sort key.
func (s SortOrder) Cycle() SortOrder {
	switch s {
	case SortNone:
		return SortPriceLowToHigh
	case SortPriceLowToHigh:
		return SortPriceHighToLow
	default:
		return SortNone
	}
}

func (s SortOrder) String() string {
	switch s {
	case SortPriceLowToHigh:
		return "price low-to-high"
	case SortPriceHighToLow:
		return "price high-to-low"
	default:
		return "none"
	}
}

var numericToken = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// ParsePrice extracts a comparable value from the heterogeneous price
// strings scrapers produce. A range like "43-54" (or "USD43-54") reduces
// to its midpoint; currency-prefixed values like "USD530.00" or "$10.00"
// yield the first numeric token; anything unparsable is 0.
func ParsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	tokens := numericToken.FindAllString(raw, 2)
	if len(tokens) == 0 {
		return 0
	}

	first, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0
	}

	// Two numeric tokens separated by a dash form a range.
	if len(tokens) >= 2 && isRange(raw, tokens[0], tokens[1]) {
		second, err := strconv.ParseFloat(tokens[1], 64)
		if err == nil {
			return (first + second) / 2
		}
	}

	return first
}

func isRange(raw, first, second string) bool {
	start := strings.Index(raw, first)
	if start < 0 {
		return false
	}
	rest := raw[start+len(first):]
	end := strings.Index(rest, second)
	if end < 0 {
		return false
	}
	between := rest[:end]
	return strings.Contains(between, "-")
}

// SortGroups orders grouped products by parsed price. Stable, so products
// with equal (or missing) prices keep their aggregation order.
func SortGroups(groups []models.GroupedProduct, order SortOrder) {
	if order == SortNone {
		return
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a := ParsePrice(groups[i].Info.Price)
		b := ParsePrice(groups[j].Info.Price)
		if order == SortPriceLowToHigh {
			return a < b
		}
		return a > b
	})
}
