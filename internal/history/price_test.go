package history

import (
	"testing"

	"github.com/closetlab/wardrobe/internal/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"$10.00", 10},
		{"USD530.00", 530},
		{"GBP100", 100},
		{"43-54", 48.5},
		{"USD43-54", 48.5},
		{"1,299", 1}, // comma splits tokens; first token wins
		{"", 0},
		{"free", 0},
		{"  19.99 ", 19.99},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func priceGroup(name, price string) models.GroupedProduct {
	return models.GroupedProduct{
		ProductURL: "https://shop.example/" + name,
		Info:       models.ProductInfo{ProductName: name, Price: price},
	}
}

// TestSortGroupsLowToHigh covers the mixed-format sort scenario: a range
// midpoint lands between a plain dollar price and a bare currency prefix.
func TestSortGroupsLowToHigh(t *testing.T) {
	groups := []models.GroupedProduct{
		priceGroup("range", "USD43-54"),
		priceGroup("cheap", "$10.00"),
		priceGroup("dear", "GBP100"),
	}

	SortGroups(groups, SortPriceLowToHigh)

	want := []string{"cheap", "range", "dear"}
	for i, name := range want {
		if groups[i].Info.ProductName != name {
			t.Errorf("position %d = %q, want %q", i, groups[i].Info.ProductName, name)
		}
	}
}

func TestSortGroupsHighToLow(t *testing.T) {
	groups := []models.GroupedProduct{
		priceGroup("cheap", "$10.00"),
		priceGroup("dear", "GBP100"),
	}

	SortGroups(groups, SortPriceHighToLow)

	if groups[0].Info.ProductName != "dear" {
		t.Errorf("position 0 = %q, want %q", groups[0].Info.ProductName, "dear")
	}
}

// TestSortGroupsNoneIsStable verifies SortNone leaves aggregation order
// untouched.
func TestSortGroupsNoneIsStable(t *testing.T) {
	groups := []models.GroupedProduct{
		priceGroup("b", "50"),
		priceGroup("a", "10"),
	}

	SortGroups(groups, SortNone)

	if groups[0].Info.ProductName != "b" {
		t.Errorf("SortNone reordered groups: got %q first", groups[0].Info.ProductName)
	}
}

func TestSortOrderCycle(t *testing.T) {
	order := SortNone
	seq := []SortOrder{SortPriceLowToHigh, SortPriceHighToLow, SortNone}
	for i, want := range seq {
		order = order.Cycle()
		if order != want {
			t.Errorf("cycle step %d = %v, want %v", i, order, want)
		}
	}
}
