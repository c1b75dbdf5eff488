package history

import (
	"testing"

	"github.com/closetlab/wardrobe/internal/models"
)

func namedGroup(name, brand string) models.GroupedProduct {
	return models.GroupedProduct{
		ProductURL: "https://shop.example/" + name,
		Info:       models.ProductInfo{ProductName: name, BrandName: brand},
	}
}

func TestFilterGroups(t *testing.T) {
	groups := []models.GroupedProduct{
		namedGroup("Red Dress", "Zara"),
		namedGroup("Blue Jeans", "Gap"),
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"zara", []string{"Red Dress"}},
		{"ZARA", []string{"Red Dress"}},
		{"dress", []string{"Red Dress"}},
		{"blue", []string{"Blue Jeans"}},
		{"e", []string{"Red Dress", "Blue Jeans"}}, // substring, both match
		{"velvet", nil},
		{"", []string{"Red Dress", "Blue Jeans"}},
		{"  ", []string{"Red Dress", "Blue Jeans"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := FilterGroups(groups, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterGroups(%q) returned %d groups, want %d", tt.query, len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Info.ProductName != name {
					t.Errorf("result %d = %q, want %q", i, got[i].Info.ProductName, name)
				}
			}
		})
	}
}

func TestFilterFavorites(t *testing.T) {
	fav := namedGroup("Red Dress", "Zara")
	fav.IsFavorite = true
	groups := []models.GroupedProduct{fav, namedGroup("Blue Jeans", "Gap")}

	got := FilterFavorites(groups)
	if len(got) != 1 || got[0].Info.ProductName != "Red Dress" {
		t.Errorf("FilterFavorites() = %+v, want only the favorite", got)
	}
}
