package pipeline

import (
	"net/url"
	"strings"

	"github.com/hupe1980/designmesh/core"
)

// Documented fallback values. Tests pin these literals; changing them is a
// behavior change, not a cleanup.

// defaultRoomAnalysis is substituted when the vision analysis fails, so
// downstream stages always hold a valid analysis.
func defaultRoomAnalysis() core.RoomAnalysis {
	return core.RoomAnalysis{
		RoomType:           "living room",
		DimensionsEstimate: core.Dimensions{Width: 4.5, Length: 5.5},
		ExistingFeatures:   []string{"window", "door"},
		LightingConditions: "natural light",
		StyleSuggestions:   []string{"modern", "minimalist", "scandinavian"},
		ColorPalette:       []string{"white", "light gray", "wood tones"},
	}
}

const defaultDesignStyle = "Modern Scandinavian"

var defaultColorScheme = []string{"White", "Light Oak", "Soft Gray"}

// defaultFurniture branches on the analyzed room type: bedrooms get a
// three-piece set, everything else the living-room basics.
func defaultFurniture(roomType string) []core.FurnitureRequirement {
	if strings.EqualFold(roomType, "bedroom") {
		return []core.FurnitureRequirement{
			{Item: "bed", Category: "Bedroom", Priority: core.PriorityHigh, Quantity: 1},
			{Item: "nightstand", Category: "Bedroom", Priority: core.PriorityMedium, Quantity: 2},
			{Item: "dresser", Category: "Storage", Priority: core.PriorityMedium, Quantity: 1},
		}
	}
	return []core.FurnitureRequirement{
		{Item: "sofa", Category: "Seating", Priority: core.PriorityHigh, Quantity: 1},
		{Item: "coffee table", Category: "Tables", Priority: core.PriorityMedium, Quantity: 1},
	}
}

// mockCatalog is the static product lookup used when search yields nothing.
// Ordered preference list; the first key matching the item name (substring in
// either direction) wins.
var mockCatalog = []struct {
	key     string
	product core.FurnitureItem
}{
	{"mattress", core.FurnitureItem{
		Title:      "IKEA HAUGESUND Spring Mattress Medium Firm",
		Price:      "$279.00",
		Source:     "IKEA",
		Category:   "Bedroom",
		SearchLink: "https://www.ikea.com/us/en/p/haugesund-spring-mattress-medium-firm-beige-50307417/",
	}},
	{"bed frame", core.FurnitureItem{
		Title:      "West Elm Mid-Century Bed Frame - Acorn",
		Price:      "$899.00",
		Source:     "West Elm",
		Category:   "Bedroom",
		SearchLink: "https://www.westelm.com/products/mid-century-bed-acorn-h6565/",
	}},
	{"nightstand", core.FurnitureItem{
		Title:      "CB2 Suspend II Wood Nightstand",
		Price:      "$299.00",
		Source:     "CB2",
		Category:   "Bedroom",
		SearchLink: "https://www.cb2.com/suspend-ii-wood-nightstand/s574306",
	}},
	{"dresser", core.FurnitureItem{
		Title:      "IKEA MALM 6-drawer Dresser White",
		Price:      "$229.00",
		Source:     "IKEA",
		Category:   "Bedroom",
		SearchLink: "https://www.ikea.com/us/en/p/malm-6-drawer-dresser-white-00360454/",
	}},
	{"desk", core.FurnitureItem{
		Title:      "Article Madera Oak Desk",
		Price:      "$449.00",
		Source:     "Article",
		Category:   "Office",
		SearchLink: "https://www.article.com/product/16069/madera-oak-desk",
	}},
	{"chair", core.FurnitureItem{
		Title:      "Herman Miller Aeron Chair",
		Price:      "$1,395.00",
		Source:     "Herman Miller",
		Category:   "Office",
		SearchLink: "https://www.hermanmiller.com/products/seating/office-chairs/aeron-chairs/",
	}},
	{"sofa", core.FurnitureItem{
		Title:      "Article Sven Charme Tan Sofa",
		Price:      "$1,799.00",
		Source:     "Article",
		Category:   "Living Room",
		SearchLink: "https://www.article.com/product/1789/sven-charme-tan-sofa",
	}},
}

// mockProduct returns the single fallback product for an item name. Unmatched
// names get a generic placeholder with a search-engine link built from the
// item name. The category overrides the catalog default when provided.
func mockProduct(itemName, category string) core.FurnitureItem {
	lower := strings.ToLower(itemName)
	for _, entry := range mockCatalog {
		if strings.Contains(lower, entry.key) || strings.Contains(entry.key, lower) {
			product := entry.product
			if category != "" {
				product.Category = category
			}
			return product
		}
	}
	product := core.FurnitureItem{
		Title:      "Modern " + itemName,
		Price:      "$499.00",
		Source:     "Generic Furniture Store",
		Category:   "General",
		SearchLink: "https://www.google.com/search?q=" + url.QueryEscape(itemName),
	}
	if category != "" {
		product.Category = category
	}
	return product
}
