package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/designmesh/capability"
	"github.com/hupe1980/designmesh/core"
)

// searchFurniture is stage 3: it resolves the plan's furniture requirements
// into shoppable products. Work is bounded: only the first three requirements
// are searched, at most two products are appended per requirement (three are
// shown in the report) and the run stops early once the running list holds
// five items. One requirement's failure never aborts the stage.
func (p *Pipeline) searchFurniture(ctx context.Context) {
	p.state.setCurrentStep("Searching for furniture")
	p.state.addMessage("Searching for furniture items...")
	p.state.appendReport("## Shopping Results\n")

	p.guard(StageFurnitureShopping, "Shopping", func() error {
		requirements := p.state.Plan().FurnitureNeeded
		if len(requirements) > maxRequirements {
			requirements = requirements[:maxRequirements]
		}
		for _, req := range requirements {
			p.shopRequirement(ctx, req)
			if p.state.furnitureCount() >= maxFurnitureItems {
				p.state.addMessage("Found enough furniture items, moving on...")
				break
			}
			p.sleep(ctx)
		}
		p.state.addMessage(fmt.Sprintf("Found %d furniture items", p.state.furnitureCount()))
		return nil
	}, nil)
}

// shopRequirement searches for one requirement and appends results. Search
// errors and empty results both degrade: errors become a "could not find"
// message, empty results fall back to the static mock catalog.
func (p *Pipeline) shopRequirement(ctx context.Context, req core.FurnitureRequirement) {
	query := SimplifyQuery(req.Item)
	p.state.addMessage("Searching for: " + query)

	start := time.Now()
	products, err := p.deps.Searcher.SearchProducts(ctx, query)
	p.logCapability("product_search", start, err)
	if err != nil {
		p.logger.Warn("product search failed", "query", query, "error", err)
		p.state.addMessage("Could not find: " + req.Item)
		return
	}
	if len(products) == 0 {
		p.logger.Warn("no products found", "query", query)
		p.state.addMessage("No products found for: " + req.Item)
		p.appendMockProduct(req)
		return
	}

	if len(products) > maxDisplayProducts {
		products = products[:maxDisplayProducts]
	}
	added := 0
	for _, prod := range products[:min(len(products), maxAppendProducts)] {
		p.state.addFurniture(furnitureFromProduct(prod, req))
		added++
	}
	if added == 0 {
		return
	}
	p.state.addMessage(fmt.Sprintf("Found %d options", added))

	heading := req.Category
	if heading == "" {
		heading = req.Item
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n### %s\n", heading)
	for idx, prod := range products {
		price := prod.Price
		if price == "" {
			price = "Price not available"
		}
		fmt.Fprintf(&sb, "%d. **%s** - %s\n", idx+1, truncateTitle(prod.Title), price)
		if prod.Source != "" {
			fmt.Fprintf(&sb, "   - Source: %s\n", prod.Source)
		}
		if prod.ProductRating > 0 {
			fmt.Fprintf(&sb, "   - Rating: %g (%d reviews)\n", prod.ProductRating, prod.ProductReviews)
		}
		if prod.Delivery != "" {
			fmt.Fprintf(&sb, "   - Delivery: %s\n", prod.Delivery)
		}
	}
	p.state.appendReport(sb.String())
}

// appendMockProduct substitutes exactly one catalog product for a requirement
// that produced no usable search results.
func (p *Pipeline) appendMockProduct(req core.FurnitureRequirement) {
	p.state.addMessage("Using alternative search for: " + req.Item)
	item := mockProduct(req.Item, req.Category)
	p.state.addFurniture(item)

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n### %s\n1. **%s** - %s\n", req.Item, item.Title, item.Price)
	if item.Source != "" {
		fmt.Fprintf(&sb, "   - Source: %s\n", item.Source)
	}
	p.state.appendReport(sb.String())
}

// furnitureFromProduct converts a normalized search product into a furniture
// item carrying the requirement's category.
func furnitureFromProduct(prod capability.Product, req core.FurnitureRequirement) core.FurnitureItem {
	title := prod.Title
	if title == "" {
		title = req.Item
	}
	category := req.Category
	if category == "" {
		category = "Furniture"
	}
	return core.FurnitureItem{
		Title:          title,
		Price:          prod.Price,
		SearchLink:     prod.SearchLink,
		DirectLink:     prod.DirectLink,
		Source:         prod.Source,
		Delivery:       prod.Delivery,
		ProductRating:  prod.ProductRating,
		ProductReviews: prod.ProductReviews,
		StoreRating:    prod.StoreRating,
		StoreReviews:   prod.StoreReviews,
		Category:       category,
	}
}

// truncateTitle shortens long product titles for report display.
func truncateTitle(title string) string {
	if len(title) > 60 {
		return title[:57] + "..."
	}
	return title
}
