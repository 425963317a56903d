package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/designmesh/capability"
	"github.com/hupe1980/designmesh/core"
	"github.com/hupe1980/designmesh/knowledge"
)

// fallbackDesignID is the artifact id the original photo is copied to when
// generation yields no image, so a visible output always exists.
const fallbackDesignID = "designed.jpg"

// generateFinalDesign is stage 4: it assembles a multimodal generation
// request (requirements text, the room photo and up to three best-effort
// product images), invokes the image generation capability and persists the
// result. When no image block comes back the original photo stands in as the
// designed output. Finalization always appends the summary section with the
// aggregated cost.
func (p *Pipeline) generateFinalDesign(ctx context.Context) {
	p.state.setCurrentStep("Generating final design")
	p.state.addMessage("Creating final room design...")

	p.guard(StageDesignGeneration, "Design generation", func() error {
		roomImg, err := p.roomImage()
		if err != nil {
			return fmt.Errorf("load room image: %w", err)
		}

		items := p.state.Furniture()
		if len(items) > maxFurnitureItems {
			items = items[:maxFurnitureItems]
		}
		parts := []core.Part{
			core.TextPart{Text: generationPrompt(p.state.Plan(), items)},
			core.ImagePart{Data: roomImg, MimeType: "image/jpeg"},
		}
		parts = append(parts, p.enrichWithProductImages(ctx, items)...)

		description := "Your room has been beautifully redesigned with the selected furniture."
		designedID := ""

		start := time.Now()
		blocks, err := p.deps.Generator.GenerateImage(ctx, parts)
		p.logCapability("image_generation", start, err)
		if err != nil {
			// Recoverable: the fallback below reuses the original photo.
			p.logger.Warn("image generation failed", "session_id", p.sessionID, "error", err)
		}
		for _, b := range blocks {
			switch blk := b.(type) {
			case capability.ImageBlock:
				if designedID != "" {
					continue
				}
				id := fmt.Sprintf("designed_%s.png", core.ShortID())
				if saveErr := p.deps.Artifacts.Save(p.sessionID, id, blk.Data); saveErr != nil {
					p.logger.Error("save generated image", "error", saveErr)
					continue
				}
				designedID = id
				p.state.addMessage("New room visualization created!")
			case capability.TextBlock:
				if blk.Text != "" {
					description = blk.Text
				}
			}
		}
		if designedID == "" {
			p.logger.Warn("no image generated, using original as fallback", "session_id", p.sessionID)
			if saveErr := p.deps.Artifacts.Save(p.sessionID, fallbackDesignID, roomImg); saveErr != nil {
				return fmt.Errorf("write fallback design: %w", saveErr)
			}
			designedID = fallbackDesignID
		}
		p.state.setDesignedImage(designedID)
		p.state.addMessage("Final design generated successfully!")

		p.state.appendReport(summaryMarkdown(
			TotalCost(p.state.Furniture()),
			p.state.furnitureCount(),
			p.state.Plan().DesignStyle,
			p.state.Elapsed(),
			description,
		))
		return nil
	}, func(error) {
		if roomImg, imgErr := p.roomImage(); imgErr == nil {
			if saveErr := p.deps.Artifacts.Save(p.sessionID, fallbackDesignID, roomImg); saveErr == nil {
				p.state.setDesignedImage(fallbackDesignID)
			}
		}
		p.state.addMessage("Design generation unavailable, keeping the original room photo")
		p.state.appendReport(summaryMarkdown(
			TotalCost(p.state.Furniture()),
			p.state.furnitureCount(),
			p.state.Plan().DesignStyle,
			p.state.Elapsed(),
			"The original room photo was kept because no visualization could be generated.",
		))
	})
}

// enrichWithProductImages attempts to fetch a representative image for the
// first few furniture items. Each attempt carries its own timeout so a slow
// scrape never stalls the stage; failures are logged quietly and skipped.
// Successful fetches are persisted, recorded on the item and returned as
// additional image parts for the generation request.
func (p *Pipeline) enrichWithProductImages(ctx context.Context, items []core.FurnitureItem) []core.Part {
	if p.deps.Fetcher == nil || len(items) == 0 {
		return nil
	}
	p.state.addMessage("Looking for furniture images...")

	var parts []core.Part
	fetched := 0
	for idx, item := range items {
		if idx >= maxImageFetches || fetched >= maxImageFetches {
			break
		}
		img, ok := p.fetchProductImage(ctx, item.Title)
		if !ok {
			continue
		}
		artifactID := fmt.Sprintf("product_%s.jpg", core.ShortID())
		if err := p.deps.Artifacts.Save(p.sessionID, artifactID, img); err != nil {
			p.logger.Warn("save product image", "error", err)
			continue
		}
		p.state.setFurnitureImage(idx, p.artifactRef(artifactID), artifactID)
		parts = append(parts, core.ImagePart{Data: img, MimeType: "image/jpeg"})
		fetched++
		p.state.addMessage("Found image")
	}
	if fetched == 0 {
		p.state.addMessage("Generating new room design...")
	} else {
		p.state.addMessage(fmt.Sprintf("Generating new room with %d furniture items...", fetched))
	}
	return parts
}

// fetchProductImage runs one timeout-bounded fetch attempt.
func (p *Pipeline) fetchProductImage(ctx context.Context, title string) ([]byte, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	defer cancel()
	start := time.Now()
	img, err := p.deps.Fetcher.FetchImage(fetchCtx, title)
	p.logCapability("image_fetch", start, err)
	if err != nil || len(img) == 0 {
		p.logger.Debug("image fetch skipped", "title", title, "error", err)
		return nil, false
	}
	return img, true
}

// generationPrompt builds the text block of the generation request: design
// requirements plus a short descriptor per furniture item.
func generationPrompt(plan core.DesignPlan, items []core.FurnitureItem) string {
	prompt := fmt.Sprintf(`Generate a photorealistic interior design visualization of this empty room furnished with the shown furniture items.

The first image shows the empty room to be designed.
The following images show the furniture pieces to place in the room.

Design Requirements:
- Style: %s
- Color Scheme: %s
- Layout: %s
`, plan.DesignStyle, strings.Join(plan.ColorScheme, ", "), plan.LayoutDescription)

	prompt += "\nStyle guidance:\n"
	for _, rec := range knowledge.StyleRecommendations(plan.DesignStyle) {
		prompt += "- " + rec + "\n"
	}

	for idx, item := range items {
		prompt += fmt.Sprintf("\nFurniture %d: %s", idx+1, item.Title)
		if item.Category != "" {
			prompt += fmt.Sprintf(" (%s)", item.Category)
		}
	}

	prompt += `

Create a beautiful, photorealistic room visualization that:
- Shows all the furniture pieces properly placed in the room
- Maintains the room's original architecture and windows
- Uses professional interior design principles
- Creates a cohesive, livable space
- Adds appropriate lighting and ambiance

Generate a high-quality interior design image showing the furnished room.`
	return prompt
}

// summaryMarkdown renders the Final Design Summary section.
func summaryMarkdown(totalCost float64, itemCount int, style string, elapsed time.Duration, description string) string {
	return fmt.Sprintf(`
## Final Design Summary
- **Total Estimated Cost**: $%s
- **Items Selected**: %d
- **Design Style**: %s
- **Completion Time**: %.2f seconds

### Design Description
%s
`, formatMoney(totalCost), itemCount, style, elapsed.Seconds(), description)
}
