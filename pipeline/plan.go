package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/designmesh/core"
	"github.com/hupe1980/designmesh/knowledge"
)

// planResponse is the JSON shape requested from the planning call.
type planResponse struct {
	DesignStyle       string                      `json:"design_style"`
	BudgetEstimate    float64                     `json:"budget_estimate"`
	FurnitureNeeded   []core.FurnitureRequirement `json:"furniture_needed"`
	ColorScheme       []string                    `json:"color_scheme"`
	LayoutDescription string                      `json:"layout_description"`
}

// createDesignPlan is stage 2: it asks the text capability for a full design
// plan grounded in the room analysis and the static design knowledge base.
// On failure, fixed defaults keep the plan valid: style and colors get the
// documented values and the furniture list branches on the room type.
func (p *Pipeline) createDesignPlan(ctx context.Context) {
	p.state.setCurrentStep("Creating design plan")
	p.state.addMessage("Creating comprehensive design plan...")

	p.guard(StageDesignPlanning, "Design planning", func() error {
		analysis := p.state.Plan().RoomAnalysis
		if analysis == nil {
			return fmt.Errorf("no room analysis")
		}
		start := time.Now()
		text, err := p.deps.Vision.GenerateText(ctx, []core.Part{
			core.TextPart{Text: planningPrompt(*analysis)},
		})
		p.logCapability("vision", start, err)
		if err != nil {
			return fmt.Errorf("planning call: %w", err)
		}
		var plan planResponse
		if err := decodeModelJSON(text, &plan); err != nil {
			return fmt.Errorf("parse plan: %w", err)
		}
		if plan.DesignStyle == "" || len(plan.FurnitureNeeded) == 0 {
			return fmt.Errorf("plan missing design_style or furniture_needed")
		}
		p.state.mergePlan(plan.DesignStyle, plan.BudgetEstimate, plan.FurnitureNeeded, plan.ColorScheme, plan.LayoutDescription)
		p.state.addMessage("Design style selected: " + plan.DesignStyle)
		p.state.appendReport(planMarkdown(p.state.Plan()))
		return nil
	}, func(error) {
		analysis := p.state.Plan().RoomAnalysis
		roomType := "living room"
		if analysis != nil {
			roomType = analysis.RoomType
		}
		p.state.mergePlan(defaultDesignStyle, 0, defaultFurniture(roomType), defaultColorScheme, "")
		p.state.addMessage("Using a standard " + defaultDesignStyle + " plan")
		p.state.appendReport(planMarkdown(p.state.Plan()))
	})
}

// planningPrompt embeds the analysis and relevant design principles into the
// planning instruction.
func planningPrompt(a core.RoomAnalysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Based on this room analysis, create a detailed interior design plan:

Room Type: %s
Dimensions: %gm x %gm
Style Suggestions: %s
Color Palette: %s

Design principles to respect:
`,
		a.RoomType,
		a.DimensionsEstimate.Width, a.DimensionsEstimate.Length,
		strings.Join(a.StyleSuggestions, ", "),
		strings.Join(a.ColorPalette, ", "),
	)
	for _, tip := range knowledge.DesignTips(a.RoomType) {
		sb.WriteString("- " + tip + "\n")
	}
	sb.WriteString(`
Create a comprehensive design plan that includes:
1. Selected design style
2. Detailed furniture list with categories
3. Layout description
4. Budget estimate
5. Color scheme refinement

Return as JSON:
{
    "design_style": "string",
    "budget_estimate": number,
    "furniture_needed": [
        {"item": "string", "category": "string", "priority": "high/medium/low", "quantity": number}
    ],
    "color_scheme": ["color1", "color2", "color3"],
    "layout_description": "detailed layout plan"
}`)
	return sb.String()
}

// planMarkdown renders the Design Plan report section including the
// furniture list. The budget line is omitted when no estimate exists.
func planMarkdown(plan core.DesignPlan) string {
	var sb strings.Builder
	sb.WriteString("## Design Plan\n")
	fmt.Fprintf(&sb, "- **Style**: %s\n", plan.DesignStyle)
	if plan.BudgetEstimate > 0 {
		fmt.Fprintf(&sb, "- **Budget Estimate**: $%s\n", formatMoney(plan.BudgetEstimate))
	}
	fmt.Fprintf(&sb, "- **Color Scheme**: %s\n", strings.Join(plan.ColorScheme, ", "))
	if plan.LayoutDescription != "" {
		sb.WriteString("\n### Layout Description\n")
		sb.WriteString(plan.LayoutDescription + "\n")
	}
	sb.WriteString("\n### Furniture List\n")
	for _, req := range plan.FurnitureNeeded {
		fmt.Fprintf(&sb, "- **%s** (%s) - Priority: %s - Qty: %d\n", req.Item, req.Category, req.Priority, req.Quantity)
	}
	sb.WriteString("\n")
	return sb.String()
}
