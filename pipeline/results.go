package pipeline

import (
	"fmt"
	"strings"

	"github.com/hupe1980/designmesh/core"
)

// Results is the final client-facing bundle of a completed run.
type Results struct {
	SessionID         string               `json:"session_id"`
	OriginalImage     string               `json:"original_image"`
	DesignedImage     string               `json:"designed_image"`
	DesignPlan        core.DesignPlan      `json:"design_plan"`
	TotalCostEstimate float64              `json:"total_cost_estimate"`
	FurnitureItems    []core.FurnitureItem `json:"furniture_items"`
	CompletionTime    float64              `json:"completion_time"`
	DesignDescription string               `json:"design_description"`
	SpokenSummary     string               `json:"spoken_summary,omitempty"`
}

// Results assembles the result bundle from the current state. Callers gate on
// the completed status; the bundle itself is well-formed at any point.
func (p *Pipeline) Results() Results {
	plan := p.state.Plan()
	items := p.state.Furniture()
	designed := p.state.DesignedImage()
	if designed == "" {
		designed = fallbackDesignID
	}
	roomType := "room"
	if plan.RoomAnalysis != nil {
		roomType = plan.RoomAnalysis.RoomType
	}
	return Results{
		SessionID:         p.sessionID,
		OriginalImage:     p.artifactRef(p.roomImageID),
		DesignedImage:     p.artifactRef(designed),
		DesignPlan:        plan,
		TotalCostEstimate: TotalCost(items),
		FurnitureItems:    items,
		CompletionTime:    p.state.Elapsed().Seconds(),
		DesignDescription: p.state.Report(),
		SpokenSummary:     spokenSummary(roomType, plan.DesignStyle, len(items), plan.ColorScheme),
	}
}

// spokenSummary renders a short narration of the finished design, suitable
// for a text-to-speech frontend.
func spokenSummary(roomType, style string, itemCount int, colors []string) string {
	palette := "neutral"
	if len(colors) == 1 {
		palette = colors[0]
	} else if len(colors) > 1 {
		palette = strings.Join(colors[:2], " and ")
	}
	return fmt.Sprintf(
		"Welcome to your newly designed %s! I've created a beautiful %s interior featuring a %s color palette, "+
			"with %d carefully selected furniture pieces that complement each other and make the space both stylish and functional.",
		roomType, style, palette, itemCount,
	)
}
