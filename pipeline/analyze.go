package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/designmesh/core"
)

const analysisPrompt = `Analyze this empty room and provide a detailed assessment:

1. Room type (bedroom, living room, kitchen, etc.)
2. Estimated dimensions (approximate width x length in meters)
3. Existing features (windows, doors, built-ins, electrical outlets)
4. Natural lighting conditions
5. Suggested design styles that would work well
6. Recommended color palette based on lighting and space

Return your analysis as a JSON object with the following structure:
{
    "room_type": "string",
    "dimensions_estimate": {"width": number, "length": number},
    "existing_features": ["feature1", "feature2"],
    "lighting_conditions": "string",
    "style_suggestions": ["style1", "style2", "style3"],
    "color_palette": ["color1", "color2", "color3"]
}`

// analyzeRoom is stage 1: it sends the room photo to the vision capability
// and parses the structured assessment. On any failure a fixed generic living
// room analysis is substituted so planning always has a valid input.
func (p *Pipeline) analyzeRoom(ctx context.Context) {
	p.state.setCurrentStep("Analyzing room characteristics")
	p.state.addMessage("Analyzing room dimensions, lighting, and features...")
	p.state.appendReport("# Interior Design Plan\n\n")

	p.guard(StageRoomAnalysis, "Room analysis", func() error {
		img, err := p.roomImage()
		if err != nil {
			return fmt.Errorf("load room image: %w", err)
		}
		start := time.Now()
		text, err := p.deps.Vision.GenerateText(ctx, []core.Part{
			core.TextPart{Text: analysisPrompt},
			core.ImagePart{Data: img, MimeType: "image/jpeg"},
		})
		p.logCapability("vision", start, err)
		if err != nil {
			return fmt.Errorf("vision call: %w", err)
		}
		var analysis core.RoomAnalysis
		if err := decodeModelJSON(text, &analysis); err != nil {
			return fmt.Errorf("parse analysis: %w", err)
		}
		if analysis.RoomType == "" {
			return fmt.Errorf("analysis missing room_type")
		}
		p.state.setAnalysis(analysis)
		p.state.addMessage("Room identified as: " + analysis.RoomType)
		p.state.appendReport(analysisMarkdown(analysis))
		return nil
	}, func(error) {
		analysis := defaultRoomAnalysis()
		p.state.setAnalysis(analysis)
		p.state.addMessage("Analysis unavailable, continuing with a generic room profile")
		p.state.appendReport(analysisMarkdown(analysis))
	})
}

// analysisMarkdown renders the Room Analysis report section.
func analysisMarkdown(a core.RoomAnalysis) string {
	return fmt.Sprintf(`## Room Analysis
- **Room Type**: %s
- **Estimated Dimensions**: %gm x %gm
- **Lighting**: %s
- **Existing Features**: %s
- **Suggested Styles**: %s
- **Color Palette**: %s

`,
		a.RoomType,
		a.DimensionsEstimate.Width, a.DimensionsEstimate.Length,
		a.LightingConditions,
		strings.Join(a.ExistingFeatures, ", "),
		strings.Join(a.StyleSuggestions, ", "),
		strings.Join(a.ColorPalette, ", "),
	)
}
