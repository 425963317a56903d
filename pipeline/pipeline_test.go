package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/designmesh/artifact"
	"github.com/hupe1980/designmesh/capability"
	"github.com/hupe1980/designmesh/core"
)

const (
	testSession = "sess1"
	testRoomID  = "room.jpg"
)

var testRoomBytes = []byte("fake-room-image-bytes")

const bedroomAnalysisJSON = `{
	"room_type": "bedroom",
	"dimensions_estimate": {"width": 4, "length": 5},
	"existing_features": ["window"],
	"lighting_conditions": "bright natural light",
	"style_suggestions": ["scandinavian"],
	"color_palette": ["white", "oak"]
}`

const bedroomPlanJSON = "```json\n" + `{
	"design_style": "Scandinavian",
	"budget_estimate": 2500,
	"furniture_needed": [
		{"item": "platform bed with light oak frame", "category": "Bedroom", "priority": "high", "quantity": 1},
		{"item": "minimalist bedside tables", "category": "Bedroom", "priority": "medium", "quantity": 2}
	],
	"color_scheme": ["White", "Light Oak"],
	"layout_description": "Bed against the north wall."
}` + "\n```"

type testDeps struct {
	vision    *capability.MockVision
	searcher  *capability.MockSearcher
	generator *capability.MockGenerator
	fetcher   *capability.MockFetcher
	artifacts *artifact.InMemoryStore
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()
	store := artifact.NewInMemoryStore()
	require.NoError(t, store.Save(testSession, testRoomID, testRoomBytes))
	return testDeps{
		vision:    capability.NewMockVision(),
		searcher:  capability.NewMockSearcher(),
		generator: &capability.MockGenerator{},
		fetcher:   &capability.MockFetcher{},
		artifacts: store,
	}
}

func newTestPipeline(d testDeps) *Pipeline {
	return New(testSession, testRoomID, Deps{
		Vision:    d.vision,
		Searcher:  d.searcher,
		Generator: d.generator,
		Fetcher:   d.fetcher,
		Artifacts: d.artifacts,
	}, func(o *Options) {
		o.PacingDelay = 0
		o.FetchTimeout = 100 * time.Millisecond
	})
}

func TestPipelineRunCompletes(t *testing.T) {
	d := newTestDeps(t)
	d.vision.AddResponse("Analyze this empty room", bedroomAnalysisJSON)
	d.vision.AddResponse("create a detailed interior design plan", bedroomPlanJSON)
	d.searcher.AddProducts("bed",
		capability.Product{Title: "Floyd Bed Frame", Price: "$1,295.00", Source: "Floyd", ProductRating: 4.8, ProductReviews: 120},
		capability.Product{Title: "Thuma The Bed", Price: "$1,095.00", Source: "Thuma"},
		capability.Product{Title: "Zinus Platform Bed", Price: "$349.00"},
	)
	d.searcher.AddProducts("nightstand",
		capability.Product{Title: "CB2 Suspend II Wood Nightstand", Price: "$299.00", Source: "CB2"},
	)
	d.generator.Blocks = []capability.OutputBlock{
		capability.ImageBlock{Data: []byte("generated-png"), MimeType: "image/png"},
		capability.TextBlock{Text: "A serene Scandinavian bedroom."},
	}
	d.fetcher.Image = []byte("product-image")

	p := newTestPipeline(d)
	p.Run(context.Background())

	assert.Equal(t, core.StatusCompleted, p.State().Status())

	snap := p.State().Snapshot()
	assert.Equal(t, stageNames, snap.StepsCompleted)
	assert.Equal(t, float64(100), snap.ProgressPercentage)
	assert.Empty(t, snap.Errors)

	// verbose plan items collapse to plain search nouns
	assert.Equal(t, []string{"bed", "nightstand"}, d.searcher.Queries)

	items := p.State().Furniture()
	require.Len(t, items, 3)
	assert.Equal(t, "Floyd Bed Frame", items[0].Title)
	assert.Equal(t, "Bedroom", items[0].Category)
	assert.True(t, strings.HasPrefix(items[0].ImageURL, "/uploads/"+testSession+"_product_"), "got %q", items[0].ImageURL)
	assert.True(t, strings.HasPrefix(items[0].LocalImagePath, "product_"))

	results := p.Results()
	assert.Equal(t, testSession, results.SessionID)
	assert.Equal(t, "/uploads/"+testSession+"_"+testRoomID, results.OriginalImage)
	assert.True(t, strings.HasPrefix(results.DesignedImage, "/uploads/"+testSession+"_designed_"))
	assert.True(t, strings.HasSuffix(results.DesignedImage, ".png"))
	assert.InDelta(t, 2689.00, results.TotalCostEstimate, 0.001)
	assert.Greater(t, results.CompletionTime, 0.0)
	assert.Equal(t, "Scandinavian", results.DesignPlan.DesignStyle)
	assert.Contains(t, results.SpokenSummary, "bedroom")
	assert.Contains(t, results.SpokenSummary, "White and Light Oak")

	report := p.State().Report()
	for _, section := range []string{
		"# Interior Design Plan",
		"## Room Analysis",
		"## Design Plan",
		"## Shopping Results",
		"## Final Design Summary",
	} {
		assert.Contains(t, report, section)
	}
	assert.Contains(t, report, "**Total Estimated Cost**: $2,689.00")
	assert.Contains(t, report, "A serene Scandinavian bedroom.")

	var texts []string
	for _, m := range snap.Messages {
		texts = append(texts, m.Text)
	}
	assert.Contains(t, texts, "Design style selected: Scandinavian")
	assert.Contains(t, texts, "Interior design completed successfully!")
}

func TestPipelineAnalysisFallback(t *testing.T) {
	// No canned responses: the vision mock echoes the prompt, which is not
	// parseable, so both analysis and planning fall back to defaults.
	d := newTestDeps(t)
	d.searcher.AddProducts("sofa", capability.Product{Title: "Article Sven", Price: "$1,799.00"})
	d.searcher.AddProducts("coffee table", capability.Product{Title: "IKEA LACK", Price: "$49.00"})

	p := newTestPipeline(d)
	p.Run(context.Background())

	assert.Equal(t, core.StatusCompleted, p.State().Status())

	plan := p.State().Plan()
	require.NotNil(t, plan.RoomAnalysis)
	assert.Equal(t, "living room", plan.RoomAnalysis.RoomType)
	assert.Equal(t, core.Dimensions{Width: 4.5, Length: 5.5}, plan.RoomAnalysis.DimensionsEstimate)
	assert.Equal(t, []string{"window", "door"}, plan.RoomAnalysis.ExistingFeatures)
	assert.Equal(t, "natural light", plan.RoomAnalysis.LightingConditions)
	assert.Equal(t, []string{"modern", "minimalist", "scandinavian"}, plan.RoomAnalysis.StyleSuggestions)
	assert.Equal(t, []string{"white", "light gray", "wood tones"}, plan.RoomAnalysis.ColorPalette)

	snap := p.State().Snapshot()
	assert.NotContains(t, snap.StepsCompleted, StageRoomAnalysis)
	require.NotEmpty(t, snap.Errors)
	assert.Contains(t, snap.Errors[0], "Room analysis failed")

	// the fallback analysis still yields a renderable report section
	assert.Contains(t, p.State().Report(), "- **Room Type**: living room")
}

func TestPipelinePlanningFallbackBedroom(t *testing.T) {
	d := newTestDeps(t)
	d.vision.AddResponse("Analyze this empty room", bedroomAnalysisJSON)
	// planning gets the unparseable echo and must fall back

	p := newTestPipeline(d)
	p.Run(context.Background())

	plan := p.State().Plan()
	assert.Equal(t, "Modern Scandinavian", plan.DesignStyle)
	assert.Equal(t, []string{"White", "Light Oak", "Soft Gray"}, plan.ColorScheme)
	require.Len(t, plan.FurnitureNeeded, 3)
	assert.Equal(t, "bed", plan.FurnitureNeeded[0].Item)
	assert.Equal(t, "nightstand", plan.FurnitureNeeded[1].Item)
	assert.Equal(t, 2, plan.FurnitureNeeded[1].Quantity)
	assert.Equal(t, "dresser", plan.FurnitureNeeded[2].Item)

	assert.Equal(t, []string{"bed", "nightstand", "dresser"}, d.searcher.Queries)
}

func TestPipelineShoppingMockFallback(t *testing.T) {
	d := newTestDeps(t)
	d.vision.AddResponse("Analyze this empty room", bedroomAnalysisJSON)
	// searcher holds no products, so every requirement degrades to the
	// static catalog substitute

	p := newTestPipeline(d)
	p.Run(context.Background())

	items := p.State().Furniture()
	require.Len(t, items, 3)
	assert.Equal(t, "West Elm Mid-Century Bed Frame - Acorn", items[0].Title)
	assert.Equal(t, "CB2 Suspend II Wood Nightstand", items[1].Title)
	assert.Equal(t, "IKEA MALM 6-drawer Dresser White", items[2].Title)
	// the requirement's own category wins over the catalog default
	assert.Equal(t, "Storage", items[2].Category)

	assert.InDelta(t, 1427.00, TotalCost(items), 0.001)
	assert.Contains(t, p.State().Report(), "West Elm")
}

func TestPipelineShoppingBounds(t *testing.T) {
	d := newTestDeps(t)
	d.vision.AddResponse("Analyze this empty room", bedroomAnalysisJSON)
	d.vision.AddResponse("create a detailed interior design plan", `{
		"design_style": "Industrial",
		"furniture_needed": [
			{"item": "sofa", "category": "Seating", "priority": "high", "quantity": 1},
			{"item": "chair", "category": "Seating", "priority": "medium", "quantity": 2},
			{"item": "table", "category": "Tables", "priority": "medium", "quantity": 1},
			{"item": "dresser", "category": "Storage", "priority": "low", "quantity": 1}
		],
		"color_scheme": ["Charcoal"]
	}`)
	for _, q := range []string{"sofa", "chair", "table", "dresser"} {
		d.searcher.AddProducts(q,
			capability.Product{Title: q + " one", Price: "$100.00"},
			capability.Product{Title: q + " two", Price: "$200.00"},
			capability.Product{Title: q + " three", Price: "$300.00"},
		)
	}

	p := newTestPipeline(d)
	p.Run(context.Background())

	// only the first three requirements are searched and each appends two
	// of its three results; the early-stop fires once the list holds five
	assert.Equal(t, []string{"sofa", "chair", "table"}, d.searcher.Queries)
	assert.Len(t, p.State().Furniture(), 6)

	var texts []string
	for _, m := range p.State().Snapshot().Messages {
		texts = append(texts, m.Text)
	}
	assert.Contains(t, texts, "Found enough furniture items, moving on...")
	assert.Contains(t, texts, "Found 6 furniture items")
}

func TestPipelineGenerationFallbackKeepsOriginal(t *testing.T) {
	d := newTestDeps(t)
	d.vision.AddResponse("Analyze this empty room", bedroomAnalysisJSON)
	d.generator.Err = assert.AnError

	p := newTestPipeline(d)
	p.Run(context.Background())

	assert.Equal(t, core.StatusCompleted, p.State().Status())
	assert.Equal(t, fallbackDesignID, p.State().DesignedImage())

	stored, err := d.artifacts.Get(testSession, fallbackDesignID)
	require.NoError(t, err)
	assert.Equal(t, testRoomBytes, stored)

	results := p.Results()
	assert.Equal(t, "/uploads/"+testSession+"_"+fallbackDesignID, results.DesignedImage)
	assert.Contains(t, p.State().Report(), "## Final Design Summary")
}

func TestPipelineSlowImageFetchDoesNotStallDesign(t *testing.T) {
	d := newTestDeps(t)
	d.vision.AddResponse("Analyze this empty room", bedroomAnalysisJSON)
	d.searcher.AddProducts("bed", capability.Product{Title: "Floyd Bed Frame", Price: "$1,295.00"})
	d.fetcher.Slow = true
	d.generator.Blocks = []capability.OutputBlock{
		capability.ImageBlock{Data: []byte("generated"), MimeType: "image/png"},
	}

	p := newTestPipeline(d)
	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline stalled on slow image fetch")
	}

	assert.Equal(t, core.StatusCompleted, p.State().Status())
	// the fetch timed out, so the item carries no image reference
	items := p.State().Furniture()
	require.NotEmpty(t, items)
	assert.Empty(t, items[0].ImageURL)
}

func TestPipelineStopBeforeRun(t *testing.T) {
	d := newTestDeps(t)
	p := newTestPipeline(d)

	p.Stop()
	p.Stop() // repeated stops are no-ops
	p.Run(context.Background())

	assert.NotEqual(t, core.StatusCompleted, p.State().Status())
	assert.Zero(t, d.vision.Calls)
	assert.Empty(t, p.State().Snapshot().StepsCompleted)

	stops := 0
	for _, m := range p.State().Snapshot().Messages {
		if m.Text == "Agent stopped by user" {
			stops++
		}
	}
	assert.Equal(t, 1, stops)
}

// panicVision simulates a capability implementation blowing up instead of
// returning an error.
type panicVision struct{ msg string }

func (v panicVision) GenerateText(context.Context, []core.Part) (string, error) {
	panic(v.msg)
}

func TestPipelinePanicMovesToError(t *testing.T) {
	d := newTestDeps(t)
	p := New(testSession, testRoomID, Deps{
		Vision:    panicVision{msg: "vision adapter blew up"},
		Searcher:  d.searcher,
		Generator: d.generator,
		Fetcher:   d.fetcher,
		Artifacts: d.artifacts,
	}, func(o *Options) { o.PacingDelay = 0 })

	p.Run(context.Background())

	assert.Equal(t, core.StatusError, p.State().Status())

	snap := p.State().Snapshot()
	require.NotEmpty(t, snap.Errors)
	assert.Contains(t, snap.Errors[0], "vision adapter blew up")

	var texts []string
	for _, m := range snap.Messages {
		texts = append(texts, m.Text)
	}
	assert.Contains(t, texts, "Error: vision adapter blew up")

	// no later stage ran
	assert.Empty(t, snap.StepsCompleted)
	assert.Empty(t, d.searcher.Queries)
	assert.Zero(t, d.generator.Calls)
	assert.NotContains(t, texts, "Interior design completed successfully!")
}

func TestPipelineMissingRoomImageFallsBack(t *testing.T) {
	d := newTestDeps(t)
	require.NoError(t, d.artifacts.DeleteSession(testSession))

	p := newTestPipeline(d)
	p.Run(context.Background())

	// every stage degrades but the run still finishes with a report
	assert.Equal(t, core.StatusCompleted, p.State().Status())
	assert.NotEmpty(t, p.State().Snapshot().Errors)
	assert.Contains(t, p.State().Report(), "# Interior Design Plan")
}
