package core

import "time"

// Priority expresses how important a furniture requirement is to the plan.
type Priority string

const (
	// PriorityHigh marks must-have pieces (bed, sofa).
	PriorityHigh Priority = "high"
	// PriorityMedium marks recommended pieces.
	PriorityMedium Priority = "medium"
	// PriorityLow marks optional accents.
	PriorityLow Priority = "low"
)

// Dimensions is a rough width x length estimate in meters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// RoomAnalysis captures what the vision capability extracted from the room
// photo. Produced once by the analysis stage and immutable thereafter; a
// fixed default is substituted when analysis fails so downstream stages
// always hold a valid value.
type RoomAnalysis struct {
	RoomType           string     `json:"room_type"`
	DimensionsEstimate Dimensions `json:"dimensions_estimate"`
	ExistingFeatures   []string   `json:"existing_features"`
	LightingConditions string     `json:"lighting_conditions"`
	StyleSuggestions   []string   `json:"style_suggestions"`
	ColorPalette       []string   `json:"color_palette"`
}

// FurnitureRequirement is one entry of the plan's furniture list.
type FurnitureRequirement struct {
	Item     string   `json:"item"`
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
	Quantity int      `json:"quantity"`
}

// DesignPlan aggregates the output of the planning stage. It owns the room
// analysis (nil only before stage 1 completes) and is mutated only by the
// planning stage; read-only afterward.
type DesignPlan struct {
	SessionID         string                 `json:"session_id"`
	CreatedAt         time.Time              `json:"created_at"`
	RoomAnalysis      *RoomAnalysis          `json:"room_analysis,omitempty"`
	DesignStyle       string                 `json:"design_style"`
	BudgetEstimate    float64                `json:"budget_estimate,omitempty"`
	FurnitureNeeded   []FurnitureRequirement `json:"furniture_needed"`
	ColorScheme       []string               `json:"color_scheme"`
	LayoutDescription string                 `json:"layout_description"`
}

// FurnitureItem is one shoppable product selected by the shopping stage.
// Immutable once appended to the session's running list except for the image
// fields, which the design stage fills in after a successful fetch.
type FurnitureItem struct {
	Title          string   `json:"title"`
	Price          string   `json:"price,omitempty"`
	SearchLink     string   `json:"search_link,omitempty"`
	DirectLink     string   `json:"direct_link,omitempty"`
	Source         string   `json:"source,omitempty"`
	Delivery       string   `json:"delivery,omitempty"`
	ProductRating  float64  `json:"product_rating,omitempty"`
	ProductReviews int      `json:"product_reviews,omitempty"`
	StoreRating    float64  `json:"store_rating,omitempty"`
	StoreReviews   int      `json:"store_reviews,omitempty"`
	Category       string   `json:"category,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	LocalImagePath string   `json:"local_image_path,omitempty"`
}

// Message is one progress entry in the pipeline's append-only audit trail.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"message"`
}
