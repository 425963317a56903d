// Package capability defines the narrow interfaces DesignMesh uses to talk to
// external AI services: vision/text generation, product search, image
// generation and best-effort image fetching. Each adapter normalizes a
// heterogeneous, loosely-typed external response into the internal data model
// or a defined failure; response shape probing never leaks into the pipeline.
package capability

import (
	"context"

	"github.com/hupe1980/designmesh/core"
)

// VisionModel generates structured text from an instruction plus optional
// image parts. Implementations must expose plain text regardless of the
// provider's envelope shape.
type VisionModel interface {
	GenerateText(ctx context.Context, parts []core.Part) (string, error)
}

// ProductSearcher resolves a short query string into a (possibly empty) list
// of normalized product records. An unrecognized response envelope yields an
// empty list, not an error.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]Product, error)
}

// ImageGenerator produces zero or more output blocks (image and/or text) from
// a multimodal prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, parts []core.Part) ([]OutputBlock, error)
}

// ImageFetcher retrieves a representative image for a keyword. Callers bound
// each attempt with a context deadline; a miss is (nil, error) and is always
// safe to skip.
type ImageFetcher interface {
	FetchImage(ctx context.Context, keyword string) ([]byte, error)
}

// Product is the normalized product record produced by search adapters.
type Product struct {
	Title          string  `json:"title"`
	Price          string  `json:"price,omitempty"`
	SearchLink     string  `json:"google_link,omitempty"`
	DirectLink     string  `json:"direct_link,omitempty"`
	Source         string  `json:"source,omitempty"`
	Delivery       string  `json:"delivery,omitempty"`
	ProductRating  float64 `json:"product_rating,omitempty"`
	ProductReviews int     `json:"product_reviews,omitempty"`
	StoreRating    float64 `json:"store_rating,omitempty"`
	StoreReviews   int     `json:"store_reviews,omitempty"`
}

// OutputBlock represents one block of an image generation response. Concrete
// block types implement the unexported marker enabling a closed set.
type OutputBlock interface{ isOutputBlock() }

// TextBlock is a text payload (the design description).
type TextBlock struct {
	Text string
}

// isOutputBlock implements the OutputBlock interface for TextBlock.
func (TextBlock) isOutputBlock() {}

// ImageBlock is a decoded image payload.
type ImageBlock struct {
	Data     []byte
	MimeType string
}

// isOutputBlock implements the OutputBlock interface for ImageBlock.
func (ImageBlock) isOutputBlock() {}
