// Package arcade implements the product search capability against an Arcade
// style tool-execution HTTP API (Google Shopping tool). The wire envelope of
// the tool runtime is not stable across versions, so extraction probes the
// known shapes and treats anything unrecognized as "no products" rather than
// a hard error.
package arcade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/designmesh/capability"
)

const (
	defaultBaseURL  = "https://api.arcade.dev"
	defaultToolName = "GoogleShopping.SearchProducts@3.0.0"
	maxBodyBytes    = 1 << 20
)

// Options configure the Arcade search adapter.
type Options struct {
	BaseURL    string
	APIKey     string
	UserID     string
	ToolName   string
	HTTPClient *http.Client
}

// Searcher wraps the Arcade tool-execution endpoint behind the
// ProductSearcher interface.
type Searcher struct {
	opts Options
}

// New creates a new Arcade searcher.
func New(optFns ...func(o *Options)) *Searcher {
	opts := Options{
		BaseURL:  defaultBaseURL,
		ToolName: defaultToolName,
		UserID:   "default_user",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Searcher{opts: opts}
}

// executeRequest is the tool invocation payload.
type executeRequest struct {
	ToolName string         `json:"tool_name"`
	UserID   string         `json:"user_id,omitempty"`
	Input    map[string]any `json:"input"`
}

// SearchProducts implements capability.ProductSearcher. Transport failures
// and non-2xx statuses are errors; an unrecognized response envelope is an
// empty result.
func (s *Searcher) SearchProducts(ctx context.Context, query string) ([]capability.Product, error) {
	payload, err := json.Marshal(executeRequest{
		ToolName: s.opts.ToolName,
		UserID:   s.opts.UserID,
		Input:    map[string]any{"keywords": query},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.BaseURL+"/v1/tools/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.opts.APIKey)
	}
	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arcade search: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("arcade search: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("arcade search: %s", resp.Status)
	}
	return ExtractProducts(body), nil
}

// ExtractProducts probes the known tool-output envelope shapes for a product
// list. Shapes seen in the wild:
//
//	{"output": {"value": {"products": [...]}}}
//	{"output": {"products": [...]}}
//	{"products": [...]}
//
// Anything else yields nil.
func ExtractProducts(raw []byte) []capability.Product {
	type productList struct {
		Products []capability.Product `json:"products"`
	}
	var nested struct {
		Output struct {
			Value    json.RawMessage      `json:"value"`
			Products []capability.Product `json:"products"`
		} `json:"output"`
		Products []capability.Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil
	}
	if len(nested.Output.Value) > 0 {
		var inner productList
		if err := json.Unmarshal(nested.Output.Value, &inner); err == nil && len(inner.Products) > 0 {
			return inner.Products
		}
	}
	if len(nested.Output.Products) > 0 {
		return nested.Output.Products
	}
	return nested.Products
}
