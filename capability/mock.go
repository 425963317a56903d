package capability

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/designmesh/core"
)

// MockVision is a lightweight in-memory VisionModel useful for tests and
// examples. Responses are matched by substring against the textual portion of
// the request; unmatched prompts get a deterministic echo.
type MockVision struct {
	mu        sync.Mutex
	responses map[string]string
	Err       error // returned by every call when set
	Calls     int
}

// NewMockVision constructs an empty MockVision.
func NewMockVision() *MockVision {
	return &MockVision{responses: make(map[string]string)}
}

// AddResponse registers a canned completion for prompts containing marker.
func (m *MockVision) AddResponse(marker, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[marker] = response
}

// GenerateText implements VisionModel.
func (m *MockVision) GenerateText(_ context.Context, parts []core.Part) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	prompt := core.TextOf(parts)
	for marker, resp := range m.responses {
		if strings.Contains(prompt, marker) {
			return resp, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// MockSearcher is an in-memory ProductSearcher keyed by exact query.
type MockSearcher struct {
	mu      sync.Mutex
	results map[string][]Product
	Err     error
	Queries []string
}

// NewMockSearcher constructs an empty MockSearcher.
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{results: make(map[string][]Product)}
}

// AddProducts registers the products returned for a query.
func (m *MockSearcher) AddProducts(query string, products ...Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = products
}

// SearchProducts implements ProductSearcher.
func (m *MockSearcher) SearchProducts(_ context.Context, query string) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.results[query], nil
}

// MockGenerator is an in-memory ImageGenerator returning fixed blocks.
type MockGenerator struct {
	mu     sync.Mutex
	Blocks []OutputBlock
	Err    error
	Calls  int
}

// GenerateImage implements ImageGenerator.
func (m *MockGenerator) GenerateImage(_ context.Context, _ []core.Part) ([]OutputBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Blocks, nil
}

// MockFetcher is an in-memory ImageFetcher. When Slow is set the fetch
// blocks until the context expires, simulating a slow scrape.
type MockFetcher struct {
	mu    sync.Mutex
	Image []byte
	Err   error
	Slow  bool
	Calls int
}

// FetchImage implements ImageFetcher.
func (m *MockFetcher) FetchImage(ctx context.Context, _ string) ([]byte, error) {
	m.mu.Lock()
	m.Calls++
	slow, img, err := m.Slow, m.Image, m.Err
	m.mu.Unlock()
	if slow {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}
