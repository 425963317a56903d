// Package anthropic provides a vision capability adapter for the Anthropic
// Claude API, selectable as an alternative to the OpenAI adapter.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/designmesh/core"
)

// Options configures the Anthropic vision adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Capability wraps the Anthropic Messages API behind the VisionModel interface.
type Capability struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic capability using the official client.
func New(optFns ...func(o *Options)) *Capability {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Capability{client: &client, opts: opts}
}

// NewFromClient creates a new Anthropic capability from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Capability {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Capability{client: client, opts: opts}
}

// GenerateText implements capability.VisionModel via a single-turn Messages
// API call with inline base64 image blocks.
func (c *Capability) GenerateText(ctx context.Context, parts []core.Part) (string, error) {
	blocks := buildBlocks(parts)
	if len(blocks) == 0 {
		return "", fmt.Errorf("anthropic message: no content parts")
	}
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}
	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// buildBlocks converts normalized parts into Anthropic content blocks.
func buildBlocks(parts []core.Part) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, p := range parts {
		switch part := p.(type) {
		case core.TextPart:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case core.ImagePart:
			mime := part.MimeType
			if mime == "" {
				mime = "image/jpeg"
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(mime, base64.StdEncoding.EncodeToString(part.Data)))
		}
	}
	return blocks
}
