// Package openai implements the vision/text and image generation capabilities
// on top of the OpenAI API. It adapts DesignMesh's normalized multimodal parts
// into the SDK's message format and back, so no provider envelope shape leaks
// into the pipeline.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"

	"github.com/hupe1980/designmesh/capability"
	"github.com/hupe1980/designmesh/core"
)

// Options configure the OpenAI capability adapter. Fields mirror a subset of
// the API parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	ImageModel          openai.ImageModel
	Temperature         float64
	MaxCompletionTokens int64
}

// Capability wraps the OpenAI API behind the VisionModel and ImageGenerator
// interfaces.
type Capability struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI capability using the default client (credentials
// resolved from the environment).
func New(optFns ...func(o *Options)) *Capability {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI capability from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Capability {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		ImageModel:          openai.ImageModelDallE3,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Capability{client: client, opts: opts}
}

// GenerateText implements capability.VisionModel using Chat Completions with
// inline image parts.
func (c *Capability) GenerateText(ctx context.Context, parts []core.Part) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(buildContentParts(parts)),
	}
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               c.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage implements capability.ImageGenerator. The multimodal prompt
// is first condensed into a scene description via a vision completion, then
// rendered with the image model. Both the description and the decoded image
// are returned as output blocks; a prompt that yields no image yields only
// the text block.
func (c *Capability) GenerateImage(ctx context.Context, parts []core.Part) ([]capability.OutputBlock, error) {
	var blocks []capability.OutputBlock

	description, err := c.GenerateText(ctx, append(parts, core.TextPart{
		Text: "\n\nDescribe the finished room in two or three sentences, then provide a single concise rendering prompt for an image model.",
	}))
	if err != nil {
		return nil, err
	}
	if description != "" {
		blocks = append(blocks, capability.TextBlock{Text: description})
	}

	prompt := core.TextOf(parts)
	if description != "" {
		prompt = description
	}
	img, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:          c.opts.ImageModel,
		Prompt:         truncatePrompt(prompt),
		N:              openai.Int(1),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
		Size:           openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		// The description block still has value; the pipeline falls back to
		// the original photo when no image block is present.
		return blocks, nil
	}
	for _, d := range img.Data {
		if d.B64JSON == "" {
			continue
		}
		raw, decErr := base64.StdEncoding.DecodeString(d.B64JSON)
		if decErr != nil {
			continue
		}
		blocks = append(blocks, capability.ImageBlock{Data: raw, MimeType: "image/png"})
	}
	return blocks, nil
}

// buildContentParts converts normalized parts into OpenAI content parts,
// inlining images as data URLs.
func buildContentParts(parts []core.Part) []openai.ChatCompletionContentPartUnionParam {
	var out []openai.ChatCompletionContentPartUnionParam
	for _, p := range parts {
		switch part := p.(type) {
		case core.TextPart:
			if part.Text != "" {
				out = append(out, openai.TextContentPart(part.Text))
			}
		case core.ImagePart:
			mime := part.MimeType
			if mime == "" {
				mime = "image/jpeg"
			}
			url := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(part.Data))
			out = append(out, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
		}
	}
	return out
}

// truncatePrompt keeps the rendering prompt inside the image API's limit.
func truncatePrompt(s string) string {
	const maxLen = 3800
	if len(s) <= maxLen {
		return s
	}
	s = s[:maxLen]
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	return s
}
