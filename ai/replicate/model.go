package replicate

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// DefaultMaxLength is the max_length sent to text models when the call sets no MaxTokens.
const DefaultMaxLength = 2000

type outputKind int

const (
	textOutput outputKind = iota
	imageOutput
)

// Model runs a Replicate model version as an llms.Model. The prompt is sent
// as the "prompt" input.
type Model struct {
	client  *Client
	version string
	kind    outputKind
}

var _ llms.Model = (*Model)(nil)

// NewTextModel adapts a text generation model. Streamed token outputs are
// concatenated into one completion.
func NewTextModel(client *Client, version string) *Model {
	return &Model{client: client, version: version, kind: textOutput}
}

// NewImageModel adapts a text-to-image model. The completion is the URL of
// the first rendered image.
func NewImageModel(client *Client, version string) *Model {
	return &Model{client: client, version: version, kind: imageOutput}
}

// GenerateContent implements llms.Model.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	input := map[string]any{"prompt": promptText(messages)}
	if m.kind == textOutput {
		input["max_length"] = DefaultMaxLength
		if opts.MaxTokens > 0 {
			input["max_length"] = opts.MaxTokens
		}
		if opts.Temperature > 0 {
			input["temperature"] = opts.Temperature
		}
	}

	out, err := m.client.Run(ctx, m.version, input)
	if err != nil {
		return nil, err
	}

	content := strings.Join(out, "")
	if m.kind == imageOutput {
		content = out[0]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

// Call implements llms.Model.
func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// promptText flattens the text parts of every message into one prompt.
func promptText(messages []llms.MessageContent) string {
	var parts []string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				parts = append(parts, text.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}
