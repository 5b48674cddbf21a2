package mock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// MockLLM is a scripted llms.Model. It returns its responses in order and
// echoes the prompt once they run out. Every rendered prompt is recorded.
type MockLLM struct {
	// Err, when set, is returned by every call.
	Err error

	mu        sync.Mutex
	responses []string
	prompts   []string
	options   []llms.CallOptions
}

var _ llms.Model = (*MockLLM)(nil)

// NewMockLLM creates a mock model returning responses in order.
func NewMockLLM(responses ...string) *MockLLM {
	return &MockLLM{responses: responses}
}

// GenerateContent implements llms.Model.
func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(messages) == 0 {
		return nil, errors.New("mock llm: no messages")
	}

	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
			}
		}
	}

	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt.String())
	m.options = append(m.options, opts)

	content := prompt.String()
	if len(m.responses) > 0 {
		content = m.responses[0]
		m.responses = m.responses[1:]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}, nil
}

// Call implements llms.Model.
func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// Prompts returns every prompt the model received, in order.
func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Options returns the resolved call options of every call, in order.
func (m *MockLLM) Options() []llms.CallOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llms.CallOptions(nil), m.options...)
}

// CallCount returns the number of completions served.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
