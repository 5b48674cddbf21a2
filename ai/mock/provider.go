// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import (
	"github.com/poiesic/threadoor/ai"
	"github.com/tmc/langchaingo/llms"
)

// MockProvider is a test double for ai.AIProvider.
// It aggregates a mock embedder and mock models.
type MockProvider struct {
	embedder   *MockEmbedder
	model      *MockLLM
	imageModel *MockLLM
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockModel() to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		model:      NewMockLLM(),
		imageModel: NewMockLLM(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// A nil imageModel makes ImageModel return nil.
func NewMockProviderWithServices(embedder *MockEmbedder, model, imageModel *MockLLM) ai.AIProvider {
	return &MockProvider{
		embedder:   embedder,
		model:      model,
		imageModel: imageModel,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the mock completion model.
func (p *MockProvider) Model() llms.Model {
	return p.model
}

// ImageModel returns the mock image model.
func (p *MockProvider) ImageModel() llms.Model {
	if p.imageModel == nil {
		return nil
	}
	return p.imageModel
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockModel returns the underlying mock completion model for test assertions.
func (p *MockProvider) GetMockModel() *MockLLM {
	return p.model
}
