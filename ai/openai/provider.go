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


package openai

import (
	"log/slog"

	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/ai/llm"
	"github.com/tmc/langchaingo/llms"
)

// Provider implements ai.AIProvider with OpenAI-compatible embeddings and the
// completion backend selected by the config.
type Provider struct {
	config     *ai.Config
	embedder   *Embedder
	model      llms.Model
	imageModel llms.Model
	logger     *slog.Logger
}

// NewProvider creates a new AI provider.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create embedder (using internal constructor for concrete type)
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	model, err := llm.New(config)
	if err != nil {
		return nil, err
	}

	imageModel, err := llm.NewImageModel(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		embedder:   embedder,
		model:      model,
		imageModel: imageModel,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Model returns the completion model.
func (p *Provider) Model() llms.Model {
	return p.model
}

// ImageModel returns the image model, or nil without a Replicate token.
func (p *Provider) ImageModel() llms.Model {
	return p.imageModel
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing provider")
	return nil
}
