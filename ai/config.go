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


package ai

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ModelType selects the backend serving completions.
type ModelType string

const (
	ModelTypeOpenAI    ModelType = "openai"
	ModelTypeOllama    ModelType = "ollama"
	ModelTypeAnthropic ModelType = "anthropic"
	ModelTypeReplicate ModelType = "replicate"
)

// ModelTypes lists every supported model type.
var ModelTypes = []ModelType{ModelTypeOpenAI, ModelTypeOllama, ModelTypeAnthropic, ModelTypeReplicate}

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ModelType selects the completion backend.
	ModelType ModelType

	// ModelHost is the base URL for the completion service API.
	// OpenAI-compatible hosts are normalized to end in /v1; Ollama hosts
	// are normalized to the bare server URL.
	ModelHost string

	// Model is the completion model identifier.
	// Example: "qwen2.5:3b", "gpt-4o-mini", "replicate/vicuna-13b:<version>"
	Model string

	// ImageModel is the Replicate version used to render images.
	ImageModel string

	// APIToken authenticates against OpenAI or Anthropic.
	APIToken string

	// ReplicateToken authenticates against Replicate.
	ReplicateToken string

	// Temperature is the sampling temperature for content chains.
	// Default: 0.65
	Temperature float64

	// MaxTokens caps the length of each completion.
	// Default: 500
	MaxTokens int
}

// DefaultImageModel is the Replicate text-to-image model version.
const DefaultImageModel = "ai-forever/kandinsky-2:601eea49d49003e6ea75a11527209c4f510a93e2112c969d548fbb45b9c4f19f"

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithModelHost sets the completion service host URL.
func WithModelHost(host string) ConfigOption {
	return func(c *Config) {
		c.ModelHost = host
	}
}

// WithHost sets both embedding and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ModelHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithModelType sets the completion backend.
func WithModelType(t ModelType) ConfigOption {
	return func(c *Config) {
		c.ModelType = t
	}
}

// WithModel sets the completion model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithImageModel sets the image model version.
func WithImageModel(model string) ConfigOption {
	return func(c *Config) {
		c.ImageModel = model
	}
}

// WithAPIToken sets the OpenAI or Anthropic token.
func WithAPIToken(token string) ConfigOption {
	return func(c *Config) {
		c.APIToken = token
	}
}

// WithReplicateToken sets the Replicate token.
func WithReplicateToken(token string) ConfigOption {
	return func(c *Config) {
		c.ReplicateToken = token
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithMaxTokens sets the completion length cap.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and completion use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		EmbeddingModel: "embeddinggemma",
		ModelType:      ModelTypeOpenAI,
		ModelHost:      defaultHost,
		Model:          "qwen2.5:3b",
		ImageModel:     DefaultImageModel,
		Temperature:    0.65,
		MaxTokens:      500,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get a /v1 suffix; the Ollama client wants the
// server root, so the suffix is removed for it.
func (c *Config) Normalize() {
	c.EmbeddingHost = withV1(c.EmbeddingHost)
	c.ModelType = ModelType(strings.ToLower(strings.TrimSpace(string(c.ModelType))))

	switch c.ModelType {
	case ModelTypeOllama:
		if c.ModelHost != "" {
			c.ModelHost = strings.TrimSuffix(strings.TrimSuffix(c.ModelHost, "/"), "/v1")
		}
	case ModelTypeOpenAI:
		c.ModelHost = withV1(c.ModelHost)
	}
}

func withV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	// Remove trailing slash if present before adding /v1
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure hosts are in correct format
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if !slices.Contains(ModelTypes, c.ModelType) {
		return fmt.Errorf("ai config: unknown ModelType %q", c.ModelType)
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.ModelType == ModelTypeAnthropic && c.APIToken == "" {
		return errors.New("ai config: APIToken is required for anthropic")
	}
	if c.ModelType == ModelTypeReplicate && c.ReplicateToken == "" {
		return errors.New("ai config: ReplicateToken is required for replicate")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	return nil
}
