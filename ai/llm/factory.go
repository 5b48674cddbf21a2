// Package llm builds the completion models named by an ai.Config.
package llm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/ai/replicate"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrUnsupportedModelType is returned for a model type with no backend.
var ErrUnsupportedModelType = errors.New("unsupported model type")

// localToken is sent to OpenAI-compatible local servers that ignore authentication.
const localToken = "none"

// New creates the completion model selected by cfg.ModelType.
func New(cfg *ai.Config) (llms.Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("creating completion model", "type", cfg.ModelType, "model", cfg.Model)

	switch cfg.ModelType {
	case ai.ModelTypeOpenAI:
		token := cfg.APIToken
		if token == "" {
			token = localToken
		}
		opts := []openai.Option{
			openai.WithToken(token),
			openai.WithModel(cfg.Model),
		}
		if cfg.ModelHost != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ModelHost))
		}
		return openai.New(opts...)

	case ai.ModelTypeOllama:
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.ModelHost != "" {
			opts = append(opts, ollama.WithServerURL(cfg.ModelHost))
		}
		return ollama.New(opts...)

	case ai.ModelTypeAnthropic:
		// The model host defaults to a local server, so only the public API is used here
		return anthropic.New(
			anthropic.WithToken(cfg.APIToken),
			anthropic.WithModel(cfg.Model),
		)

	case ai.ModelTypeReplicate:
		client := replicate.NewClient(cfg.ReplicateToken)
		return replicate.NewTextModel(client, cfg.Model), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedModelType, cfg.ModelType)
}

// NewImageModel creates the Replicate text-to-image model. It returns nil
// without error when no Replicate token is configured.
func NewImageModel(cfg *ai.Config) (llms.Model, error) {
	if cfg.ReplicateToken == "" {
		return nil, nil
	}
	version := cfg.ImageModel
	if version == "" {
		version = ai.DefaultImageModel
	}
	return replicate.NewImageModel(replicate.NewClient(cfg.ReplicateToken), version), nil
}
