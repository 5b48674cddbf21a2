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


// Package ai provides abstractions for AI services used in threadoor.
//
// This package defines the interfaces the ingestion, search and content
// packages depend on, so business logic never imports a concrete model client.
//
// # Design Principles
//
// The package is designed around two interfaces and one helper:
//
//   - Embedder: Generates vector embeddings from text
//   - AIProvider: Aggregates the embedder with the completion and image models
//   - CachedModel: Memoizes completions of any langchaingo llms.Model
//
// Completion models are plain langchaingo llms.Model values, which lets the
// chain and search packages hand them straight to langchaingo chains.
//
// # Implementation Packages
//
//   - ai/openai: Production provider using OpenAI-compatible embedding APIs
//   - ai/llm: Completion model factory (OpenAI, Ollama, Anthropic, Replicate)
//   - ai/replicate: Replicate predictions client and llms.Model adapter
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockLLM) return CONCRETE types to enable
// test assertions and behavior injection via the mock's public methods.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithModelType(ai.ModelTypeOllama))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Hello world")
//	answer, err := llms.GenerateFromSinglePrompt(ctx, provider.Model(), "Hello")
package ai
