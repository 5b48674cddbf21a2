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


package threadoor

import (
	"io"
	"log/slog"

	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/ai/openai"
	"github.com/poiesic/threadoor/chain"
	"github.com/poiesic/threadoor/ingestion"
	"github.com/poiesic/threadoor/loader"
	"github.com/poiesic/threadoor/reembed"
	"github.com/poiesic/threadoor/search"
	"github.com/poiesic/threadoor/storage"
	"github.com/poiesic/threadoor/storage/badger"
	"github.com/tmc/langchaingo/llms"
)

// Database ties the vector store to an AI provider and builds the
// components that work on both.
type Database struct {
	backend        *badger.Backend
	documentRepo   *badger.DocumentRepository
	chunkRepo      *badger.ChunkRepository
	checkpointRepo *badger.CheckpointRepository
	provider       ai.AIProvider
	registry       *loader.Registry
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	registry *loader.Registry
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the provider configuration. Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) { o.aiConfig = cfg }
}

// WithProvider uses an existing provider instead of building one from the AI config.
func WithProvider(p ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) { o.provider = p }
}

// WithRegistry sets the loader registry. Default is loader.DefaultRegistry().
func WithRegistry(r *loader.Registry) DatabaseOption {
	return func(o *databaseOptions) { o.registry = r }
}

// WithInMemory keeps the store in memory; filePath is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) { o.inMemory = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) { o.logger = logger }
}

// NewDatabase opens (or creates) the vector store at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		registry: loader.DefaultRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:        backend,
		documentRepo:   badger.NewDocumentRepository(backend),
		chunkRepo:      badger.NewChunkRepository(backend),
		checkpointRepo: badger.NewCheckpointRepository(backend),
		provider:       provider,
		registry:       options.registry,
		logger:         options.logger,
	}, nil
}

// Close releases the provider and the store.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.documentRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documentRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.documentRepo, db.chunkRepo,
		db.provider.Embedder(), db.registry, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.chunkRepo, db.provider.Embedder(), opts...)
}

// NewQA builds a retrieval QA over the k most relevant chunks.
// A nil model uses the provider's completion model.
func (db *Database) NewQA(model llms.Model, k int, opts ...search.QAOption) (*search.QA, error) {
	searcher, err := db.NewSearcher(search.WithLogger(db.logger))
	if err != nil {
		return nil, err
	}
	retriever, err := search.NewRetriever(searcher, k)
	if err != nil {
		return nil, err
	}
	if model == nil {
		model = db.provider.Model()
	}
	return search.NewQA(model, retriever, opts...)
}

// NewSequence binds roles to the provider's models.
func (db *Database) NewSequence(roles []chain.Role, opts ...chain.Option) (*chain.Sequence, error) {
	return NewSequence(db.provider, roles, db.logger, opts...)
}

// NewSequence binds roles to a provider's models. Image roles are dropped,
// with a warning, when the provider has no image model.
func NewSequence(provider ai.AIProvider, roles []chain.Role, logger *slog.Logger, opts ...chain.Option) (*chain.Sequence, error) {
	if logger == nil {
		logger = slog.Default()
	}
	imageModel := provider.ImageModel()
	if imageModel == nil {
		if text := chain.WithoutImageRoles(roles); len(text) != len(roles) {
			logger.Warn("no image model configured, skipping image roles")
			roles = text
		}
	}
	return chain.NewSequence(roles, provider.Model(), imageModel, append([]chain.Option{chain.WithLogger(logger)}, opts...)...)
}

// NewReembedder re-embeds stored chunks document by document, resuming after
// the last document recorded in the checkpoint store.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.documentRepo, db.chunkRepo, db.checkpointRepo,
		db.provider.Embedder(), config, progress)
}
