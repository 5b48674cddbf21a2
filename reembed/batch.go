package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/ingestion"
)

// batchEmbedder embeds chunks in batches on a pool, retrying each request.
type batchEmbedder struct {
	embedder   ai.Embedder
	batchSize  int
	maxRetries int
	retryDelay time.Duration
}

func newBatchEmbedder(embedder ai.Embedder, config *Config) *batchEmbedder {
	return &batchEmbedder{
		embedder:   embedder,
		batchSize:  config.BatchSize,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}
}

// embed sets the normalized vector of every chunk. Nothing is written to storage.
func (be *batchEmbedder) embed(ctx context.Context, pool *ants.Pool, chunks []*core.Chunk) error {
	return ingestion.ProcessBatches(ctx, pool, chunks, be.batchSize, be.embedBatch)
}

func (be *batchEmbedder) embedBatch(ctx context.Context, batch []*core.Chunk) error {
	err := RetryWithBackoff(ctx, func() error {
		return ingestion.EmbedChunks(ctx, be.embedder, batch)
	}, be.maxRetries, be.retryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", be.maxRetries, err)
	}
	return nil
}
