package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/core"
)

// embeddingProcessor generates normalized embeddings for chunks.
type embeddingProcessor struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor.
func newEmbeddingProcessor(embedder ai.Embedder, logger *slog.Logger) (*embeddingProcessor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		embedder: embedder,
		logger:   logger.With("processor", "embeddings"),
	}, nil
}

// process embeds the chunks' contents and stores the normalized vectors on the chunks.
func (ep *embeddingProcessor) process(ctx context.Context, chunks ...*core.Chunk) error {
	ep.logger.Debug("generating embeddings", "chunks", len(chunks))
	return EmbedChunks(ctx, ep.embedder, chunks)
}

// EmbedChunks embeds the chunks' contents in one request and sets each
// chunk's Vector to the normalized result.
func EmbedChunks(ctx context.Context, embedder ai.Embedder, chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Contents
	}

	embeddings, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(chunks), len(embeddings))
	}

	for i := range embeddings {
		chunks[i].Vector = core.NormalizeVector(embeddings[i])
	}
	return nil
}

// ProcessBatches cuts chunks into batches of batchSize and runs fn for each
// batch on pool. The first failure cancels the context passed to the other
// batches and is returned once every submitted batch has finished.
func ProcessBatches(ctx context.Context, pool *ants.Pool, chunks []*core.Chunk, batchSize int, fn func(ctx context.Context, batch []*core.Chunk) error) error {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		errMu.Lock()
		defer errMu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for batch := range slices.Chunk(chunks, batchSize) {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := fn(ctx, batch); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit batch: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
