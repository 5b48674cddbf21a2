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


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/threadoor/ai"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/ingestion"
	"github.com/poiesic/threadoor/storage"
)

// CheckpointType is the processor type of the checkpoint holding the ID of
// the last document re-embedded by an unfinished run.
const CheckpointType = "reembed"

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of chunks sent in each embedding request
	BatchSize int

	// PoolSize is the number of concurrent embedding requests; 0 uses half the CPUs
	PoolSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per embedding request
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns the batch size ingestion uses and three attempts per request.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      ingestion.DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

func (c *Config) poolSize() int {
	if c.PoolSize > 0 {
		return c.PoolSize
	}
	return max(runtime.NumCPU()/2, 1)
}

// Reembedder re-embeds the chunks of every stored document.
type Reembedder struct {
	chunks      storage.ChunkRepository
	checkpoints storage.CheckpointRepository
	config      *Config
	progress    io.Writer
	embedder    *batchEmbedder
	iterator    *DocumentIterator
	logger      *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		chunks:      chunks,
		checkpoints: checkpoints,
		config:      config,
		progress:    progress,
		embedder:    newBatchEmbedder(embedder, config),
		iterator:    NewDocumentIterator(documents, chunks),
		logger:      slog.Default().With("component", "reembed"),
	}
}

// Run re-embeds the chunks of every document after the saved checkpoint, or
// of every document when there is none. Progress is reported to the
// configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	checkpoint, err := r.checkpoints.LoadCheckpoint(ctx, CheckpointType)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	var after core.ID
	if checkpoint != nil {
		after = checkpoint.LastId
		fmt.Fprintf(r.progress, "Resuming after document %d (checkpoint from %s)\n",
			after, checkpoint.UpdatedAt.Format(time.RFC3339))
	}

	docs, err := r.iterator.Pending(ctx, after)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	total := 0
	for _, doc := range docs {
		total += doc.ChunkCount
	}
	if len(docs) == 0 {
		fmt.Fprintf(r.progress, "No documents to reembed\n")
		return r.checkpoints.DeleteCheckpoint(ctx, CheckpointType)
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d chunks from %d documents (batch size: %d)\n",
		total, len(docs), r.config.BatchSize)

	pool, err := ants.NewPool(r.config.poolSize())
	if err != nil {
		return err
	}
	defer pool.Release()

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, docs, func(doc *core.Document, chunks []*core.Chunk) error {
		if err := r.embedder.embed(ctx, pool, chunks); err != nil {
			return fmt.Errorf("failed to embed %s: %w", doc.Source, err)
		}
		if _, err := r.chunks.UpdateChunks(ctx, chunks...); err != nil {
			return fmt.Errorf("failed to update chunks of %s: %w", doc.Source, err)
		}
		if err := r.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{ProcessorType: CheckpointType, LastId: doc.Id}); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
		r.logger.Debug("document reembedded", "source", doc.Source, "chunks", len(chunks))

		processed += len(chunks)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		fmt.Fprintln(r.progress)
		return err
	}

	tracker.Finish()
	if err := r.checkpoints.DeleteCheckpoint(ctx, CheckpointType); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}

	elapsed := tracker.Elapsed()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(processed) / elapsed.Seconds()
	}
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d chunks from %d documents in %v (%.1f chunks/s)\n",
		processed, len(docs), elapsed.Round(time.Second), rate)
	return nil
}
