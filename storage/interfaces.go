package storage

import (
	"context"

	"github.com/poiesic/threadoor/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// DocumentRepository provides operations for managing source documents.
type DocumentRepository interface {
	Repository
	// AddDocuments stores documents, deriving IDs from their Source path.
	// Sets InsertedAt and UpdatedAt.
	// Returns ErrDuplicateKey if a document with the same Source already exists.
	AddDocuments(ctx context.Context, docs ...*core.Document) ([]*core.Document, error)

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocumentBySource retrieves a document by its source path.
	// Returns ErrNotFound if the source has not been ingested.
	GetDocumentBySource(ctx context.Context, source string) (*core.Document, error)

	// ListSources returns the source paths of every stored document, sorted.
	ListSources(ctx context.Context) ([]string, error)

	// ListDocuments returns every stored document ordered by ID.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocuments removes documents and all of their chunks.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error
}

// ChunkRepository provides operations for managing text chunks.
type ChunkRepository interface {
	Repository
	// AddChunks stores chunks. Chunks with ID=0 get an ID derived from
	// source, index and contents. Sets InsertedAt and UpdatedAt.
	// Existing chunks with the same ID are overwritten. Large sets are
	// written in several commits, so a failure can leave a prefix stored.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks updates existing chunks.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetChunksByDocument retrieves the chunks of a document ordered by Index.
	GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}

// CheckpointRepository persists processor checkpoints.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for its processor type.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)

	// ListCheckpoints returns every stored checkpoint ordered by processor type.
	ListCheckpoints(ctx context.Context) ([]*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for a processor type.
	// Deleting a missing checkpoint is not an error.
	DeleteCheckpoint(ctx context.Context, processorType string) error
}
