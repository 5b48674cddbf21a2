package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrRegistryRequired is returned when a loader registry is not provided.
	ErrRegistryRequired = errors.New("loader registry required")

	// ErrNoNewDocuments is returned by Run when every discovered source is already stored.
	ErrNoNewDocuments = errors.New("no new documents to load")
)
