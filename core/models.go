package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentIDFromSource derives the ID of a source document from its path.
// Re-ingesting the same path always maps to the same document.
func DocumentIDFromSource(source string) ID {
	return IDFromContent("doc:" + source)
}

// ChunkIDFor derives a chunk ID from its source, position and text.
func ChunkIDFor(source string, index int, contents string) ID {
	return IDFromContent(source + "::" + strconv.Itoa(index) + "::" + contents)
}

// Document is a source file that has been loaded and split into chunks.
type Document struct {
	Id         ID
	Source     string            // Path of the file the document was loaded from
	Type       string            // Extension-derived type, e.g. ".pdf"
	Title      string            // Optional title reported by the loader
	ChunkCount int               // Number of chunks stored for this document
	Metadata   map[string]string // Loader metadata (page counts, subject, ...)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Chunk is a bounded substring of a Document used as an embedding unit.
type Chunk struct {
	Id         ID
	DocumentId ID     // Parent document
	Source     string // Copied from the parent so retrieval can cite it without a join
	Index      int    // Position of the chunk within the document
	Offset     int    // Rune offset of the chunk within the document text
	Contents   string
	Vector     []float32 // Embedding vector (populated during ingestion)
	Metadata   map[string]string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Artifact is a named piece of generated content, such as a thread or an image URL.
type Artifact struct {
	Key   string
	Value string
}

// Checkpoint records the progress of a processor.
type Checkpoint struct {
	ProcessorType string
	LastId        ID
	UpdatedAt     time.Time
}

// SimilarityMatch represents a chunk match from vector similarity search.
type SimilarityMatch struct {
	ChunkId ID
	Score   float32
}

// SearchResult represents a search result with the full chunk and relevance score.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}
