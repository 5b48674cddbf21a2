package search

import (
	"context"
	"strconv"

	"github.com/poiesic/threadoor/loader"
	"github.com/tmc/langchaingo/schema"
)

// DefaultTargetChunks is the number of chunks retrieved per query.
const DefaultTargetChunks = 4

// MetadataChunk is the document metadata key holding the chunk index.
const MetadataChunk = "chunk"

// Retriever adapts a Searcher to langchaingo's schema.Retriever.
type Retriever struct {
	searcher *Searcher
	k        int
}

var _ schema.Retriever = (*Retriever)(nil)

// NewRetriever returns a retriever yielding k documents per query.
// A k below 1 uses DefaultTargetChunks.
func NewRetriever(searcher *Searcher, k int) (*Retriever, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if k < 1 {
		k = DefaultTargetChunks
	}
	return &Retriever{searcher: searcher, k: k}, nil
}

// GetRelevantDocuments implements schema.Retriever.
func (r *Retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	results, err := r.searcher.FindSimilar(ctx, query, r.k)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(results))
	for _, result := range results {
		metadata := make(map[string]any, len(result.Chunk.Metadata)+2)
		for k, v := range result.Chunk.Metadata {
			metadata[k] = v
		}
		metadata[loader.MetadataSource] = result.Chunk.Source
		metadata[MetadataChunk] = strconv.Itoa(result.Chunk.Index)

		docs = append(docs, schema.Document{
			PageContent: result.Chunk.Contents,
			Metadata:    metadata,
			Score:       result.Score,
		})
	}
	return docs, nil
}
