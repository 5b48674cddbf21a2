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
	"slices"

	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/storage"
)

// DocumentIterator walks stored documents in ID order with their chunks.
type DocumentIterator struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
}

// NewDocumentIterator creates a new document iterator.
func NewDocumentIterator(documents storage.DocumentRepository, chunks storage.ChunkRepository) *DocumentIterator {
	return &DocumentIterator{
		documents: documents,
		chunks:    chunks,
	}
}

// Pending returns the documents whose ID is greater than after, in ID order.
// An after of zero returns every document.
func (it *DocumentIterator) Pending(ctx context.Context, after core.ID) ([]*core.Document, error) {
	docs, err := it.documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(docs, func(doc *core.Document) bool { return doc.Id > after })
	if i < 0 {
		return nil, nil
	}
	return docs[i:], nil
}

// ForEach calls fn with each document and its chunks in Index order.
// Iteration stops on the first error from fn or when ctx is cancelled.
func (it *DocumentIterator) ForEach(ctx context.Context, docs []*core.Document, fn func(*core.Document, []*core.Chunk) error) error {
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunks, err := it.chunks.GetChunksByDocument(ctx, doc.Id)
		if err != nil {
			return fmt.Errorf("failed to load chunks of %s: %w", doc.Source, err)
		}
		if err := fn(doc, chunks); err != nil {
			return err
		}
	}
	return ctx.Err()
}
