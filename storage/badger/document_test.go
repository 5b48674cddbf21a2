package badger

import (
	"context"
	"testing"

	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRepository_AddAndGet(t *testing.T) {
	repo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	docs, err := repo.AddDocuments(ctx,
		&core.Document{Source: "source_documents/b.txt", Type: ".txt"},
		&core.Document{Source: "source_documents/a.pdf", Type: ".pdf", Metadata: map[string]string{"total_pages": "3"}},
	)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, core.DocumentIDFromSource("source_documents/b.txt"), docs[0].Id)

	got, err := repo.GetDocument(ctx, docs[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "source_documents/a.pdf", got.Source)
	assert.Equal(t, "3", got.Metadata["total_pages"])

	bySource, err := repo.GetDocumentBySource(ctx, "source_documents/b.txt")
	require.NoError(t, err)
	assert.Equal(t, docs[0].Id, bySource.Id)

	sources, err := repo.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"source_documents/a.pdf", "source_documents/b.txt"}, sources)
}

func TestDocumentRepository_Duplicate(t *testing.T) {
	repo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = repo.AddDocuments(ctx, &core.Document{Source: "x.txt"})
	require.NoError(t, err)

	_, err = repo.AddDocuments(ctx, &core.Document{Source: "x.txt"})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDocumentRepository_Invalid(t *testing.T) {
	repo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = repo.AddDocuments(context.Background(), &core.Document{})
	assert.ErrorIs(t, err, core.ErrInvalidDocument)
}

func TestDocumentRepository_NotFound(t *testing.T) {
	repo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	_, err = repo.GetDocument(ctx, core.ID(1))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.GetDocumentBySource(ctx, "missing.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteDocuments(ctx, core.ID(1))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	sources, err := repo.ListSources(ctx)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestDocumentRepository_DeleteRemovesChunks(t *testing.T) {
	docRepo, chunkRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	docs, err := docRepo.AddDocuments(ctx,
		&core.Document{Source: "keep.txt"},
		&core.Document{Source: "drop.txt"},
	)
	require.NoError(t, err)

	_, err = chunkRepo.AddChunks(ctx, newTestChunks("keep.txt", []float32{1}, []float32{1})...)
	require.NoError(t, err)
	_, err = chunkRepo.AddChunks(ctx, newTestChunks("drop.txt", []float32{1}, []float32{1}, []float32{1})...)
	require.NoError(t, err)

	require.NoError(t, docRepo.DeleteDocuments(ctx, docs[1].Id))

	count, err := chunkRepo.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := chunkRepo.FindSimilar(ctx, []float32{1}, 0, 0)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "keep.txt", r.Chunk.Source)
	}

	sources, err := docRepo.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, sources)
}

func TestDocumentRepository_ListDocuments(t *testing.T) {
	repo, _, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	empty, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	sources := []string{"one.txt", "two.md", "three.pdf", "four.eml", "five.html"}
	for _, source := range sources {
		_, err := repo.AddDocuments(ctx, &core.Document{Source: source, ChunkCount: len(source)})
		require.NoError(t, err)
	}

	docs, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, len(sources))
	for i := 1; i < len(docs); i++ {
		assert.Less(t, docs[i-1].Id, docs[i].Id)
	}
	for _, doc := range docs {
		assert.Equal(t, len(doc.Source), doc.ChunkCount)
	}
}
