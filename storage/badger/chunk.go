package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ChunkRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks stores chunks and indexes them by document. The writes go through
// a write batch, so any number of chunks can be stored in one call.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithWriteBatch(func(wb *badger.WriteBatch) error {
		now := time.Now().UTC()
		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if chunk.Id == 0 {
				chunk.Id = core.ChunkIDFor(chunk.Source, chunk.Index, chunk.Contents)
			}
			chunk.InsertedAt = now
			chunk.UpdatedAt = now

			if err := wb.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			// Update document index
			if err := wb.Set(makeChunkDocumentKey(chunk.DocumentId, chunk.Index), storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return nil
	})

	return chunks, err
}

// UpdateChunks updates existing chunks. The transaction is committed and
// reopened whenever it grows past badger's limit.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	rt := r.backend.newRollingTxn()
	defer rt.discard()

	for _, chunk := range chunks {
		key := makeChunkKey(chunk.Id)

		old, err := readChunk(rt.tx, key)
		if err != nil {
			return chunks, err
		}
		if old == nil {
			return chunks, storage.ErrNotFound
		}

		chunk.UpdatedAt = time.Now().UTC()
		if err := rt.set(key, storage.MarshalChunk(chunk)); err != nil {
			return chunks, err
		}

		// Move the document index entry if the chunk changed position
		if old.DocumentId != chunk.DocumentId || old.Index != chunk.Index {
			if err := rt.delete(makeChunkDocumentKey(old.DocumentId, old.Index)); err != nil {
				return chunks, err
			}
			if err := rt.set(makeChunkDocumentKey(chunk.DocumentId, chunk.Index), storage.MarshalID(chunk.Id)); err != nil {
				return chunks, err
			}
		}
	}
	return chunks, rt.commit()
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves multiple chunks by their IDs.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error) {
	var result []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				result = append(result, chunk)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetChunksByDocument retrieves the chunks of a document ordered by Index.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := chunkIDsForDocument(tx, documentID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// CountChunks returns the number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	ids, err := r.listChunkIDs()
	return len(ids), err
}

// Helper methods

func (r *ChunkRepository) listChunkIDs() ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkDocumentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}, false)
	return ids, err
}

// chunkIDsForDocument reads the document index in chunk order.
func chunkIDsForDocument(tx *badger.Txn, documentID core.ID) ([]core.ID, error) {
	_, ids, err := chunkIndexEntries(tx, documentID)
	return ids, err
}

// chunkIndexEntries returns the document index keys and the chunk IDs they point at.
func chunkIndexEntries(tx *badger.Txn, documentID core.ID) ([][]byte, []core.ID, error) {
	var (
		keys [][]byte
		ids  []core.ID
	)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialChunkDocumentKey(documentID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return nil, nil, err
		}
		keys = append(keys, item.KeyCopy(nil))
		ids = append(ids, id)
	}
	return keys, ids, nil
}

// readChunk reads a chunk from the transaction.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
