package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRepository(t *testing.T) {
	_, _, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return stamp }
	ctx := context.Background()

	missing, err := repo.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{ProcessorType: "reembed", LastId: 42}))
	require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{ProcessorType: "embeddings", LastId: 7}))
	require.NoError(t, repo.SaveCheckpoint(ctx, &core.Checkpoint{ProcessorType: "embeddings", LastId: 9}))

	loaded, err := repo.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, core.ID(42), loaded.LastId)
	assert.True(t, stamp.Equal(loaded.UpdatedAt))

	all, err := repo.ListCheckpoints(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "embeddings", all[0].ProcessorType)
	assert.Equal(t, core.ID(9), all[0].LastId)
	assert.Equal(t, "reembed", all[1].ProcessorType)

	err = repo.SaveCheckpoint(ctx, &core.Checkpoint{})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	require.NoError(t, repo.DeleteCheckpoint(ctx, "reembed"))
	require.NoError(t, repo.DeleteCheckpoint(ctx, "reembed"))
	gone, err := repo.LoadCheckpoint(ctx, "reembed")
	require.NoError(t, err)
	assert.Nil(t, gone)

	all, err = repo.ListCheckpoints(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, repo.DeleteCheckpoint(ctx, ""), storage.ErrInvalidQuery)
}
