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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/threadoor/core"
	"github.com/poiesic/threadoor/storage"
)

// CheckpointRepository stores one checkpoint per processor type.
type CheckpointRepository struct {
	backend *Backend
	now     func() time.Time
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a new CheckpointRepository.
func NewCheckpointRepository(backend *Backend) *CheckpointRepository {
	return &CheckpointRepository{
		backend: backend,
		now:     time.Now,
	}
}

// SaveCheckpoint overwrites the checkpoint of checkpoint.ProcessorType and stamps UpdatedAt.
func (r *CheckpointRepository) SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error {
	if checkpoint.ProcessorType == "" {
		return storage.ErrInvalidQuery
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		checkpoint.UpdatedAt = r.now().UTC()
		if err := tx.Set(makeCheckpointKey(checkpoint.ProcessorType), storage.MarshalCheckpoint(checkpoint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadCheckpoint returns nil, nil when the processor has never saved one.
func (r *CheckpointRepository) LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error) {
	var checkpoint *core.Checkpoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCheckpointKey(processorType))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		checkpoint, err = readCheckpoint(item)
		return err
	}, false)
	return checkpoint, err
}

// ListCheckpoints returns every stored checkpoint ordered by processor type.
func (r *CheckpointRepository) ListCheckpoints(ctx context.Context) ([]*core.Checkpoint, error) {
	var checkpoints []*core.Checkpoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(checkpointPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			checkpoint, err := readCheckpoint(iter.Item())
			if err != nil {
				return err
			}
			checkpoints = append(checkpoints, checkpoint)
		}
		return nil
	}, false)
	return checkpoints, err
}

// DeleteCheckpoint removes the checkpoint of processorType, if any.
func (r *CheckpointRepository) DeleteCheckpoint(ctx context.Context, processorType string) error {
	if processorType == "" {
		return storage.ErrInvalidQuery
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCheckpointKey(processorType)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func readCheckpoint(item *badger.Item) (*core.Checkpoint, error) {
	var checkpoint *core.Checkpoint
	err := item.Value(func(val []byte) error {
		var err error
		checkpoint, err = storage.UnmarshalCheckpoint(val)
		return err
	})
	return checkpoint, err
}
