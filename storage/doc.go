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


// Package storage provides the storage abstraction layer for threadoor.
//
// This package defines repository interfaces that decouple the vector store
// from the ingestion and retrieval logic. The only backend shipped is BadgerDB
// (see storage/badger), which keeps documents, chunks, their vectors and
// processor checkpoints in a single on-disk key/value store.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: operations shared by every repository (similarity search, transactions)
//   - DocumentRepository: source documents, including the list of already-ingested sources
//   - ChunkRepository: text chunks and their embedding vectors
//   - CheckpointRepository: processor progress markers
//
// # Usage
//
// Use in tests with in-memory storage:
//
//	docs, chunks, checkpoints, backend, err := badger.NewMemoryRepositories()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Encoding
//
// Records are encoded with mus-go serializers (see serialization.go). Vectors
// are stored as fixed-width little-endian float32 values.
package storage
