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


package core

import (
	"fmt"
	"unicode/utf8"
)

// LengthFunc measures the size of a chunk, in runes or tokens.
type LengthFunc func(string) int

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//
// NOT validated:
//   - ID (derived from Source when the document is stored)
//   - ChunkCount (populated after splitting)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - DocumentId must be set (every chunk belongs to exactly one document)
//   - Index and Offset must not be negative
//   - length(Contents) must not exceed maxSize when maxSize > 0
//
// A nil length counts runes. NOT validated: Vector (populated by embedding).
func ValidateChunk(chunk *Chunk, maxSize int, length LengthFunc) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.DocumentId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrMissingDocument)
	}

	if chunk.Index < 0 || chunk.Offset < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidOffset)
	}

	if maxSize > 0 {
		if length == nil {
			length = utf8.RuneCountInString
		}
		if n := length(chunk.Contents); n > maxSize {
			return fmt.Errorf("%w: %w: %d > %d", ErrInvalidChunk, ErrChunkTooLarge, n, maxSize)
		}
	}

	return nil
}
