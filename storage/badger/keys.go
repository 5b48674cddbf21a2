package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/threadoor/core"
)

// Key prefixes for different data types. Each ends in ':' so no prefix is a
// prefix of another.
const (
	chunkRecordPrefix    = "chkrec:"
	chunkDocumentPrefix  = "chkdoc:"
	documentRecordPrefix = "docrec:"
	documentSourcePrefix = "docsrc:"
	checkpointPrefix     = "chkpt:"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s%d", chunkRecordPrefix, id))
}

// makeChunkDocumentKey generates a composite key for the document index.
// Format: prefix:documentID:index
func makeChunkDocumentKey(documentID core.ID, index int) []byte {
	prefixBytes := []byte(chunkDocumentPrefix)
	buf := make([]byte, len(prefixBytes)+16) // 8 bytes for documentID + 8 bytes for index
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort follows chunk order
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}

// makePartialChunkDocumentKey generates a partial key for document queries.
// Format: prefix:documentID
func makePartialChunkDocumentKey(documentID core.ID) []byte {
	prefixBytes := []byte(chunkDocumentPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s%d", documentRecordPrefix, id))
}

// makeDocumentSourceKey generates the lookup key for a document's source path.
func makeDocumentSourceKey(source string) []byte {
	return []byte(documentSourcePrefix + source)
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(checkpointPrefix + processorType)
}
