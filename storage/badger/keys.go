package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/grimorio/docsearch/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix      = "chkrec"
	chunkDocumentPrefix    = "chkdoc"
	chunkFingerprintPrefix = "chkfpr"
	chunkIDSeq             = "chkrecseq"
	documentRecordPrefix   = "docrec"
	documentIDSeq          = "docrecseq"
	historyRecordPrefix    = "hisrec"
	historyDatePrefix      = "hisrecd"
	historyIDSeq           = "hisrecseq"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkDocumentKey generates a composite key for the document index.
// Format: prefix:documentID:index:chunkID
func makeChunkDocumentKey(documentID core.ID, index int, chunkID core.ID) []byte {
	prefix := chunkDocumentPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 24 // 8 bytes each for documentID, index, chunkID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialChunkDocumentKey generates a partial key for per-document queries.
// Format: prefix:documentID
func makePartialChunkDocumentKey(documentID core.ID) []byte {
	prefix := chunkDocumentPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(documentID))
	return buf
}

// makeChunkFingerprintKey generates a key for the fingerprint index.
func makeChunkFingerprintKey(fingerprint core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkFingerprintPrefix, fingerprint))
}

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentRecordPrefix, id))
}

// makeHistoryKey generates a key for a search record by ID.
func makeHistoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", historyRecordPrefix, id))
}

// makeHistoryDateKey generates a composite key for the history date index.
// Format: prefix:timestamp:id
func makeHistoryDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := historyDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
