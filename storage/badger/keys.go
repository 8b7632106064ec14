package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	recordPrefix = "docrec:"
	vectorPrefix = "docvec:"
	headerKey    = "docmeta"
)

// makeRecordKey generates a key for the record at pos.
// Format: prefix:position, position big-endian so keys sort by position.
func makeRecordKey(pos int) []byte {
	return makePositionKey(recordPrefix, pos)
}

// makeVectorKey generates a key for the vector at pos.
func makeVectorKey(pos int) []byte {
	return makePositionKey(vectorPrefix, pos)
}

func makePositionKey(prefix string, pos int) []byte {
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(pos))
	return buf
}
