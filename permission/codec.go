package permission

import (
	"encoding/binary"
	"errors"
)

// EncodedSetSize is the wire size of an encoded [Set].
const EncodedSetSize = 8

var errInvalidSetSize = errors.New("invalid encoded set size")

// EncodeSet renders a Set as 8 big-endian bytes. Used by the resolve cache
// and the attestation mask claim; the layout is stable.
func EncodeSet(s Set) []byte {
	b := make([]byte, EncodedSetSize)
	binary.BigEndian.PutUint64(b, uint64(s))
	return b
}

// DecodeSet parses an 8-byte big-endian Set. Bits above the defined range are
// preserved as-is; range validation is the caller's concern via [FromRaw].
func DecodeSet(data []byte) (Set, error) {
	if len(data) != EncodedSetSize {
		return 0, errInvalidSetSize
	}
	return Set(binary.BigEndian.Uint64(data)), nil
}
