package codec

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// ErrInvalidCRC is returned by DecodeBasic and DecodeLegacy when the trailing CRC-32 does not
// match the recovered payload bytes.
var ErrInvalidCRC = errors.New("codec: invalid crc")

// appendCRC32 appends the little-endian IEEE CRC-32 of data to data,
// matching the original builder's raw in-memory layout of the checksum.
func appendCRC32(data []byte) []byte {
	sum := crc32.ChecksumIEEE(data)
	out := make([]byte, len(data)+4)
	copy(out, data)
	binary.LittleEndian.PutUint32(out[len(data):], sum)
	return out
}

// verifyCRC32 checks the CRC-32 over dataWithCRC[:length] against the 4
// bytes immediately following it.
func verifyCRC32(dataWithCRC []byte, length int) bool {
	if len(dataWithCRC) < length+4 {
		return false
	}
	expected := binary.LittleEndian.Uint32(dataWithCRC[length : length+4])
	return crc32.ChecksumIEEE(dataWithCRC[:length]) == expected
}
