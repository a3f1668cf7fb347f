// Package codec implements the payload codec (C2): scramble, convolutional
// code, and QAM modulation on transmit; the inverse chain plus CRC-32
// verification on receive. The "basic" variant below is what the
// underlay-linked pipeline uses — no interleaving or puncturing. A
// "legacy" 802.11a-style variant with puncturing and interleaving is also
// provided for the non-underlay frame path.
package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/kb9vor/ncofdm/internal/pn"
)

// MaxFrameSize mirrors the original builder's payload ceiling.
const MaxFrameSize = 2000

// tailBits is the number of known-zero convolutional-encoder flush bits
// appended after the data/CRC bytes.
const tailBits = 6

func numSymbols(payloadLen int, dbps int) int {
	bits := 8*(payloadLen+4) + tailBits
	return (bits + dbps - 1) / dbps
}

// EncodeBasic runs the canonical (no interleave/puncture) encode chain over
// payload at rate r, returning modulated complex samples.
func EncodeBasic(payload []byte, r pn.Rate) ([]complex128, error) {
	if len(payload) > MaxFrameSize {
		return nil, fmt.Errorf("codec: payload length %d exceeds max %d", len(payload), MaxFrameSize)
	}
	params := pn.ParamsFor(r)
	nsym := numSymbols(len(payload), params.Dbps)
	numDataBits := nsym * params.Dbps
	numDataBytes := numDataBits / 8

	data := make([]byte, numDataBytes)
	copy(data, payload)
	binary.LittleEndian.PutUint32(data[len(payload):], crc32.ChecksumIEEE(payload))

	scrambled := scramble(data)
	bits := bytesToBits(scrambled)

	encIn := make([]byte, numDataBits)
	copy(encIn, bits[:numDataBits-tailBits])
	// the trailing tailBits stay zero — the known-zero flush tail.

	coded := convEncode(encIn)

	c := newConstellation(params.Bpsc)
	return c.modulateBits(coded), nil
}

// DecodeBasic runs the canonical decode chain over samples representing one
// frame body encoded at rate r with declared payload length l.
func DecodeBasic(samples []complex128, r pn.Rate, l int) ([]byte, error) {
	params := pn.ParamsFor(r)
	nsym := numSymbols(l, params.Dbps)
	numDataBits := nsym * params.Dbps
	numDataBytes := numDataBits / 8

	c := newConstellation(params.Bpsc)
	coded := c.demodulateSymbols(samples)
	if len(coded) < numDataBits*2 {
		return nil, fmt.Errorf("codec: got %d coded bits, need %d", len(coded), numDataBits*2)
	}

	decodedBits := convDecode(coded[:numDataBits*2], numDataBits)
	decodedBytes := bitsToBytes(decodedBits)
	descrambled := scramble(decodedBytes[:numDataBytes])

	if !verifyCRC32(descrambled, l) {
		return nil, ErrInvalidCRC
	}
	return descrambled[:l], nil
}
