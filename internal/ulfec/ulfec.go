// Package ulfec provides an optional Reed-Solomon outer forward error
// correction layer over the underlay's recovered bit stream, plus a
// BitSink that packs individually-recovered bits into byte blocks ready
// for RS decoding. The underlay channel itself (internal/underlay) carries
// one raw bit per PN block with no redundancy; this package is how a
// consumer can trade underlay throughput for resilience against the
// occasional bits_in_error event.
package ulfec

import (
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// Default shard geometry: small blocks, since the underlay channel's raw
// bit rate is low (one bit per PN block) and a consumer would rather
// recover short blocks quickly than wait on a single large one.
const (
	DefaultDataShards   = 32
	DefaultParityShards = 8
)

// Encoder wraps a Reed-Solomon codec sized in data/parity shards of one
// byte each, matching BitSink's one-byte-per-shard block output.
type Encoder struct {
	enc        reedsolomon.Encoder
	dataShards int
	parShards  int
}

// NewEncoder builds an Encoder with the given shard counts.
func NewEncoder(dataShards, parityShards int) (*Encoder, error) {
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("ulfec: new encoder: %w", err)
	}
	return &Encoder{enc: enc, dataShards: dataShards, parShards: parityShards}, nil
}

// EncodeBlock RS-encodes exactly DataShards() bytes of data, returning
// DataShards()+ParityShards() bytes.
func (e *Encoder) EncodeBlock(data []byte) ([]byte, error) {
	if len(data) != e.dataShards {
		return nil, fmt.Errorf("ulfec: encode block: got %d bytes, want %d", len(data), e.dataShards)
	}
	total := e.dataShards + e.parShards
	shards := make([][]byte, total)
	for i := 0; i < e.dataShards; i++ {
		shards[i] = []byte{data[i]}
	}
	for i := e.dataShards; i < total; i++ {
		shards[i] = make([]byte, 1)
	}
	if err := e.enc.Encode(shards); err != nil {
		return nil, fmt.Errorf("ulfec: encode: %w", err)
	}
	out := make([]byte, total)
	for i, s := range shards {
		out[i] = s[0]
	}
	return out, nil
}

// DecodeBlock reconstructs DataShards() bytes from a block of
// DataShards()+ParityShards() bytes, given the indices of shards known to
// be erased (e.g. blocks straddling a bits_in_error event).
func (e *Encoder) DecodeBlock(block []byte, erasures []int) ([]byte, error) {
	total := e.dataShards + e.parShards
	if len(block) != total {
		return nil, fmt.Errorf("ulfec: decode block: got %d bytes, want %d", len(block), total)
	}
	shards := make([][]byte, total)
	for i := 0; i < total; i++ {
		shards[i] = []byte{block[i]}
	}
	for _, idx := range erasures {
		if idx >= 0 && idx < total {
			shards[idx] = nil
		}
	}
	if err := e.enc.Reconstruct(shards); err != nil {
		return nil, fmt.Errorf("ulfec: reconstruct: %w", err)
	}
	out := make([]byte, e.dataShards)
	for i := 0; i < e.dataShards; i++ {
		out[i] = shards[i][0]
	}
	return out, nil
}

// DataShards is the number of data bytes per encoded block.
func (e *Encoder) DataShards() int { return e.dataShards }

// ParityShards is the number of parity bytes per encoded block.
func (e *Encoder) ParityShards() int { return e.parShards }
