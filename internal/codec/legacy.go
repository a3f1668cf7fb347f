package codec

import "github.com/kb9vor/ncofdm/internal/pn"

// puncturePattern returns the keep/drop pattern (1=keep, 0=drop) applied to
// the rate-1/2 coded bit stream to produce the higher code rates, following
// the standard 802.11a puncturing tables.
func puncturePattern(r pn.Rate) []byte {
	switch r {
	case pn.Rate2_3QAM64:
		return []byte{1, 1, 1, 0}
	case pn.Rate3_4QAM16:
		return []byte{1, 1, 1, 0, 0, 1}
	default:
		return []byte{1, 1}
	}
}

// puncture drops bits per the rate's pattern, cycling the pattern over the
// whole coded bit stream.
func puncture(coded []byte, r pn.Rate) []byte {
	pat := puncturePattern(r)
	out := make([]byte, 0, len(coded))
	for i, b := range coded {
		if pat[i%len(pat)] == 1 {
			out = append(out, b)
		}
	}
	return out
}

// depuncture re-inserts erasure placeholders (0) at dropped positions so
// the Viterbi decoder sees a full-rate coded stream again. nbits is the
// number of rate-1/2 coded bits expected in the output.
func depuncture(punctured []byte, r pn.Rate, nbits int) []byte {
	pat := puncturePattern(r)
	out := make([]byte, nbits)
	pi := 0
	for i := 0; i < nbits && pi < len(punctured); i++ {
		if pat[i%len(pat)] == 1 {
			out[i] = punctured[pi]
			pi++
		}
	}
	return out
}

// interleave applies the two-stage 802.11a block interleaver to one coded
// OFDM symbol's worth of bits (length cbps).
func interleave(bits []byte, params pn.RateParams) []byte {
	cbps := params.Cbps
	bpsc := params.Bpsc
	s := bpsc / 2
	if s < 1 {
		s = 1
	}
	out := make([]byte, cbps)
	for i := 0; i < cbps; i++ {
		k := (cbps / 16) * (i % 16) + i/16
		j := s*(k/s) + (k+cbps-(16*k)/cbps)%s
		out[j] = bits[i]
	}
	return out
}

// deinterleave reverses interleave over one symbol's worth of bits.
func deinterleave(bits []byte, params pn.RateParams) []byte {
	cbps := params.Cbps
	bpsc := params.Bpsc
	s := bpsc / 2
	if s < 1 {
		s = 1
	}
	out := make([]byte, cbps)
	for i := 0; i < cbps; i++ {
		k := (cbps / 16) * (i % 16) + i/16
		j := s*(k/s) + (k+cbps-(16*k)/cbps)%s
		out[i] = bits[j]
	}
	return out
}

// EncodeLegacy runs the 802.11a-style encode chain: convolutional code,
// puncture, per-symbol interleave, modulate. It is exercised by the
// alternative non-underlay frame builder, not by the underlay-linked path.
func EncodeLegacy(payload []byte, r pn.Rate) ([]complex128, error) {
	params := pn.ParamsFor(r)
	nsym := numSymbols(len(payload), params.Dbps)
	numDataBits := nsym * params.Dbps
	numDataBytes := numDataBits / 8

	data := make([]byte, numDataBytes)
	copy(data, payload)
	writeCRC(data, payload)

	scrambled := scramble(data)
	bits := bytesToBits(scrambled)

	encIn := make([]byte, numDataBits)
	copy(encIn, bits[:numDataBits-tailBits])
	coded := convEncode(encIn)

	punctured := puncture(coded, r)

	c := newConstellation(params.Bpsc)
	out := make([]complex128, 0, len(punctured)/params.Bpsc)
	for off := 0; off+params.Cbps <= len(punctured); off += params.Cbps {
		sym := interleave(punctured[off:off+params.Cbps], params)
		out = append(out, c.modulateBits(sym)...)
	}
	return out, nil
}

// DecodeLegacy is the inverse of EncodeLegacy.
func DecodeLegacy(samples []complex128, r pn.Rate, l int) ([]byte, error) {
	params := pn.ParamsFor(r)
	nsym := numSymbols(l, params.Dbps)
	numDataBits := nsym * params.Dbps
	numDataBytes := numDataBits / 8
	numRate12Bits := numDataBits * 2

	c := newConstellation(params.Bpsc)
	demod := c.demodulateSymbols(samples)

	punctured := make([]byte, 0, len(demod))
	for off := 0; off+params.Cbps <= len(demod); off += params.Cbps {
		sym := demod[off : off+params.Cbps]
		deint := deinterleave(sym, params)
		punctured = append(punctured, deint...)
	}

	coded := depuncture(punctured, r, numRate12Bits)
	decodedBits := convDecode(coded, numDataBits)
	decodedBytes := bitsToBytes(decodedBits)
	descrambled := scramble(decodedBytes[:numDataBytes])

	if !verifyCRC32(descrambled, l) {
		return nil, ErrInvalidCRC
	}
	return descrambled[:l], nil
}

func writeCRC(data, payload []byte) {
	copy(data, appendCRC32(payload)[:len(payload)+4])
}
