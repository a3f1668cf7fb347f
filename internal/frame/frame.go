// Package frame implements the frame builder (C5): the pure
// payload/rate/subcarrier-mask to transmit-buffer pipeline, in both its
// canonical underlay-carrying form and an alternative legacy-preamble form.
package frame

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/kb9vor/ncofdm/internal/codec"
	"github.com/kb9vor/ncofdm/internal/dsp"
	"github.com/kb9vor/ncofdm/internal/mapper"
	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/underlay"
)

// BuildFrame runs the canonical six-step encode chain: basic payload codec,
// subcarrier mapping, per-symbol IFFT, cyclic prefix, zero-pad to a
// pn.Size multiple, then the underlay adder. dump, if non-nil, receives the
// padded pre-underlay buffer as little-endian (re, im) float64 pairs (the
// overlay_data.dat artefact); a nil dump is not an error.
func BuildFrame(payload []byte, rate pn.Rate, scMask uint64, adder *underlay.Adder, dump io.Writer) ([]complex128, error) {
	samples, err := codec.EncodeBasic(payload, rate)
	if err != nil {
		return nil, fmt.Errorf("frame: encode: %w", err)
	}

	m := mapper.New(scMask)
	mapped := m.Map(samples)

	withCP := addCyclicPrefixPerSymbol(mapped, pn.Size, pn.CyclicPrefixLen)

	padded := zeroPadToMultiple(withCP, pn.Size)

	if dump != nil {
		if err := writeOverlayDump(dump, padded); err != nil {
			return nil, fmt.Errorf("frame: overlay dump: %w", err)
		}
	}

	return adder.Add(padded), nil
}

// addCyclicPrefixPerSymbol runs an IFFT over each symLen-sample
// OFDM symbol and prepends its cyclic prefix, per spec steps 3-4.
func addCyclicPrefixPerSymbol(mapped []complex128, symLen, cpLen int) []complex128 {
	nsym := len(mapped) / symLen
	out := make([]complex128, 0, nsym*(symLen+cpLen))
	for s := 0; s < nsym; s++ {
		sym := dsp.IFFT(mapped[s*symLen : (s+1)*symLen])
		out = append(out, dsp.AddCyclicPrefix(sym, cpLen)...)
	}
	return out
}

func zeroPadToMultiple(x []complex128, multiple int) []complex128 {
	rem := len(x) % multiple
	if rem == 0 {
		return x
	}
	return append(x, make([]complex128, multiple-rem)...)
}

func writeOverlayDump(w io.Writer, samples []complex128) error {
	buf := make([]byte, 16*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint64(buf[16*i:], math.Float64bits(real(s)))
		binary.LittleEndian.PutUint64(buf[16*i+8:], math.Float64bits(imag(s)))
	}
	_, err := w.Write(buf)
	return err
}
