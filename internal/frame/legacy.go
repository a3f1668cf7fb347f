package frame

import (
	"fmt"

	"github.com/kb9vor/ncofdm/internal/codec"
	"github.com/kb9vor/ncofdm/internal/dsp"
	"github.com/kb9vor/ncofdm/internal/mapper"
	"github.com/kb9vor/ncofdm/internal/pn"
)

const longTrainingCPLen = 32

// PreambleSamples builds the 320-sample 802.11a-style legacy preamble: ten
// repeated 16-sample short training windows (160 samples), then a
// double-length cyclic prefix plus two repeated long training symbols
// (160 samples).
func PreambleSamples() []complex128 {
	shortFreq := pn.ShortTrainingFreq()
	shortTime := dsp.IFFT(shortFreq[:])

	short := make([]complex128, 0, 160)
	window := shortTime[:16]
	for i := 0; i < 10; i++ {
		short = append(short, window...)
	}

	longFreq := pn.LongTrainingFreq()
	longTime := dsp.IFFT(longFreq[:])

	long := make([]complex128, 0, 160)
	long = append(long, longTime[len(longTime)-longTrainingCPLen:]...)
	long = append(long, longTime...)
	long = append(long, longTime...)

	return append(short, long...)
}

// BuildLegacyFrame builds the alternative, non-underlay frame: the 802.11a
// puncture/interleave codec variant, mapped and IFFT'd exactly as
// BuildFrame, but prefixed with the legacy training preamble instead of
// being routed through the underlay adder.
func BuildLegacyFrame(payload []byte, rate pn.Rate, scMask uint64) ([]complex128, error) {
	samples, err := codec.EncodeLegacy(payload, rate)
	if err != nil {
		return nil, fmt.Errorf("frame: legacy encode: %w", err)
	}

	m := mapper.New(scMask)
	mapped := m.Map(samples)
	withCP := addCyclicPrefixPerSymbol(mapped, pn.Size, pn.CyclicPrefixLen)

	return append(PreambleSamples(), withCP...), nil
}
