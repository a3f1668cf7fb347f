// Package fftstage wraps the 64-point FFT as a scheduler stage (C4):
// it consumes tagged time-domain samples from the underlay correlator,
// strips each 80-sample OFDM symbol's 16-sample cyclic prefix, and
// produces tagged frequency-domain symbol vectors for the frame decoder.
package fftstage

import (
	"github.com/kb9vor/ncofdm/internal/dsp"
	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/underlay"
)

// TaggedVector64 is one 64-point FFT output, tagged with its head sample's
// tag (ULPN marks the start of a new overlay frame).
type TaggedVector64 struct {
	Tag     underlay.Tag
	Samples [pn.Size]complex128
}

const symbolLen = pn.CyclicPrefixLen + pn.Size

// Stage groups complete 80-sample (16-sample cyclic prefix + 64-sample
// body) symbols out of the tagged sample stream, strips the prefix, and
// FFTs the remaining 64 samples. Partial trailing symbols (fewer than
// symbolLen samples) are held back and prefixed onto the next Work() call's
// input.
type Stage struct {
	input   []underlay.TaggedSample
	output  []TaggedVector64
	pending []underlay.TaggedSample
}

// New builds an empty fftstage.Stage.
func New() *Stage { return &Stage{} }

// SetInput implements scheduler.Stage.
func (s *Stage) SetInput(in any) { s.input = in.([]underlay.TaggedSample) }

// TakeOutput implements scheduler.Stage.
func (s *Stage) TakeOutput() any {
	out := s.output
	s.output = nil
	return out
}

// Work implements scheduler.Stage.
func (s *Stage) Work() {
	buf := append(s.pending, s.input...)
	n := len(buf) / symbolLen
	out := make([]TaggedVector64, 0, n)

	for b := 0; b < n; b++ {
		chunk := buf[b*symbolLen : (b+1)*symbolLen]
		body := chunk[pn.CyclicPrefixLen:]
		raw := make([]complex128, pn.Size)
		for i, ts := range body {
			raw[i] = ts.Sample
		}
		freq := dsp.FFT(raw)

		var tv TaggedVector64
		tv.Tag = chunk[0].Tag
		copy(tv.Samples[:], freq)
		out = append(out, tv)
	}

	s.pending = append([]underlay.TaggedSample{}, buf[n*symbolLen:]...)
	s.output = out
}
