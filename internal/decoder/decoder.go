// Package decoder implements the frame decoder stage (C8): it consumes
// tagged 64-sample frequency-domain blocks and reassembles, demaps, and
// decodes complete underlay-carried frames.
package decoder

import (
	"github.com/kb9vor/ncofdm/internal/codec"
	"github.com/kb9vor/ncofdm/internal/fftstage"
	"github.com/kb9vor/ncofdm/internal/mapper"
	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/underlay"
)

// frameData tracks one in-flight receive frame.
type frameData struct {
	rate          pn.Rate
	length        int
	sampleCount   int
	samplesCopied int
	samples       []complex128
}

// Stage reassembles ULPN-tagged 64-sample blocks into complete frames and
// runs the payload decoder on each one. Fixed-geometry: every frame started
// by a ULPN tag has length pn.FixedFrameLength and
// pn.FixedFrameSampleCount useful demapped samples, matching the
// transmitter's basic-codec frame builder.
type Stage struct {
	m       *mapper.Mapper
	current frameData

	input  []fftstage.TaggedVector64
	output [][]byte
}

// New builds a decoder Stage that demaps with the given subcarrier mask.
func New(scMask uint64) *Stage {
	return &Stage{m: mapper.New(scMask)}
}

// SetInput implements scheduler.Stage.
func (s *Stage) SetInput(in any) { s.input = in.([]fftstage.TaggedVector64) }

// TakeOutput implements scheduler.Stage.
func (s *Stage) TakeOutput() any {
	out := s.output
	s.output = nil
	return out
}

// Work implements scheduler.Stage.
func (s *Stage) Work() {
	var decoded [][]byte

	for _, block := range s.input {
		if block.Tag == underlay.TagULPN {
			s.current = frameData{
				rate:        pn.Rate1_2BPSK,
				length:      pn.FixedFrameLength,
				sampleCount: pn.FixedFrameSampleCount,
				samples:     make([]complex128, 0, pn.FixedFrameSampleCount),
			}
		}

		if s.current.samplesCopied < s.current.sampleCount {
			demapped := s.m.Demap(block.Samples[:])
			s.current.samples = append(s.current.samples, demapped...)
			s.current.samplesCopied += len(demapped)
		}

		if s.current.sampleCount != 0 && s.current.samplesCopied >= s.current.sampleCount {
			payload, err := codec.DecodeBasic(s.current.samples, s.current.rate, s.current.length)
			if err == nil {
				decoded = append(decoded, payload)
			}
			s.current.sampleCount = 0
		}
	}

	s.output = decoded
}
