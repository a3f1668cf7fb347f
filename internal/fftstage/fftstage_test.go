package fftstage

import (
	"math/cmplx"
	"testing"

	"github.com/kb9vor/ncofdm/internal/dsp"
	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/kb9vor/ncofdm/internal/underlay"
)

// taggedSymbol builds the 80-sample on-air form (16-sample cyclic prefix +
// 64-sample body) of body, tagged as the correlator would tag it: only the
// very first sample carries tag.
func taggedSymbol(body []complex128, tag underlay.Tag) []underlay.TaggedSample {
	withCP := dsp.AddCyclicPrefix(body, pn.CyclicPrefixLen)
	out := make([]underlay.TaggedSample, len(withCP))
	for i, s := range withCP {
		out[i] = underlay.TaggedSample{Sample: s}
	}
	out[0].Tag = tag
	return out
}

func TestWorkStripsCyclicPrefixBeforeFFT(t *testing.T) {
	body := make([]complex128, pn.Size)
	for i := range body {
		body[i] = complex(float64(i)/float64(pn.Size), -float64(i)/float64(pn.Size))
	}

	s := New()
	s.SetInput(taggedSymbol(body, underlay.TagULPN))
	s.Work()

	out := s.TakeOutput().([]TaggedVector64)
	if len(out) != 1 {
		t.Fatalf("got %d output blocks, want 1", len(out))
	}
	if out[0].Tag != underlay.TagULPN {
		t.Errorf("tag = %v, want TagULPN", out[0].Tag)
	}

	want := dsp.FFT(body)
	for i := range want {
		if cmplx.Abs(out[0].Samples[i]-want[i]) > 1e-9 {
			t.Errorf("Samples[%d] = %v, want %v", i, out[0].Samples[i], want[i])
		}
	}
}

func TestWorkHoldsBackPartialTrailingSymbol(t *testing.T) {
	bodyA := make([]complex128, pn.Size)
	bodyB := make([]complex128, pn.Size)
	for i := range bodyA {
		bodyA[i] = complex(float64(i), 0)
		bodyB[i] = complex(0, float64(i))
	}

	symA := taggedSymbol(bodyA, underlay.TagULPN)
	symB := taggedSymbol(bodyB, underlay.TagNone)

	s := New()

	// Feed symbol A plus the first 30 samples of symbol B: only A should
	// come out this tick, with the rest of B held in s.pending.
	s.SetInput(append(append([]underlay.TaggedSample{}, symA...), symB[:30]...))
	s.Work()
	out := s.TakeOutput().([]TaggedVector64)
	if len(out) != 1 {
		t.Fatalf("tick 1: got %d blocks, want 1", len(out))
	}
	wantA := dsp.FFT(bodyA)
	for i := range wantA {
		if cmplx.Abs(out[0].Samples[i]-wantA[i]) > 1e-9 {
			t.Errorf("tick 1 Samples[%d] = %v, want %v", i, out[0].Samples[i], wantA[i])
		}
	}

	// Completing symbol B's remaining 50 samples should now yield exactly
	// one block, the FFT of bodyB.
	s.SetInput(symB[30:])
	s.Work()
	out = s.TakeOutput().([]TaggedVector64)
	if len(out) != 1 {
		t.Fatalf("tick 2: got %d blocks, want 1", len(out))
	}
	wantB := dsp.FFT(bodyB)
	for i := range wantB {
		if cmplx.Abs(out[0].Samples[i]-wantB[i]) > 1e-9 {
			t.Errorf("tick 2 Samples[%d] = %v, want %v", i, out[0].Samples[i], wantB[i])
		}
	}
}
