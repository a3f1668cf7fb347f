package underlay

import (
	"testing"

	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/rs/zerolog"
)

func TestAdderPolarityAlternatesPerBlock(t *testing.T) {
	k := 5
	x := make([]complex128, k*pn.Size)
	a := NewAdder(pn.UnderlayAmplitude)
	y := a.Add(x)

	for block := 0; block < k; block++ {
		wantPolarity := 1.0
		if block%2 == 1 {
			wantPolarity = -1.0
		}
		for i := 0; i < pn.Size; i++ {
			idx := block*pn.Size + i
			want := complex(wantPolarity*pn.UnderlayAmplitude, 0) * pn.SPNS[i]
			if y[idx] != want {
				t.Fatalf("block %d sample %d = %v, want %v", block, i, y[idx], want)
			}
		}
	}
}

// The carryover is prepended ahead of each call's new samples, so a window
// anchored at pointer x looks backward over the pnSize samples ending just
// before x: a block occupying [P, P+pnSize) is only confirmed, causally,
// once its last sample has arrived — the tag lands at P+pnSize.
func TestCorrelatorLocality(t *testing.T) {
	pad := make([]complex128, 3*pn.Size)
	body := make([]complex128, pn.Size)
	copy(body, pn.SPNS[:])
	input := append(append(append([]complex128{}, pad...), body...), pad...)

	c := NewCorrelator(zerolog.Nop())
	tagged := c.Process(input)

	wantTagAt := len(pad) + pn.Size
	found := -1
	count := 0
	for i, ts := range tagged {
		if ts.Tag == TagULPN {
			if found == -1 {
				found = i
			}
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d ULPN tags, want exactly 1", count)
	}
	if found != wantTagAt {
		t.Errorf("ULPN tag at %d, want %d", found, wantTagAt)
	}
}

func TestCorrelatorSkipAhead(t *testing.T) {
	reps := 20
	input := make([]complex128, 0, (reps+1)*pn.Size)
	polarity := 1.0
	for r := 0; r < reps; r++ {
		for i := 0; i < pn.Size; i++ {
			input = append(input, complex(polarity, 0)*pn.SPNS[i])
		}
		polarity = -polarity
	}
	// trailing null block gives the final block's tag (one pnSize past its
	// start) room to land within this call.
	input = append(input, make([]complex128, pn.Size)...)

	c := NewCorrelator(zerolog.Nop())
	tagged := c.Process(input)

	var tags []int
	for i, ts := range tagged {
		if ts.Tag == TagULPN {
			tags = append(tags, i)
		}
	}
	if len(tags) != reps {
		t.Fatalf("got %d ULPN tags, want %d", len(tags), reps)
	}
	for r, idx := range tags {
		want := (r + 1) * pn.Size
		if idx != want {
			t.Errorf("tag %d at offset %d, want %d", r, idx, want)
		}
	}
}

func TestCorrelatorCarriesOverAcrossInvocations(t *testing.T) {
	body := make([]complex128, pn.Size)
	copy(body, pn.SPNS[:])
	part1 := body[:40]
	// one extra sample beyond the body gives the carryover-stitched peak
	// room to land within this call's output.
	part2 := append(append([]complex128{}, body[40:]...), 0)

	c := NewCorrelator(zerolog.Nop())
	c.Process(part1)
	tagged := c.Process(part2)

	found := false
	for _, ts := range tagged {
		if ts.Tag == TagULPN {
			found = true
		}
	}
	if !found {
		t.Error("expected a ULPN tag stitched across the carryover boundary")
	}
}

// When a skip-ahead target lands beyond the samples available in the
// current call (a short tick relative to pn.Size), the remaining skip must
// carry into the next call rather than wrap back into this one and stall
// correlation for the rest of the stream.
func TestCorrelatorSkipAheadCarriesAcrossShortTicks(t *testing.T) {
	reps := 6
	full := make([]complex128, 0, (reps+1)*pn.Size)
	polarity := 1.0
	for r := 0; r < reps; r++ {
		for i := 0; i < pn.Size; i++ {
			full = append(full, complex(polarity, 0)*pn.SPNS[i])
		}
		polarity = -polarity
	}
	full = append(full, make([]complex128, pn.Size)...)

	// Feed the same stream in small chunks that do not align with pn.Size,
	// so a skip-ahead (54 samples) frequently exceeds what remains in a
	// single chunk.
	const chunk = 17
	c := NewCorrelator(zerolog.Nop())
	var tags []int
	pos := 0
	for pos < len(full) {
		end := pos + chunk
		if end > len(full) {
			end = len(full)
		}
		tagged := c.Process(full[pos:end])
		for i, ts := range tagged {
			if ts.Tag == TagULPN {
				tags = append(tags, pos+i)
			}
		}
		pos = end
	}

	if len(tags) != reps {
		t.Fatalf("got %d ULPN tags across chunked ticks, want %d (tags=%v)", len(tags), reps, tags)
	}
	for r, idx := range tags {
		want := (r + 1) * pn.Size
		if idx != want {
			t.Errorf("tag %d at offset %d, want %d", r, idx, want)
		}
	}
}

func TestCorrelatorBitsInErrorOnRepeatedPolarity(t *testing.T) {
	// Two blocks with the same (non-alternating) polarity should count as
	// one bit-in-error event.
	input := make([]complex128, 0, 3*pn.Size)
	for b := 0; b < 3; b++ {
		for i := 0; i < pn.Size; i++ {
			input = append(input, pn.SPNS[i])
		}
	}
	c := NewCorrelator(zerolog.Nop())
	c.Process(input)
	if c.BitsInError() == 0 {
		t.Error("expected at least one bits_in_error increment for repeated polarity")
	}
}
