// Package underlay implements the direct-sequence spread-spectrum
// signalling channel: adding it to a transmit buffer (Adder) and
// recovering it from a received sample stream while tagging overlay frame
// boundaries (Correlator).
package underlay

import (
	"math/rand"

	"github.com/kb9vor/ncofdm/internal/pn"
)

// Adder overlays the PN sequence onto a transmit buffer, alternating block
// polarity every pn.Size samples. Its position/polarity state persists
// across calls so a caller may feed it the transmit buffer in pieces.
type Adder struct {
	amplitude  float64
	noiseSigma float64
	rng        *rand.Rand
	pos        int
	polarity   int
}

// NewAdder builds an Adder at the given per-build amplitude (see
// pn.UnderlayAmplitude for the default), with polarity initialised to +1.
func NewAdder(amplitude float64) *Adder {
	return &Adder{amplitude: amplitude, polarity: 1}
}

// WithNoise enables simulation-only additive Gaussian noise N(0, sigma^2).
// Production builds should not call this.
func (a *Adder) WithNoise(sigma float64, rng *rand.Rand) *Adder {
	a.noiseSigma = sigma
	a.rng = rng
	return a
}

// Add returns a new buffer of the same length as x with the underlay signal
// added.
func (a *Adder) Add(x []complex128) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		y := v + complex(float64(a.polarity)*a.amplitude, 0)*pn.SPNS[a.pos]
		if a.noiseSigma > 0 && a.rng != nil {
			y += complex(a.rng.NormFloat64()*a.noiseSigma, 0)
		}
		out[i] = y
		if a.pos == pn.Size-1 {
			a.polarity = -a.polarity
			a.pos = 0
		} else {
			a.pos++
		}
	}
	return out
}
