package underlay

import (
	"math"

	"github.com/kb9vor/ncofdm/internal/pn"
	"github.com/rs/zerolog"
)

// Tag marks a sample as an ordinary passthrough or as the start of an
// underlay PN boundary that also marks an overlay frame start.
type Tag int

const (
	TagNone Tag = iota
	TagULPN
)

// TaggedSample is one sample of the correlator's output stream.
type TaggedSample struct {
	Sample complex128
	Tag    Tag
}

// Correlator performs sliding PN correlation over a streamed complex
// sample input, emitting a tagged output stream and recovering one
// underlay bit per detected peak. It is the scheduler's first stage (C9)
// in the receive chain and is touched by exactly one worker goroutine.
type Correlator struct {
	log zerolog.Logger

	carryover   []complex128
	prevBit     int
	prevConf    int
	pendingSkip int

	bitsInError int
	onBit       func(bit int)
}

// NewCorrelator builds a Correlator with a zeroed carryover buffer of
// length pn.Size.
func NewCorrelator(log zerolog.Logger) *Correlator {
	return &Correlator{
		log:       log.With().Str("component", "underlay_correlator").Logger(),
		carryover: make([]complex128, pn.Size),
	}
}

// OnBit registers a callback invoked with each recovered underlay bit
// (0 or 1), in detection order. Supplements the bits_in_error diagnostic
// with an actual bit stream consumer (e.g. ulfec.BitSink).
func (c *Correlator) OnBit(f func(bit int)) { c.onBit = f }

// BitsInError is the running count of consecutive-peak polarity
// violations, i.e. detected peaks that did not alternate bit value.
func (c *Correlator) BitsInError() int { return c.bitsInError }

// Process runs one invocation of the correlator over input, returning a
// tagged output stream of the same length.
func (c *Correlator) Process(input []complex128) []TaggedSample {
	n := len(input)
	if n == 0 {
		return nil
	}

	s := make([]complex128, pn.Size+n)
	copy(s, c.carryover)
	copy(s[pn.Size:], input)

	out := make([]TaggedSample, n)
	conf := c.prevConf
	// nextX is an absolute pointer into this call's new samples; it can run
	// past n when a skip-ahead lands beyond the current tick, in which case
	// the remainder carries over as pendingSkip for the next call instead of
	// wrapping back into this one.
	nextX := c.pendingSkip

	for x := 0; x < n; x++ {
		out[x] = TaggedSample{Sample: input[x], Tag: TagNone}
		if x != nextX {
			continue
		}
		conf--

		window := s[x : x+pn.Size]
		coeff := correlate(window)
		nextX = x + 1

		if coeff <= pn.CoeffThresh && coeff >= -pn.CoeffThresh {
			continue
		}

		out[x].Tag = TagULPN

		var bit int
		if coeff > 0 {
			bit = 1
		}
		if bit == c.prevBit {
			c.bitsInError++
		}
		c.prevBit = bit
		if c.onBit != nil {
			c.onBit(bit)
		}

		if coeff > pn.UpperCoeffThresh || coeff < -pn.UpperCoeffThresh {
			conf = 100
		} else if conf > 0 {
			conf = 100
		}

		if conf < 100 {
			nextX = x + 1
		} else {
			nextX = x + pn.Size - pn.SearchWindow
		}

		c.log.Debug().Int("x", x).Float64("coeff", coeff).Int("bits_in_error", c.bitsInError).Msg("underlay peak")
	}

	c.prevConf = conf
	c.pendingSkip = nextX - n
	if c.pendingSkip < 0 {
		c.pendingSkip = 0
	}
	copy(c.carryover, s[n:])
	return out
}

// correlate computes the signed, normalized cross-correlation coefficient
// of a pn.Size-length window against the PN sequence.
func correlate(window []complex128) float64 {
	n := pn.Size

	var pnMean float64
	for _, v := range pn.SPNS {
		pnMean += real(v)
	}
	pnMean /= float64(n)

	var mul complex128
	var mean complex128
	var sqrSum float64
	for k := 0; k < n; k++ {
		mul += window[k] * pn.SPNS[k]
		sqrSum += real(window[k])*real(window[k]) + imag(window[k])*imag(window[k])
		mean += window[k]
	}
	mean /= complex(float64(n), 0)

	scaledMean := complex(float64(n), 0) * complex(pnMean, 0) * mean
	numC := mul - scaledMean
	num := math.Hypot(real(numC), imag(numC))
	meanAbsSq := real(mean)*real(mean) + imag(mean)*imag(mean)
	den := math.Sqrt(sqrSum-float64(n)*meanAbsSq) * math.Sqrt(float64(n))

	if den == 0 {
		return 0.00001
	}
	if real(numC) > 0 {
		return num / den
	}
	return -num / den
}
