// Package pn holds the fixed pseudo-noise sequence and rate tables shared by
// the transmit and receive pipelines. Everything in this file is an
// immutable global constant table, touched only for reads once the process
// starts — no synchronization is required.
package pn

// Size is the length of the underlay PN sequence in samples, and also the
// symbol period (post-cyclic-prefix) of one OFDM symbol.
const Size = 64

// CyclicPrefixLen is the number of trailing time-domain samples copied
// ahead of each 64-sample OFDM symbol, making an 80-sample symbol on air.
const CyclicPrefixLen = 16

// SPNS is the underlay PN sequence: values in {-1, 0, +1} on the real axis.
// Zero-valued positions are guard carriers and still participate in
// correlation as zero.
var SPNS = [Size]complex128{
	0, 0, 0, 0, 0, 0, 1, 1,
	-1, -1, 1, 1, -1, 1, -1, 1,
	1, 1, 1, 1, 1, -1, -1, 1,
	1, -1, 1, -1, 1, 1, 1, 1,
	0, 1, -1, -1, 1, 1, -1, 1,
	-1, 1, -1, -1, -1, -1, -1, 1,
	1, -1, -1, 1, -1, 1, -1, 1,
	1, 1, 1, 0, 0, 0, 0, 0,
}

// Polarity is the pilot polarity sequence, indexed modulo its own length by
// the OFDM symbol count starting from the first data symbol. A longer run
// of symbols simply wraps back to the start.
var Polarity = [127]float64{
	1, 1, 1, 1, -1, -1, -1, 1, -1, -1, -1, -1, 1, 1, -1, 1,
	-1, -1, 1, 1, -1, 1, 1, -1, 1, 1, 1, 1, 1, 1, -1, 1,
	1, 1, -1, 1, 1, -1, -1, 1, 1, 1, -1, 1, -1, -1, -1, 1,
	-1, 1, -1, -1, 1, -1, -1, 1, 1, 1, 1, 1, -1, -1, 1, 1,
	-1, -1, 1, -1, 1, -1, 1, 1, -1, -1, -1, 1, 1, -1, -1, -1,
	-1, 1, -1, -1, 1, -1, 1, 1, 1, 1, -1, 1, -1, 1, -1, 1,
	-1, -1, -1, -1, -1, 1, -1, 1, 1, -1, 1, -1, 1, 1, 1, -1,
	-1, 1, -1, -1, -1, 1, 1, 1, -1, -1, -1, -1, -1, -1, -1,
}

// Pilots are always BPSK modulated: the first three pilots in every symbol
// carry the same value, and the fourth is inverted. In a symbol with more
// than four pilots the pattern repeats from the start.
var Pilots = [4]complex128{1, 1, 1, -1}

// UnderlayAmplitude is the default per-build underlay amplitude A, roughly
// 12 dB below a unit-amplitude overlay.
const UnderlayAmplitude = 0.0159

// CoeffThresh is the minimum absolute correlation coefficient that
// qualifies as an underlay peak.
const CoeffThresh = 0.10

// UpperCoeffThresh is the correlation coefficient above which the
// correlator's confidence counter is driven to its maximum.
const UpperCoeffThresh = 0.15

// SearchWindow bounds how close to the expected next PN boundary the
// correlator resumes fine-grained correlation once locked.
const SearchWindow = 10

// NumRxSamples is the default number of samples the receiver facade pulls
// from the radio per iteration.
const NumRxSamples = 1600

// CanonicalSCMask activates the 54 middle subcarriers of the 64-point FFT
// (5 null guard subcarriers on each edge), following the "every 8th active
// subcarrier is a pilot" rule down to 6 pilots and 48 data subcarriers —
// the standard 802.11a data-subcarrier count. Under the legacy punctured
// codec, every rate always produces 48 modulated samples per OFDM symbol,
// so this mask tiles a whole number of symbols exactly. The underlay
// pipeline's basic (unpunctured) codec only hits that same 48-per-symbol
// figure at RATE_1_2_BPSK and RATE_1_2_QAM16 — the fixed-geometry frame
// decoder (internal/decoder) only ever decodes RATE_1_2_BPSK, which this
// mask fits exactly; mapper.Map's zero-padding covers any rate where it
// doesn't divide evenly. This is the default mask for the TX/RX
// command-line harnesses; transmitter and receiver must agree on whatever
// mask is actually used.
const CanonicalSCMask uint64 = (1<<54 - 1) << 5
