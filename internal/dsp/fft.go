// Package dsp implements the small set of numeric primitives the OFDM
// pipeline treats as external building blocks: a power-of-two FFT/IFFT and
// cyclic-prefix helpers. The transform itself is a standard iterative
// Cooley-Tukey radix-2 butterfly; nothing about it is specific to this
// project's framing.
package dsp

import (
	"math"
	"math/cmplx"
)

// FFT computes the forward DFT in place conceptually, returning a new
// slice. len(x) must be a power of two.
func FFT(x []complex128) []complex128 {
	return transform(x, false)
}

// IFFT computes the inverse DFT, normalized by 1/N.
func IFFT(x []complex128) []complex128 {
	out := transform(x, true)
	scale := complex(1/float64(len(x)), 0)
	for i := range out {
		out[i] *= scale
	}
	return out
}

func transform(x []complex128, inverse bool) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	copy(out, x)
	if n <= 1 {
		return out
	}
	if n&(n-1) != 0 {
		panic("dsp: FFT/IFFT length must be a power of 2")
	}
	bitReverse(out)
	butterfly(out, inverse)
	return out
}

func butterfly(x []complex128, inverse bool) {
	n := len(x)
	sign := -1.0
	if inverse {
		sign = 1.0
	}
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		wn := cmplx.Exp(complex(0, sign*2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for j := 0; j < half; j++ {
				u := x[start+j]
				v := w * x[start+j+half]
				x[start+j] = u + v
				x[start+j+half] = u - v
				w *= wn
			}
		}
	}
}

func bitReverse(x []complex128) {
	n := len(x)
	bits := 0
	for tmp := n; tmp > 1; tmp >>= 1 {
		bits++
	}
	for i := range x {
		j := reverseBits(i, bits)
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
}

func reverseBits(x, bits int) int {
	result := 0
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

// AddCyclicPrefix prepends the last cpLen samples of sym back onto itself.
func AddCyclicPrefix(sym []complex128, cpLen int) []complex128 {
	out := make([]complex128, cpLen+len(sym))
	copy(out, sym[len(sym)-cpLen:])
	copy(out[cpLen:], sym)
	return out
}

// StripCyclicPrefix drops the first cpLen samples of sym.
func StripCyclicPrefix(sym []complex128, cpLen int) []complex128 {
	out := make([]complex128, len(sym)-cpLen)
	copy(out, sym[cpLen:])
	return out
}
