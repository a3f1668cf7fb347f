package dsp

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFTIFFTRoundTrip(t *testing.T) {
	n := 64
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(float64(i)/float64(n), 0)
	}

	y := FFT(x)
	z := IFFT(y)

	for i := range x {
		if cmplx.Abs(x[i]-z[i]) > 1e-10 {
			t.Errorf("IFFT(FFT(x))[%d] = %v, want %v", i, z[i], x[i])
		}
	}
}

func TestFFTKnownValues(t *testing.T) {
	x := []complex128{1, 1, 1, 1}
	y := FFT(x)

	if cmplx.Abs(y[0]-4) > 1e-10 {
		t.Errorf("FFT([1,1,1,1])[0] = %v, want 4", y[0])
	}
	for i := 1; i < 4; i++ {
		if cmplx.Abs(y[i]) > 1e-10 {
			t.Errorf("FFT([1,1,1,1])[%d] = %v, want 0", i, y[i])
		}
	}
}

func TestFFTParseval(t *testing.T) {
	n := 256
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(2*math.Pi*float64(i)/float64(n)), 0)
	}

	y := FFT(x)

	var sumX, sumY float64
	for i := range x {
		sumX += real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
		sumY += real(y[i])*real(y[i]) + imag(y[i])*imag(y[i])
	}
	sumY /= float64(n)

	if math.Abs(sumX-sumY) > 1e-6 {
		t.Errorf("Parseval's theorem violated: sumX=%v, sumY/N=%v", sumX, sumY)
	}
}

func TestCyclicPrefixRoundTrip(t *testing.T) {
	sym := make([]complex128, 64)
	for i := range sym {
		sym[i] = complex(float64(i), -float64(i))
	}

	withCP := AddCyclicPrefix(sym, 16)
	if len(withCP) != 80 {
		t.Fatalf("len(withCP) = %d, want 80", len(withCP))
	}
	for i := 0; i < 16; i++ {
		if withCP[i] != sym[48+i] {
			t.Errorf("CP[%d] = %v, want %v", i, withCP[i], sym[48+i])
		}
	}

	stripped := StripCyclicPrefix(withCP, 16)
	for i := range sym {
		if stripped[i] != sym[i] {
			t.Errorf("stripped[%d] = %v, want %v", i, stripped[i], sym[i])
		}
	}
}

func TestFFTPanicsOnNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-power-of-2 length")
		}
	}()
	FFT(make([]complex128, 5))
}
