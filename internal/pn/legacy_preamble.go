package pn

// Legacy short/long training frequency-domain sequences, standard 802.11a
// values, supplied here so internal/frame can build the alternative
// (non-underlay) preamble by IFFT-ing them. Each sequence spans subcarriers
// -26..26 (53 entries); ShortTrainingFreq/LongTrainingFreq place them into
// natural 64-point FFT order (index = subcarrier mod 64).

var shortTrainingCoeffs = [53]complex128{
	0, 0, 1 + 1i, 0, 0, 0, -1 - 1i, 0, 0, 0, 1 + 1i, 0, 0, 0, -1 - 1i, 0, 0, 0, -1 - 1i,
	0, 0, 0, 1 + 1i, 0, 0, 0, 0, 0, 0, 0, -1 - 1i, 0, 0, 0, -1 - 1i, 0, 0, 0, 1 + 1i, 0, 0,
	0, 1 + 1i, 0, 0, 0, 1 + 1i, 0, 0, 0, 1 + 1i, 0, 0,
}

var longTrainingCoeffs = [53]complex128{
	1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1, 1, 1, -1, -1, 1, 1, -1, 1, -1, 1, 1, 1, 1,
	0, 1, -1, -1, 1, 1, -1, 1, -1, 1, -1, -1, -1, -1, -1, 1, 1, -1, -1, 1, -1, 1, -1, 1, 1, 1, 1,
}

const shortTrainingScale = 1.4719601443879744 // sqrt(13/6)

// ShortTrainingFreq returns the 64-point frequency-domain short training
// sequence in natural FFT subcarrier order.
func ShortTrainingFreq() [Size]complex128 {
	return placeSubcarriers(shortTrainingCoeffs[:], complex(shortTrainingScale, 0))
}

// LongTrainingFreq returns the 64-point frequency-domain long training
// sequence in natural FFT subcarrier order.
func LongTrainingFreq() [Size]complex128 {
	return placeSubcarriers(longTrainingCoeffs[:], complex(1, 0))
}

// placeSubcarriers maps a 53-entry sequence centred at subcarrier 0
// (index 26 of coeffs corresponds to subcarrier 0) into 64-point natural
// FFT order, scaling each entry by scale.
func placeSubcarriers(coeffs []complex128, scale complex128) [Size]complex128 {
	var out [Size]complex128
	for i, c := range coeffs {
		sc := i - 26
		idx := sc
		if idx < 0 {
			idx += Size
		}
		out[idx] = c * scale
	}
	return out
}
