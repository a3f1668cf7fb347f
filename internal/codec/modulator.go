package codec

import "math"

// constellation holds Gray-coded QAM points for one of the codec's three
// bits-per-subcarrier-symbol values (1, 4, or 6), normalized to unit
// average power.
type constellation struct {
	bpsc   int
	points []complex128
}

func newConstellation(bpsc int) *constellation {
	c := &constellation{bpsc: bpsc}
	switch bpsc {
	case 1:
		c.points = []complex128{1, -1} // BPSK: 0 -> +1, 1 -> -1
	case 4:
		c.generateSquareQAM(4)
		c.normalize()
	case 6:
		c.generateSquareQAM(8)
		c.normalize()
	default:
		c.points = []complex128{1, -1}
	}
	return c
}

func (c *constellation) generateSquareQAM(order int) {
	size := order * order
	c.points = make([]complex128, size)
	for i := 0; i < size; i++ {
		row := i / order
		col := i % order
		grayRow := row ^ (row >> 1)
		grayCol := col ^ (col >> 1)
		x := float64(2*grayCol - order + 1)
		y := float64(2*grayRow - order + 1)
		c.points[i] = complex(x, y)
	}
}

func (c *constellation) normalize() {
	var avgPower float64
	for _, p := range c.points {
		avgPower += real(p)*real(p) + imag(p)*imag(p)
	}
	avgPower /= float64(len(c.points))
	scale := 1.0 / math.Sqrt(avgPower)
	for i := range c.points {
		c.points[i] = complex(real(c.points[i])*scale, imag(c.points[i])*scale)
	}
}

func (c *constellation) modulate(bits []byte) complex128 {
	idx := bitsToIndex(bits)
	if idx >= len(c.points) {
		idx = 0
	}
	return c.points[idx]
}

func (c *constellation) demodulate(symbol complex128) []byte {
	minDist := math.MaxFloat64
	minIdx := 0
	for i, p := range c.points {
		d := real(symbol-p)*real(symbol-p) + imag(symbol-p)*imag(symbol-p)
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return indexToBits(minIdx, c.bpsc)
}

// modulateBits maps a 0/1 bit slice into symbols, bpsc bits each.
func (c *constellation) modulateBits(bits []byte) []complex128 {
	symbols := make([]complex128, len(bits)/c.bpsc)
	for i := range symbols {
		symbols[i] = c.modulate(bits[i*c.bpsc : (i+1)*c.bpsc])
	}
	return symbols
}

// demodulateSymbols maps symbols back to a 0/1 bit slice.
func (c *constellation) demodulateSymbols(symbols []complex128) []byte {
	bits := make([]byte, 0, len(symbols)*c.bpsc)
	for _, s := range symbols {
		bits = append(bits, c.demodulate(s)...)
	}
	return bits
}

func bitsToIndex(bits []byte) int {
	idx := 0
	for _, b := range bits {
		idx = (idx << 1) | int(b&1)
	}
	return idx
}

func indexToBits(idx, numBits int) []byte {
	bits := make([]byte, numBits)
	for i := numBits - 1; i >= 0; i-- {
		bits[i] = byte(idx & 1)
		idx >>= 1
	}
	return bits
}

func bytesToBits(data []byte) []byte {
	bits := make([]byte, len(data)*8)
	for i, b := range data {
		for j := 7; j >= 0; j-- {
			bits[i*8+(7-j)] = (b >> uint(j)) & 1
		}
	}
	return bits
}

func bitsToBytes(bits []byte) []byte {
	numBytes := len(bits) / 8
	data := make([]byte, numBytes)
	for i := 0; i < numBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b = (b << 1) | (bits[i*8+j] & 1)
		}
		data[i] = b
	}
	return data
}
