// Package mapper allocates OFDM subcarriers to data, pilot, and null roles
// from a 64-bit subcarrier mask, and maps/demaps data symbols onto them.
package mapper

import "github.com/kb9vor/ncofdm/internal/pn"

// Kind identifies the role of one of the 64 subcarrier positions.
type Kind byte

const (
	Null Kind = iota
	Data
	Pilot
)

// Mapper holds the active subcarrier map derived from a single sc_map
// bitmask. Every 8th active (non-null) subcarrier becomes a pilot; the rest
// carry data.
type Mapper struct {
	active    [pn.Size]Kind
	dataCount int
	pilotCnt  int
	totalCnt  int
}

// New builds a Mapper from a 64-bit subcarrier allocation mask: bit x set
// means subcarrier x is active (data or pilot); bit x clear means null.
func New(scMask uint64) *Mapper {
	m := &Mapper{}
	locCount := 0
	for x := 0; x < pn.Size; x++ {
		if (scMask>>uint(x))&1 != 1 {
			continue
		}
		locCount++
		if locCount%8 == 0 {
			m.active[x] = Pilot
			m.pilotCnt++
		} else {
			m.active[x] = Data
		}
	}
	m.totalCnt = locCount
	m.dataCount = locCount - m.pilotCnt
	return m
}

// DataSubcarrierCount is the number of data-bearing subcarriers per symbol.
func (m *Mapper) DataSubcarrierCount() int { return m.dataCount }

// PilotCount is the number of pilot subcarriers per symbol.
func (m *Mapper) PilotCount() int { return m.pilotCnt }

// TotalSubcarrierCount is the number of active (non-null) subcarriers.
func (m *Mapper) TotalSubcarrierCount() int { return m.totalCnt }

// ActiveMap returns a copy of the 64-entry role map.
func (m *Mapper) ActiveMap() [pn.Size]Kind { return m.active }

// Map spreads modulated data symbols across the active subcarriers,
// inserting pilots and nulls, producing a stream of 64-sample OFDM symbols.
// If len(data) is not a multiple of DataSubcarrierCount, data is zero-padded
// up to the next whole symbol rather than left to run past the end of the
// last one.
func (m *Mapper) Map(data []complex128) []complex128 {
	if rem := len(data) % m.dataCount; rem != 0 {
		padded := make([]complex128, len(data)+m.dataCount-rem)
		copy(padded, data)
		data = padded
	}

	out := make([]complex128, len(data)*pn.Size/m.dataCount)
	outIdx, inIdx, symbol := 0, 0, 0
	for start := 0; start < len(data); start += m.dataCount {
		pilotIdx := 0
		for s := 0; s < pn.Size; s++ {
			switch m.active[s] {
			case Null:
				out[outIdx] = 0
			case Data:
				out[outIdx] = data[inIdx]
				inIdx++
			case Pilot:
				out[outIdx] = pn.Pilots[pilotIdx%len(pn.Pilots)] * complex(pn.Polarity[symbol%127], 0)
				pilotIdx++
			}
			outIdx++
		}
		symbol++
	}
	return out
}

// Demap extracts the data subcarriers from a stream of 64-sample symbols,
// discarding nulls and pilots. len(samples) must be a multiple of 64.
func (m *Mapper) Demap(samples []complex128) []complex128 {
	out := make([]complex128, 0, len(samples)*m.dataCount/pn.Size)
	for x, s := range samples {
		if m.active[x%pn.Size] == Data {
			out = append(out, s)
		}
	}
	return out
}
