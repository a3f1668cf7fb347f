// Package radio defines the narrow sample-streaming boundary the receive
// and transmit cores consume (spec §6 "Radio contract"), plus a
// loopback implementation for tests and an optional PortAudio-backed one.
package radio

import "context"

// Radio is the front-end boundary: baseband complex sample streaming in,
// bursts out. Implementations block until the operation completes.
type Radio interface {
	// GetSamples blocks until n complex baseband samples are available and
	// returns them.
	GetSamples(ctx context.Context, n int) ([]complex128, error)
	// SendBurstSync blocks until samples has been handed to the DAC.
	SendBurstSync(ctx context.Context, samples []complex128) error
}
