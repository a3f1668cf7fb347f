package radio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate   = 44100
	framesPerBuf = 1600 // matches pn.NumRxSamples
	numChannels  = 1
)

// PortAudioRadio drives a real sound-card front end. The card carries a
// single real-valued channel, so baseband samples are presented as
// complex128 with a zero imaginary part on receive, and only the real
// part is written on transmit; true quadrature up/down conversion is
// outside this core's scope.
type PortAudioRadio struct {
	mu           sync.Mutex
	inputStream  *portaudio.Stream
	outputStream *portaudio.Stream
	inputBuf     []float32
	outputBuf    []float32
}

// Init initialises the PortAudio library. Must be called once before any
// PortAudioRadio is constructed.
func Init() error { return portaudio.Initialize() }

// Terminate releases the PortAudio library.
func Terminate() error { return portaudio.Terminate() }

// NewPortAudioRadio opens default duplex input/output streams.
func NewPortAudioRadio() (*PortAudioRadio, error) {
	r := &PortAudioRadio{
		inputBuf:  make([]float32, framesPerBuf),
		outputBuf: make([]float32, framesPerBuf),
	}

	in, err := portaudio.OpenDefaultStream(numChannels, 0, float64(sampleRate), framesPerBuf, r.inputBuf)
	if err != nil {
		return nil, fmt.Errorf("radio: open input stream: %w", err)
	}
	r.inputStream = in

	out, err := portaudio.OpenDefaultStream(0, numChannels, float64(sampleRate), framesPerBuf, r.outputBuf)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("radio: open output stream: %w", err)
	}
	r.outputStream = out

	if err := in.Start(); err != nil {
		return nil, fmt.Errorf("radio: start input stream: %w", err)
	}
	if err := out.Start(); err != nil {
		return nil, fmt.Errorf("radio: start output stream: %w", err)
	}
	return r, nil
}

// GetSamples blocks until n real-valued samples have been read from the
// input stream, returning them as complex128 with a zero imaginary part.
// ctx cancellation is not honored mid-read: the underlying PortAudio read
// call is itself blocking I/O, matching spec's "radio read is blocking".
func (r *PortAudioRadio) GetSamples(ctx context.Context, n int) ([]complex128, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]complex128, 0, n)
	for len(out) < n {
		if err := r.inputStream.Read(); err != nil {
			return nil, fmt.Errorf("radio: read: %w", err)
		}
		for _, v := range r.inputBuf {
			if len(out) == n {
				break
			}
			out = append(out, complex(float64(v), 0))
		}
	}
	return out, nil
}

// SendBurstSync writes the real part of samples to the output stream in
// framesPerBuf chunks, zero-padding the final partial chunk.
func (r *PortAudioRadio) SendBurstSync(ctx context.Context, samples []complex128) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < len(samples); i += framesPerBuf {
		end := i + framesPerBuf
		chunk := make([]float32, framesPerBuf)
		for j := i; j < len(samples) && j < end; j++ {
			chunk[j-i] = float32(real(samples[j]))
		}
		copy(r.outputBuf, chunk)
		if err := r.outputStream.Write(); err != nil {
			return fmt.Errorf("radio: write: %w", err)
		}
	}
	return nil
}

// Close stops and closes both streams.
func (r *PortAudioRadio) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.inputStream != nil {
		if err := r.inputStream.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.outputStream != nil {
		if err := r.outputStream.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("radio: close errors: %v", errs)
	}
	return nil
}
