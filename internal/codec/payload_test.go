package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kb9vor/ncofdm/internal/pn"
)

func TestEncodeDecodeBasicRoundTrip(t *testing.T) {
	payload := []byte("HelloOFDM!HelloOFDM!")
	samples, err := EncodeBasic(payload, pn.Rate1_2BPSK)
	if err != nil {
		t.Fatalf("EncodeBasic: %v", err)
	}

	got, err := DecodeBasic(samples, pn.Rate1_2BPSK, len(payload))
	if err != nil {
		t.Fatalf("DecodeBasic: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestEncodeDecodeBasicAllRates(t *testing.T) {
	payload := []byte("test payload data")
	for _, r := range []pn.Rate{pn.Rate1_2BPSK, pn.Rate1_2QAM16, pn.Rate2_3QAM64, pn.Rate3_4QAM16} {
		samples, err := EncodeBasic(payload, r)
		if err != nil {
			t.Fatalf("rate %v: EncodeBasic: %v", r, err)
		}
		got, err := DecodeBasic(samples, r, len(payload))
		if err != nil {
			t.Fatalf("rate %v: DecodeBasic: %v", r, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("rate %v: got %q, want %q", r, got, payload)
		}
	}
}

func TestDecodeBasicRejectsCorruptedCRC(t *testing.T) {
	payload := []byte("HelloOFDM!HelloOFDM!")
	samples, err := EncodeBasic(payload, pn.Rate1_2BPSK)
	if err != nil {
		t.Fatalf("EncodeBasic: %v", err)
	}

	// Flip 32 consecutive modulated samples: a single flipped coded bit is
	// corrected by the Viterbi decoder, a burst this long is not, so the
	// recovered bytes no longer match their CRC.
	for i := 100; i < 132; i++ {
		samples[i] = complex(-real(samples[i]), imag(samples[i]))
	}

	_, err = DecodeBasic(samples, pn.Rate1_2BPSK, len(payload))
	if !errors.Is(err, ErrInvalidCRC) {
		t.Fatalf("err = %v, want ErrInvalidCRC", err)
	}
}

func TestScramblerIsInvolution(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x5A, 0xA5, 0x13, 0x37, 0x00, 0x01}
	once := scramble(data)
	twice := scramble(once)
	if !bytes.Equal(twice, data) {
		t.Errorf("scramble(scramble(x)) = %v, want %v", twice, data)
	}
}

func TestEncodeLegacyDecodeLegacyRoundTrip(t *testing.T) {
	payload := []byte("legacy path payload")
	for _, r := range []pn.Rate{pn.Rate1_2BPSK, pn.Rate2_3QAM64, pn.Rate3_4QAM16} {
		samples, err := EncodeLegacy(payload, r)
		if err != nil {
			t.Fatalf("rate %v: EncodeLegacy: %v", r, err)
		}
		got, err := DecodeLegacy(samples, r, len(payload))
		if err != nil {
			t.Fatalf("rate %v: DecodeLegacy: %v", r, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("rate %v: got %q, want %q", r, got, payload)
		}
	}
}

func TestConvEncodeDecodeRoundTrip(t *testing.T) {
	bits := make([]byte, 100)
	for i := range bits {
		bits[i] = byte((i * 37) % 2)
	}
	// force a zero tail, as the payload codec does
	for i := len(bits) - tailBits; i < len(bits); i++ {
		bits[i] = 0
	}
	coded := convEncode(bits)
	decoded := convDecode(coded, len(bits))
	for i := range bits {
		if bits[i] != decoded[i] {
			t.Errorf("bit %d: got %d, want %d", i, decoded[i], bits[i])
		}
	}
}
