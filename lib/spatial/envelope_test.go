// Copyright 2026 Koordinates Limited
// SPDX-License-Identifier: Apache-2.0

package spatial_test

import (
	"testing"

	"github.com/koordinates/kart-native/lib/spatial"
)

func mustEncoder(t *testing.T, bits int) *spatial.Encoder {
	t.Helper()
	encoder, err := spatial.NewEncoder(bits)
	if err != nil {
		t.Fatalf("NewEncoder(%d): %v", bits, err)
	}
	return encoder
}

func TestEncodeUnitBox(t *testing.T) {
	encoder := mustEncoder(t, 20)

	if got := encoder.ByteLength(); got != 10 {
		t.Fatalf("ByteLength = %d, want 10", got)
	}

	box := spatial.Envelope{W: 0, S: 0, E: 1, N: 1}
	data, err := encoder.Encode(box)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) != 10 {
		t.Fatalf("encoded length = %d, want 10", len(data))
	}

	decoded, err := encoder.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.W > box.W || decoded.S > box.S {
		t.Errorf("decoded minima (%g, %g) exceed (%g, %g)", decoded.W, decoded.S, box.W, box.S)
	}
	if decoded.E < box.E || decoded.N < box.N {
		t.Errorf("decoded maxima (%g, %g) below (%g, %g)", decoded.E, decoded.N, box.E, box.N)
	}
}

func TestRoundTripSuperset(t *testing.T) {
	boxes := []spatial.Envelope{
		{W: -180, S: -90, E: 180, N: 90},
		{W: -180, S: -90, E: -180, N: -90},
		{W: 180, S: 90, E: 180, N: 90},
		{W: 0, S: 0, E: 0, N: 0},
		{W: -1.5, S: -1.5, E: 1.5, N: 1.5},
		{W: 174.7, S: -41.3, E: 174.8, N: -41.2},
		{W: -122.52, S: 37.7, E: -122.35, N: 37.84},
		{W: 2.22, S: 48.81, E: 2.47, N: 48.9},
		{W: 179.999, S: -0.001, E: 180, N: 0.001},
	}

	for _, bits := range []int{4, 16, 20, 32} {
		encoder := mustEncoder(t, bits)
		lngStep := 360.0 / float64(uint64(1)<<bits-1)
		latStep := 180.0 / float64(uint64(1)<<bits-1)

		for _, box := range boxes {
			data, err := encoder.Encode(box)
			if err != nil {
				t.Fatalf("B=%d Encode(%v): %v", bits, box, err)
			}
			if len(data) != bits/2 {
				t.Fatalf("B=%d encoded %v to %d bytes, want %d", bits, box, len(data), bits/2)
			}
			decoded, err := encoder.Decode(data)
			if err != nil {
				t.Fatalf("B=%d Decode(%v): %v", bits, box, err)
			}

			if decoded.W > box.W || decoded.S > box.S || decoded.E < box.E || decoded.N < box.N {
				t.Errorf("B=%d decoded %v is not a superset of %v", bits, decoded, box)
			}
			const slack = 1e-9
			if box.W-decoded.W > lngStep+slack || decoded.E-box.E > lngStep+slack {
				t.Errorf("B=%d longitude error too large: %v -> %v (step %g)", bits, box, decoded, lngStep)
			}
			if box.S-decoded.S > latStep+slack || decoded.N-box.N > latStep+slack {
				t.Errorf("B=%d latitude error too large: %v -> %v (step %g)", bits, box, decoded, latStep)
			}
		}
	}
}

func TestNewEncoderValidation(t *testing.T) {
	cases := []struct {
		bits int
		ok   bool
	}{
		{0, true}, // selects the default
		{20, true},
		{2, true},
		{32, true},
		{15, false}, // odd
		{-2, false},
		{34, false}, // over the 128-bit register
	}
	for _, c := range cases {
		_, err := spatial.NewEncoder(c.bits)
		if c.ok && err != nil {
			t.Errorf("NewEncoder(%d): unexpected error %v", c.bits, err)
		}
		if !c.ok && err == nil {
			t.Errorf("NewEncoder(%d): expected error", c.bits)
		}
	}
}

func TestDefaultPrecision(t *testing.T) {
	encoder := mustEncoder(t, 0)
	if got := encoder.BitsPerValue(); got != spatial.DefaultBitsPerValue {
		t.Errorf("BitsPerValue = %d, want %d", got, spatial.DefaultBitsPerValue)
	}
}

func TestEncoderForByteLength(t *testing.T) {
	encoder, err := spatial.EncoderForByteLength(10)
	if err != nil {
		t.Fatalf("EncoderForByteLength(10): %v", err)
	}
	if got := encoder.BitsPerValue(); got != 20 {
		t.Errorf("BitsPerValue = %d, want 20", got)
	}

	encoder, err = spatial.EncoderForByteLength(8)
	if err != nil {
		t.Fatalf("EncoderForByteLength(8): %v", err)
	}
	if got := encoder.BitsPerValue(); got != 16 {
		t.Errorf("BitsPerValue = %d, want 16", got)
	}

	for _, n := range []int{0, 17, 100} {
		if _, err := spatial.EncoderForByteLength(n); err == nil {
			t.Errorf("EncoderForByteLength(%d): expected error", n)
		}
	}
}

func TestDerivedEncoderRoundTrips(t *testing.T) {
	// An encoder derived from a stored row width must decode what the
	// original wrote.
	writer := mustEncoder(t, 16)
	box := spatial.Envelope{W: 12.5, S: -33.25, E: 14, N: -31}
	data, err := writer.Encode(box)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	reader, err := spatial.EncoderForByteLength(len(data))
	if err != nil {
		t.Fatalf("EncoderForByteLength(%d): %v", len(data), err)
	}
	decoded, err := reader.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.W > box.W || decoded.S > box.S || decoded.E < box.E || decoded.N < box.N {
		t.Errorf("decoded %v is not a superset of %v", decoded, box)
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	encoder := mustEncoder(t, 20)
	bad := []spatial.Envelope{
		{W: -181, S: 0, E: 0, N: 0},
		{W: 0, S: -91, E: 0, N: 0},
		{W: 0, S: 0, E: 200, N: 0},
		{W: 0, S: 0, E: 0, N: 90.5},
	}
	for _, box := range bad {
		if _, err := encoder.Encode(box); err == nil {
			t.Errorf("Encode(%v): expected error", box)
		}
	}
}

func TestDecodeWrongLength(t *testing.T) {
	encoder := mustEncoder(t, 20)
	if _, err := encoder.Decode(make([]byte, 9)); err == nil {
		t.Error("Decode of 9 bytes with a 10-byte encoder: expected error")
	}
}
