package internal

import "testing"

func TestIEEE32RoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 3.14159, -273.15, 1e20, -1e-20, 9.999e20}
	for _, v := range values {
		bits := WriteIEEE32(v)
		got := ReadIEEE32(bits)
		if got != v {
			t.Errorf("round trip %v: got %v", v, got)
		}
	}
}

func TestIEEE32KnownBits(t *testing.T) {
	// 1.0f is 0x3F800000 in IEEE-754 single precision.
	if got := WriteIEEE32(1.0); got != 0x3F800000 {
		t.Errorf("WriteIEEE32(1.0) = %#x, want 0x3f800000", got)
	}
	if got := ReadIEEE32(0x3F800000); got != 1.0 {
		t.Errorf("ReadIEEE32(0x3f800000) = %v, want 1.0", got)
	}
}

func TestIEEE32NaNDoesNotCrash(t *testing.T) {
	// NaN need not survive round trip exactly, but must not panic.
	nanBits := uint32(0x7FC00000)
	f := ReadIEEE32(nanBits)
	_ = WriteIEEE32(f)
}
