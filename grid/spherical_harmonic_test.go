package grid

import "testing"

func TestParseSphericalHarmonicGrid(t *testing.T) {
	data := make([]byte, 13)
	putUint32 := func(b []byte, v uint32) {
		b[0] = byte(v >> 24)
		b[1] = byte(v >> 16)
		b[2] = byte(v >> 8)
		b[3] = byte(v)
	}
	putUint32(data[0:4], 5)
	putUint32(data[4:8], 5)
	putUint32(data[8:12], 5)
	data[12] = 1

	g, err := ParseSphericalHarmonicGrid(data)
	if err != nil {
		t.Fatalf("ParseSphericalHarmonicGrid failed: %v", err)
	}
	if g.J != 5 || g.K != 5 || g.M != 5 {
		t.Errorf("got J=%d K=%d M=%d, want 5,5,5", g.J, g.K, g.M)
	}
	if g.TruncationType != 1 {
		t.Errorf("got truncation type %d, want 1", g.TruncationType)
	}
	if g.TemplateNumber() != 50 {
		t.Errorf("got template number %d, want 50", g.TemplateNumber())
	}
	// Triangular JJ=KK=MM=5: 21 (m, n) pairs, 2 floats each = 42.
	if got := g.NumPoints(); got != 42 {
		t.Errorf("got %d points, want 42", got)
	}
}

func TestParseSphericalHarmonicGridTooShort(t *testing.T) {
	if _, err := ParseSphericalHarmonicGrid(make([]byte, 5)); err == nil {
		t.Error("expected an error for undersized template data")
	}
}

func TestSphericalHarmonicGridRhomboidalNumPoints(t *testing.T) {
	g := &SphericalHarmonicGrid{J: 10, K: 15, M: 5, TruncationType: 2}
	// Rhomboidal: each m in [0,5] contributes (J+1) = 11 terms, 2 floats each: 6*11*2 = 132.
	if got := g.NumPoints(); got != 132 {
		t.Errorf("got %d points, want 132", got)
	}
}
