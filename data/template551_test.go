package data

import (
	"math"
	"testing"
)

func TestNTruncationTriangularVsRhomboidal(t *testing.T) {
	// Triangular: K != J+M for at least one m in range, e.g. JJ=KK=MM=5.
	if got := nTruncation(5, 5, 5, 3); got != 5 {
		t.Errorf("triangular Nm for m=3: got %d, want 5", got)
	}
	// Rhomboidal: JJ=10, KK=15, MM=5 => K == J+M (15 == 10+5), Nm = J+m.
	if got := nTruncation(10, 15, 5, 3); got != 13 {
		t.Errorf("rhomboidal Nm for m=3: got %d, want 13", got)
	}
}

func TestWalkSpectralTriangularCoefficientCount(t *testing.T) {
	// JJ=KK=MM=5 triangular truncation: sum_{m=0}^{5} (5-m+1) = 6+5+4+3+2+1 = 21.
	coeffs := walkSpectral(5, 5, 5, 0, 0, 0)
	if len(coeffs) != 21 {
		t.Fatalf("got %d coefficients, want 21", len(coeffs))
	}
}

func TestWalkSpectralRhomboidalCoefficientCount(t *testing.T) {
	// JJ=10, KK=15, MM=5 rhomboidal: each m in [0,5] contributes (J+1) = 11 terms: 6*11 = 66.
	coeffs := walkSpectral(10, 15, 5, 0, 0, 0)
	if len(coeffs) != 66 {
		t.Fatalf("got %d coefficients, want 66", len(coeffs))
	}
}

func TestLaplacianScaleZeroGuard(t *testing.T) {
	p := laplacianScale(5, 1000000) // T = 1.0
	if p[0] != 1 {
		t.Errorf("P(0) must be 1 to avoid the singularity, got %v", p[0])
	}
	want := math.Pow(2*3, -1.0)
	if math.Abs(p[2]-want) > 1e-12 {
		t.Errorf("P(2): got %v, want %v", p[2], want)
	}
}

func TestTemplate551EncodeDecodeRoundTrip(t *testing.T) {
	tmpl := NewTemplate551(10, 3, 24, 0, 2, 2, 2)
	tmpl.SetTruncation(5, 5, 5)

	coeffs := walkSpectral(5, 5, 5, 2, 2, 2)
	fld := make([]float64, 2*len(coeffs))
	for i := range fld {
		fld[i] = float64(i) * 0.1
	}

	payload, templateBytes, err := tmpl.Encode(fld)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := ParseTemplate551(tmpl.NumDataValues(), templateBytes)
	if err != nil {
		t.Fatalf("parse round trip: %v", err)
	}
	parsed.SetTruncation(5, 5, 5)

	values, err := parsed.Decode(payload, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(values) != len(fld) {
		t.Fatalf("got %d values, want %d", len(values), len(fld))
	}

	step := math.Pow(2, -10) * math.Pow(10, -3)
	for i, v := range values {
		if diff := math.Abs(v - fld[i]); diff > step*4+1e-6 {
			t.Errorf("position %d: got %v, want %v (diff %v)", i, v, fld[i], diff)
		}
	}
}

func TestTemplate551DecodeRejectsBitmap(t *testing.T) {
	tmpl := NewTemplate551(0, 0, 16, 0, 0, 0, 0)
	tmpl.SetTruncation(2, 2, 2)
	if _, err := tmpl.Decode(nil, []bool{true, false}); err == nil {
		t.Error("expected an error when a bitmap is supplied for a spectral template")
	}
}

func TestTemplate551DecodeRejectsUnsupportedPrecision(t *testing.T) {
	tmpl := NewTemplate551(0, 0, 16, 0, 0, 0, 0)
	tmpl.SetTruncation(2, 2, 2)
	tmpl.PrecisionFlag = 2
	tmpl.numberOfDataValues = 10 // unexported field, only settable within the package
	_, err := tmpl.Decode(nil, nil)
	if err != ErrUnsupportedPrecision {
		t.Errorf("got error %v, want ErrUnsupportedPrecision", err)
	}
}
