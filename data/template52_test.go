package data

import "testing"

func TestTemplate52EncodeDecodeRoundTrip(t *testing.T) {
	fld := make([]float64, 500)
	for i := range fld {
		fld[i] = float64(i%17) * 0.25
	}

	tmpl := NewTemplate52(4, 2, 0, 0, 0)
	payload, templateBytes, err := tmpl.Encode(fld)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := ParseTemplate52(tmpl.NumDataValues(), templateBytes)
	if err != nil {
		t.Fatalf("parse round trip: %v", err)
	}

	values, err := parsed.Decode(payload, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(values) != len(fld) {
		t.Fatalf("got %d values, want %d", len(values), len(fld))
	}
	step := 1.0 / float64(int64(1)<<4) / 100
	for i, v := range values {
		if diff := v - fld[i]; diff > step+1e-9 || diff < -(step+1e-9) {
			t.Errorf("position %d: got %v, want %v", i, v, fld[i])
		}
	}
}

func TestTemplate52DecodeWithBitmap(t *testing.T) {
	packed := []float64{1, 2, 3}
	bitmap := []bool{false, true, true, false, true}

	out, err := expandWithBitmap(packed, bitmap)
	if err != nil {
		t.Fatalf("expandWithBitmap: %v", err)
	}
	want := []float64{MissingMissingValue, 1, 2, MissingMissingValue, 3}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestTemplate52DecodeWithBitmapMismatchErrors(t *testing.T) {
	if _, err := expandWithBitmap([]float64{1, 2}, []bool{true}); err == nil {
		t.Error("expected error when packed values outnumber bitmap slots")
	}
	if _, err := expandWithBitmap([]float64{1, 2}, []bool{true, true, true}); err == nil {
		t.Error("expected error when bitmap implies more valid points than supplied values")
	}
}

func TestTemplate52String(t *testing.T) {
	tmpl := NewTemplate52(0, 0, 0, 0, 0)
	if _, _, err := tmpl.Encode([]float64{1, 2, 3, 4}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s := tmpl.String(); s == "" {
		t.Error("expected a non-empty description")
	}
	if tmpl.TemplateNumber() != 2 {
		t.Errorf("got template number %d, want 2", tmpl.TemplateNumber())
	}
}
