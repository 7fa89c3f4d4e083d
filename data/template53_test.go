package data

import (
	"math"
	"testing"
)

func TestTemplate53EncodeDecodeRoundTripOrder2(t *testing.T) {
	fld := make([]float64, 2000)
	for i := range fld {
		fld[i] = 300 + 0.1*float64(i)
	}

	tmpl := NewTemplate53(4, 1, 2, 0, 0, 0)
	payload, templateBytes, err := tmpl.Encode(fld)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parsed, err := ParseTemplate53(tmpl.NumDataValues(), templateBytes)
	if err != nil {
		t.Fatalf("parse round trip: %v", err)
	}
	if parsed.tmpl.SpatialDiffOrder != 2 {
		t.Fatalf("expected spatial diff order 2 to round-trip through the template bytes, got %d", parsed.tmpl.SpatialDiffOrder)
	}

	values, err := parsed.Decode(payload, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	step := math.Pow(2, -4) * math.Pow(10, -1)
	for i, v := range values {
		if diff := math.Abs(v - fld[i]); diff > step+1e-9 {
			t.Errorf("position %d: got %v, want %v (diff %v)", i, v, fld[i], diff)
		}
	}
}

func TestTemplate53EncodeDecodeRoundTripOrder1(t *testing.T) {
	fld := make([]float64, 300)
	walk := 500.0
	for i := range fld {
		walk += float64((i%7)-3) * 0.5
		fld[i] = walk
	}

	tmpl := NewTemplate53(3, 0, 1, 0, 0, 0)
	payload, _, err := tmpl.Encode(fld)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	values, err := DecodeComplexField(payload, tmpl.tmpl, len(fld))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	step := math.Pow(2, -3)
	for i, v := range values {
		if diff := math.Abs(v - fld[i]); diff > step+1e-9 {
			t.Errorf("position %d: got %v, want %v (diff %v)", i, v, fld[i], diff)
		}
	}
}

func TestTemplate53DefaultsSpatialOrderWhenUnset(t *testing.T) {
	tmpl := &Template53{}
	fld := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if _, _, err := tmpl.Encode(fld); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if tmpl.tmpl.SpatialDiffOrder != 2 {
		t.Errorf("expected default spatial diff order 2, got %d", tmpl.tmpl.SpatialDiffOrder)
	}
}

func TestTemplate53AllMissingFieldEncodesWithoutError(t *testing.T) {
	const rmissp = float32(9.999e20)
	fld := make([]float64, 40)
	for i := range fld {
		fld[i] = float64(rmissp)
	}

	tmpl := NewTemplate53(0, 0, 2, 1, rmissp, 0)
	payload, _, err := tmpl.Encode(fld)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	values, err := DecodeComplexField(payload, tmpl.tmpl, len(fld))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, v := range values {
		if v != float64(rmissp) {
			t.Errorf("position %d: got %v, want missing sentinel", i, v)
		}
	}
}
