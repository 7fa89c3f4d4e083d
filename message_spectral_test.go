package grib

import (
	"testing"

	"github.com/mmp/gribpack/data"
	"github.com/mmp/gribpack/grid"
	"github.com/mmp/gribpack/section"
)

func TestMessageDecodeDataWiresSpectralTruncationFromGridDefinition(t *testing.T) {
	tmpl := data.NewTemplate551(0, 0, 16, 0, 0, 0, 0)
	tmpl.SetTruncation(5, 5, 5)
	fld := make([]float64, 42)
	for i := range fld {
		fld[i] = float64(i) * 0.01
	}
	payload, _, err := tmpl.Encode(fld)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// A fresh, unparsed Template551 to simulate what ParseTemplate551 would
	// hand back before SetTruncation has ever been called.
	fresh := data.NewTemplate551(0, 0, 16, 0, 0, 0, 0)

	msg := &Message{
		Section3: &section.Section3{
			Grid: &grid.SphericalHarmonicGrid{J: 5, K: 5, M: 5, TruncationType: 1},
		},
		Section5: &section.Section5{Representation: fresh},
		Section7: &section.Section7{Data: payload},
	}

	values, err := msg.DecodeData()
	if err != nil {
		t.Fatalf("DecodeData failed: %v", err)
	}
	if len(values) != len(fld) {
		t.Fatalf("got %d values, want %d", len(values), len(fld))
	}
}

func TestMessageDecodeDataRejectsSpectralWithoutSphericalHarmonicGrid(t *testing.T) {
	msg := &Message{
		Section3: &section.Section3{
			Grid: &grid.LatLonGrid{Ni: 3, Nj: 3},
		},
		Section5: &section.Section5{Representation: data.NewTemplate551(0, 0, 16, 0, 0, 0, 0)},
		Section7: &section.Section7{Data: []byte{0}},
	}

	if _, err := msg.DecodeData(); err == nil {
		t.Error("expected an error when a spectral representation is paired with a non-spherical-harmonic grid")
	}
}
