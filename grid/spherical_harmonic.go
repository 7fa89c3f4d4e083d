package grid

import (
	"fmt"

	"github.com/mmp/gribpack/internal"
)

// SphericalHarmonicGrid represents a GRIB2 Spherical Harmonic Coefficients
// grid (Template 3.50), used by spectral models to describe the pentagonal
// truncation a Template 5.51 data field was packed against.
type SphericalHarmonicGrid struct {
	J uint32 // Pentagonal resolution parameter J
	K uint32 // Pentagonal resolution parameter K
	M uint32 // Pentagonal resolution parameter M

	TruncationType uint8 // Table 3.6: 1 = triangular, 2 = rhomboidal, 3 = trapezoidal
}

// ParseSphericalHarmonicGrid parses a spherical harmonic grid from template
// data (Template 3.50): 13 bytes (J, K, M as uint32, truncation type byte).
func ParseSphericalHarmonicGrid(data []byte) (*SphericalHarmonicGrid, error) {
	if len(data) < 13 {
		return nil, fmt.Errorf("template 3.50 requires at least 13 bytes, got %d", len(data))
	}

	r := internal.NewReader(data)
	j, _ := r.Uint32()
	k, _ := r.Uint32()
	m, _ := r.Uint32()
	truncationType, _ := r.Uint8()

	return &SphericalHarmonicGrid{
		J:              j,
		K:              k,
		M:              m,
		TruncationType: truncationType,
	}, nil
}

// TemplateNumber returns 50 for Spherical Harmonic Coefficients.
func (g *SphericalHarmonicGrid) TemplateNumber() int {
	return 50
}

// NumPoints returns the number of spherical harmonic coefficients implied
// by the truncation, not a spatial grid point count: each (m, n) pair
// contributes a real/imaginary value pair. Rhomboidal truncation (K ==
// J+M) uses Nm = J+m; every other shape, triangular included, uses Nm = J.
func (g *SphericalHarmonicGrid) NumPoints() int {
	total := 0
	for m := uint32(0); m <= g.M; m++ {
		nm := g.J
		if g.K == g.J+g.M {
			nm = g.J + m
		}
		if nm < m {
			continue
		}
		total += int(nm-m+1) * 2
	}
	return total
}

// String returns a human-readable description.
func (g *SphericalHarmonicGrid) String() string {
	return fmt.Sprintf("Spherical Harmonic grid: J=%d K=%d M=%d, truncation type %d",
		g.J, g.K, g.M, g.TruncationType)
}
