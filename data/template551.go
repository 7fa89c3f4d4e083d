package data

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/mmp/gribpack/internal"
)

// ErrUnsupportedPrecision reports a spectral template whose stored floats
// are not 32-bit IEEE-754, the only precision this packer understands.
var ErrUnsupportedPrecision = errors.New("data: template 5.51 only supports 32-bit IEEE-754 coefficients")

// Template551 represents Data Representation Template 5.51: Spectral
// Complex Packing for spherical-harmonic coefficients. Unlike 5.2/5.3, its
// traversal depends on the pentagonal truncation (JJ, KK, MM) carried in
// the grid definition template (Section 3), not in Section 5 itself; the
// framing layer must call SetTruncation before Decode or Encode.
type Template551 struct {
	Reference              float32
	BinaryScaleFactor      int16
	DecimalScaleFactor     int16
	NumBits                uint8
	OriginalFieldType      uint8
	LaplacianScalingFactor int32 // T = this * 1e-6
	Js, Ks, Ms             uint32
	Ts                     uint32 // count of unpacked (verbatim) coefficients
	PrecisionFlag          uint8  // 1 = 32-bit IEEE-754

	JJ, KK, MM uint32

	numberOfDataValues uint32
}

// ParseTemplate551 parses Data Representation Template 5.51. JJ/KK/MM must
// be supplied separately via SetTruncation once the grid definition
// section has been parsed.
func ParseTemplate551(numDataValues uint32, data []byte) (*Template551, error) {
	const minLen = 31
	if len(data) < minLen {
		return nil, errors.Errorf("data: template 5.51 requires at least %d bytes, got %d", minLen, len(data))
	}
	r := internal.NewReader(data)
	var t Template551
	t.Reference, _ = r.Float32()
	t.BinaryScaleFactor, _ = r.Int16()
	t.DecimalScaleFactor, _ = r.Int16()
	numBits, _ := r.Uint8()
	t.NumBits = numBits
	t.OriginalFieldType, _ = r.Uint8()
	laplacian, _ := r.Int32()
	t.LaplacianScalingFactor = laplacian
	js, _ := r.Uint32()
	t.Js = js
	ks, _ := r.Uint32()
	t.Ks = ks
	ms, _ := r.Uint32()
	t.Ms = ms
	ts, _ := r.Uint32()
	t.Ts = ts
	precision, _ := r.Uint8()
	t.PrecisionFlag = precision
	t.numberOfDataValues = numDataValues
	return &t, nil
}

// NewTemplate551 builds a Template551 ready to encode spherical-harmonic
// coefficient pairs once SetTruncation has been called.
func NewTemplate551(e, d int16, nbits uint8, laplacianScalingFactor int32, js, ks, ms uint32) *Template551 {
	return &Template551{
		BinaryScaleFactor:      e,
		DecimalScaleFactor:     d,
		NumBits:                nbits,
		LaplacianScalingFactor: laplacianScalingFactor,
		Js:                     js,
		Ks:                     ks,
		Ms:                     ms,
		PrecisionFlag:          1,
	}
}

// SetTruncation supplies the pentagonal truncation parameters from the
// grid definition template. Required before Decode or Encode.
func (t *Template551) SetTruncation(jj, kk, mm uint32) {
	t.JJ, t.KK, t.MM = jj, kk, mm
}

// TemplateNumber returns 51 for Template 5.51.
func (t *Template551) TemplateNumber() int { return 51 }

// NumDataValues returns the number of data values.
func (t *Template551) NumDataValues() uint32 { return t.numberOfDataValues }

// BitsPerValue returns the number of bits used for each packed coefficient.
func (t *Template551) BitsPerValue() uint8 { return t.NumBits }

// nTruncation returns the largest total wavenumber n visited for zonal
// wavenumber m, given a pentagonal truncation (J, K, M): rhomboidal when
// K == J+M (Nm = J+m), otherwise Nm = J (triangular and other shapes).
func nTruncation(j, k, m, zonal uint32) uint32 {
	if k == j+m {
		return j + zonal
	}
	return j
}

// spectralCoeff is one visited (m, n) pair during traversal.
type spectralCoeff struct {
	m, n     uint32
	isSubset bool
}

// walkSpectral enumerates every (m, n) coefficient pair in the standard
// traversal order: outer loop over zonal wavenumber m, inner loop over
// total wavenumber n from m up to the truncation bound for that m. A pair
// is flagged isSubset when it also falls inside the (Js, Ks, Ms) subset
// kept unpacked.
func walkSpectral(jj, kk, mm, js, ks, ms uint32) []spectralCoeff {
	var coeffs []spectralCoeff
	for m := uint32(0); m <= mm; m++ {
		nm := nTruncation(jj, kk, mm, m)
		var ns uint32
		subsetZonal := m <= ms
		if subsetZonal {
			ns = nTruncation(js, ks, ms, m)
		}
		for n := m; n <= nm; n++ {
			coeffs = append(coeffs, spectralCoeff{
				m: m, n: n,
				isSubset: subsetZonal && n <= ns,
			})
		}
	}
	return coeffs
}

// laplacianScale precomputes P(n) = (n(n+1))^(-T) for n in [0, maxN], with
// P(0) = 1 to avoid the n=0 singularity (the planetary-mean coefficient is
// always carried in the unpacked subset in practice).
func laplacianScale(maxN uint32, scalingFactor int32) []float64 {
	p := make([]float64, maxN+1)
	t := float64(scalingFactor) * 1e-6
	for n := range p {
		if n == 0 || t == 0 {
			p[n] = 1
			continue
		}
		nn := float64(n)
		p[n] = math.Pow(nn*(nn+1), -t)
	}
	return p
}

// Decode unpacks spherical-harmonic coefficients. bitmap is not meaningful
// for spectral fields and must be nil.
func (t *Template551) Decode(packedData []byte, bitmap []bool) ([]float64, error) {
	if bitmap != nil {
		return nil, errors.New("data: template 5.51 does not support bitmaps")
	}
	if t.PrecisionFlag != 1 {
		return make([]float64, t.numberOfDataValues), ErrUnsupportedPrecision
	}

	coeffs := walkSpectral(t.JJ, t.KK, t.MM, t.Js, t.Ks, t.Ms)
	pscale := laplacianScale(t.JJ+t.MM, t.LaplacianScalingFactor)

	br := internal.NewBitReader(packedData)
	unpk := make([]float32, t.Ts)
	for i := range unpk {
		bits, err := br.ReadBits(32)
		if err != nil {
			return nil, errors.Wrap(err, "unpacked coefficient")
		}
		unpk[i] = math.Float32frombits(uint32(bits))
	}

	npacked := int(t.numberOfDataValues) - int(t.Ts)
	if npacked < 0 {
		return nil, errors.New("data: template 5.51 Ts exceeds number of data values")
	}
	packed := make([]int64, npacked)
	for i := range packed {
		v, err := br.ReadBits(int(t.NumBits))
		if err != nil {
			return nil, errors.Wrap(err, "packed coefficient")
		}
		packed[i] = int64(v)
	}

	fld := make([]float64, 0, t.numberOfDataValues)
	unpkPos, packedPos := 0, 0
	binScale := math.Pow(2, -float64(t.BinaryScaleFactor))
	decScale := math.Pow(10, -float64(t.DecimalScaleFactor))
	for _, c := range coeffs {
		if c.isSubset {
			fld = append(fld, float64(unpk[unpkPos]), float64(unpk[unpkPos+1]))
			unpkPos += 2
			continue
		}
		p := pscale[c.n]
		vRe := (float64(packed[packedPos])*binScale + float64(t.Reference)) * decScale * p
		vIm := (float64(packed[packedPos+1])*binScale + float64(t.Reference)) * decScale * p
		fld = append(fld, vRe, vIm)
		packedPos += 2
	}
	return fld, nil
}

// Encode packs spherical-harmonic coefficient pairs (real, imag, real,
// imag, ...) using spectral complex packing. SetTruncation must have been
// called first. This extends beyond the decode-only source routine so
// the round-trip properties are testable.
func (t *Template551) Encode(fld []float64) (payload []byte, templateBytes []byte, err error) {
	if t.JJ == 0 && t.KK == 0 && t.MM == 0 {
		return nil, nil, errors.New("data: template 5.51 encode requires SetTruncation")
	}
	coeffs := walkSpectral(t.JJ, t.KK, t.MM, t.Js, t.Ks, t.Ms)
	if 2*len(coeffs) != len(fld) {
		return nil, nil, errors.Errorf("data: template 5.51 expected %d values, got %d", 2*len(coeffs), len(fld))
	}
	pscale := laplacianScale(t.JJ+t.MM, t.LaplacianScalingFactor)

	var unpk []float64
	var descaled []float64
	pos := 0
	for _, c := range coeffs {
		re, im := fld[pos], fld[pos+1]
		pos += 2
		if c.isSubset {
			unpk = append(unpk, re, im)
			continue
		}
		p := pscale[c.n]
		descaled = append(descaled, re/p, im/p)
	}

	ifld, refQuantized := quantizeField(descaled, t.BinaryScaleFactor, t.DecimalScaleFactor)
	t.Reference = refQuantized
	t.Ts = uint32(len(unpk))
	t.PrecisionFlag = 1
	t.numberOfDataValues = uint32(len(fld))

	bw := internal.NewBitWriter()
	for _, v := range unpk {
		if err := bw.WriteBits(uint64(math.Float32bits(float32(v))), 32); err != nil {
			return nil, nil, errors.Wrap(err, "unpacked coefficient")
		}
	}
	for _, v := range ifld {
		if err := bw.WriteBits(uint64(v), int(t.NumBits)); err != nil {
			return nil, nil, errors.Wrap(err, "packed coefficient")
		}
	}
	return bw.Bytes(), t.bytes(), nil
}

// bytes serializes the descriptor back to the Section 5 template-specific
// byte layout, the inverse of ParseTemplate551.
func (t *Template551) bytes() []byte {
	buf := make([]byte, 31)
	putUint32(buf[0:4], math.Float32bits(t.Reference))
	putInt16(buf[4:6], t.BinaryScaleFactor)
	putInt16(buf[6:8], t.DecimalScaleFactor)
	buf[8] = t.NumBits
	buf[9] = t.OriginalFieldType
	putUint32(buf[10:14], uint32(t.LaplacianScalingFactor))
	putUint32(buf[14:18], t.Js)
	putUint32(buf[18:22], t.Ks)
	putUint32(buf[22:26], t.Ms)
	putUint32(buf[26:30], t.Ts)
	buf[30] = t.PrecisionFlag
	return buf
}

// String returns a human-readable description.
func (t *Template551) String() string {
	return fmt.Sprintf("Template 5.51: Spectral Complex Packing, JJ=%d KK=%d MM=%d, %d values, nbits=%d",
		t.JJ, t.KK, t.MM, t.numberOfDataValues, t.NumBits)
}
