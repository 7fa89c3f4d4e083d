package data

import (
	"fmt"

	"github.com/pkg/errors"
)

// Template52 represents Data Representation Template 5.2: Complex Packing
// (no spatial differencing). Used for fields whose dynamic range doesn't
// benefit from a predictive transform, unlike the HRRR/NAM-style fields
// Template53 targets.
type Template52 struct {
	tmpl               ComplexTemplate
	numberOfDataValues uint32
	minGroupLength     int
}

// ParseTemplate52 parses Data Representation Template 5.2.
func ParseTemplate52(numDataValues uint32, data []byte) (*Template52, error) {
	tmpl, err := parseComplexTemplate(data, false)
	if err != nil {
		return nil, errors.Wrap(err, "template 5.2")
	}
	return &Template52{
		tmpl:               tmpl,
		numberOfDataValues: numDataValues,
		minGroupLength:     DefaultMinPackLength,
	}, nil
}

// NewTemplate52 builds a Template52 ready to encode fld with the given
// scaling and missing-value parameters. missMgmt selects Table 5.5:
// 0 = none, 1 = primary sentinel only, 2 = primary and secondary.
func NewTemplate52(e, d int16, missMgmt uint8, primaryMissing, secondaryMissing float32) *Template52 {
	return &Template52{
		tmpl: ComplexTemplate{
			BinaryScaleFactor:     e,
			DecimalScaleFactor:    d,
			MissingValueMgmt:      missMgmt,
			PrimaryMissingValue:   primaryMissing,
			SecondaryMissingValue: secondaryMissing,
		},
		minGroupLength: DefaultMinPackLength,
	}
}

// TemplateNumber returns 2 for Template 5.2.
func (t *Template52) TemplateNumber() int { return 2 }

// NumDataValues returns the number of data values.
func (t *Template52) NumDataValues() uint32 { return t.numberOfDataValues }

// BitsPerValue returns the number of bits used for each group reference.
func (t *Template52) BitsPerValue() uint8 { return t.tmpl.NumBitsRef }

// Decode unpacks data using complex packing without spatial differencing.
func (t *Template52) Decode(packedData []byte, bitmap []bool) ([]float64, error) {
	ndata := int(t.numberOfDataValues)
	values, err := DecodeComplexField(packedData, t.tmpl, ndata)
	if err != nil {
		return nil, errors.Wrap(err, "template 5.2 decode")
	}
	if bitmap == nil {
		return values, nil
	}
	return expandWithBitmap(values, bitmap)
}

// Encode packs fld (already in grid order, with bitmap-masked points
// dropped by the caller) using complex packing without spatial
// differencing, returning the payload bytes and the serialized template
// descriptor to place in Section 5.
func (t *Template52) Encode(fld []float64) (payload []byte, templateBytes []byte, err error) {
	payload, tmpl, err := EncodeComplexField(fld, t.tmpl.BinaryScaleFactor, t.tmpl.DecimalScaleFactor,
		t.tmpl.MissingValueMgmt, t.tmpl.PrimaryMissingValue, t.tmpl.SecondaryMissingValue, 0, t.minGroupLength)
	if err != nil {
		return nil, nil, errors.Wrap(err, "template 5.2 encode")
	}
	t.tmpl = tmpl
	t.numberOfDataValues = uint32(len(fld))
	return payload, tmpl.bytes(false), nil
}

// String returns a human-readable description.
func (t *Template52) String() string {
	return fmt.Sprintf("Template 5.2: Complex Packing, %d values, %d groups, R=%g, E=%d, D=%d",
		t.numberOfDataValues, t.tmpl.NumberOfGroups, t.tmpl.Reference, t.tmpl.BinaryScaleFactor, t.tmpl.DecimalScaleFactor)
}

// expandWithBitmap scatters a compacted values slice (one entry per valid
// grid point) back out to one entry per grid point, filling gaps with the
// conventional GRIB2 missing value.
func expandWithBitmap(packed []float64, bitmap []bool) ([]float64, error) {
	if len(packed) > len(bitmap) {
		return nil, fmt.Errorf("more packed values (%d) than bitmap entries (%d)", len(packed), len(bitmap))
	}
	out := make([]float64, len(bitmap))
	idx := 0
	for i, valid := range bitmap {
		if valid {
			if idx >= len(packed) {
				return nil, fmt.Errorf("bitmap indicates more valid points than packed values available")
			}
			out[i] = packed[idx]
			idx++
		} else {
			out[i] = MissingMissingValue
		}
	}
	if idx != len(packed) {
		return nil, fmt.Errorf("bitmap mismatch: used %d packed values, have %d", idx, len(packed))
	}
	return out, nil
}
