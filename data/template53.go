package data

import (
	"fmt"

	"github.com/pkg/errors"
)

// Template53 represents Data Representation Template 5.3: Complex Packing
// with Spatial Differencing.
//
// This template is used for efficient compression of gridded meteorological
// data by:
//  1. Applying spatial differencing (first or second order) to reduce
//     dynamic range
//  2. Dividing data into groups with varying bit widths
//  3. Packing each group with only the bits needed for its range
//
// Commonly used by regional forecast models like HRRR and NAM.
type Template53 struct {
	tmpl               ComplexTemplate
	numberOfDataValues uint32
	minGroupLength     int
}

// ParseTemplate53 parses Data Representation Template 5.3.
func ParseTemplate53(numDataValues uint32, data []byte) (*Template53, error) {
	tmpl, err := parseComplexTemplate(data, true)
	if err != nil {
		return nil, errors.Wrap(err, "template 5.3")
	}
	return &Template53{
		tmpl:               tmpl,
		numberOfDataValues: numDataValues,
		minGroupLength:     DefaultMinPackLength,
	}, nil
}

// NewTemplate53 builds a Template53 ready to encode fld with the given
// scaling, spatial-differencing order (1 or 2), and missing-value
// parameters.
func NewTemplate53(e, d int16, spatialOrder uint8, missMgmt uint8, primaryMissing, secondaryMissing float32) *Template53 {
	return &Template53{
		tmpl: ComplexTemplate{
			BinaryScaleFactor:     e,
			DecimalScaleFactor:    d,
			MissingValueMgmt:      missMgmt,
			PrimaryMissingValue:   primaryMissing,
			SecondaryMissingValue: secondaryMissing,
			SpatialDiffOrder:      spatialOrder,
		},
		minGroupLength: DefaultMinPackLength,
	}
}

// TemplateNumber returns 3 for Template 5.3.
func (t *Template53) TemplateNumber() int { return 3 }

// NumDataValues returns the number of data values.
func (t *Template53) NumDataValues() uint32 { return t.numberOfDataValues }

// BitsPerValue returns the number of bits used for each group reference.
func (t *Template53) BitsPerValue() uint8 { return t.tmpl.NumBitsRef }

// Decode unpacks data using complex packing with spatial differencing.
//
// If bitmap is provided, it must have length equal to the number of grid
// points. The output will have the same length as the bitmap, with
// undefined values set to the conventional GRIB2 missing value where
// bitmap is false.
func (t *Template53) Decode(packedData []byte, bitmap []bool) ([]float64, error) {
	ndata := int(t.numberOfDataValues)
	values, err := DecodeComplexField(packedData, t.tmpl, ndata)
	if err != nil {
		return nil, errors.Wrap(err, "template 5.3 decode")
	}
	if bitmap == nil {
		return values, nil
	}
	return expandWithBitmap(values, bitmap)
}

// Encode packs fld using complex packing with spatial differencing,
// returning the payload bytes and the serialized template descriptor to
// place in Section 5.
func (t *Template53) Encode(fld []float64) (payload []byte, templateBytes []byte, err error) {
	order := t.tmpl.SpatialDiffOrder
	if order != 1 && order != 2 {
		order = 2
	}
	payload, tmpl, err := EncodeComplexField(fld, t.tmpl.BinaryScaleFactor, t.tmpl.DecimalScaleFactor,
		t.tmpl.MissingValueMgmt, t.tmpl.PrimaryMissingValue, t.tmpl.SecondaryMissingValue, order, t.minGroupLength)
	if err != nil {
		return nil, nil, errors.Wrap(err, "template 5.3 encode")
	}
	t.tmpl = tmpl
	t.numberOfDataValues = uint32(len(fld))
	return payload, tmpl.bytes(true), nil
}

// String returns a human-readable description.
func (t *Template53) String() string {
	return fmt.Sprintf("Template 5.3: Complex Packing (Spatial Diff Order %d), %d values, %d groups, R=%g, E=%d, D=%d",
		t.tmpl.SpatialDiffOrder, t.numberOfDataValues, t.tmpl.NumberOfGroups, t.tmpl.Reference,
		t.tmpl.BinaryScaleFactor, t.tmpl.DecimalScaleFactor)
}
