package data

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mmp/gribpack/internal"
)

// MissingMissingValue is the conventional GRIB2 "no data" fill value used
// throughout this package wherever a decoded position carries no sentinel
// of its own (e.g. points outside a bitmap).
const MissingMissingValue = 9.999e20

// ErrInvalidMissMgmt reports a missing-value management octet outside
// {0, 1, 2} (Table 5.5).
var ErrInvalidMissMgmt = errors.New("data: missing value management must be 0, 1 or 2")

// ErrInvalidTemplate reports an internally inconsistent complex-packing
// template: a group count that disagrees with the lengths read back from
// the payload, or a negative bit width.
var ErrInvalidTemplate = errors.New("data: inconsistent complex packing template")

// ComplexTemplate is the typed, in-memory counterpart of the positional
// idrstmpl[1..18] layout used by DRT 5.2 and 5.3. Fields unused by 5.2
// (SpatialDiffOrder, NBitsdOctets) are left zero.
type ComplexTemplate struct {
	Reference              float32
	BinaryScaleFactor      int16
	DecimalScaleFactor     int16
	NumBitsRef             uint8
	OriginalFieldType      uint8
	SplittingMethod        uint8
	MissingValueMgmt       uint8
	PrimaryMissingValue    float32
	SecondaryMissingValue  float32
	NumberOfGroups         uint32
	ReferenceGroupWidth    uint8
	NumBitsGroupWidth      uint8
	ReferenceGroupLength   uint32
	GroupLengthIncrement   uint8
	LastGroupLength        uint32
	NumBitsGroupLength     uint8
	SpatialDiffOrder       uint8
	NBitsdOctets           uint8
}

// dequantize applies the decode-direction quantization law from the data
// model: value = (x * 2^-E + R) * 10^-D.
func (t *ComplexTemplate) dequantize(x int64) float64 {
	value := float64(x)*math.Pow(2, -float64(t.BinaryScaleFactor)) + float64(t.Reference)
	return value * math.Pow(10, -float64(t.DecimalScaleFactor))
}

// quantizeField computes rmin, the quantized reference octet, and the
// zero-referenced integer sequence for the given reals, following §3's
// encode law. E=0 is special-cased to round each term separately rather
// than the difference, matching the source routine's rounding order.
func quantizeField(fld []float64, e int16, d int16) (ifld []int64, refQuantized float32) {
	ifld = make([]int64, len(fld))
	if len(fld) == 0 {
		return ifld, 0
	}
	rmin := fld[0]
	for _, v := range fld[1:] {
		if v < rmin {
			rmin = v
		}
	}
	scaleD := math.Pow(10, float64(d))

	if e == 0 {
		refInt := int64(math.Round(rmin * scaleD))
		refQuantized = float32(refInt)
		for j, v := range fld {
			ifld[j] = int64(math.Round(v*scaleD)) - refInt
		}
		return ifld, refQuantized
	}

	// R is the decimal-scaled minimum carried at float32 precision, not
	// rounded to an integer: rounding R separately from each ifld(j) would
	// reintroduce up to half a binary-scaled unit of avoidable error right
	// at the field minimum, since the same R is subtracted at encode and
	// added back at decode.
	refQuantized = float32(rmin * scaleD)
	rScaled := float64(refQuantized)

	scaleE := math.Pow(2, float64(e))
	for j, v := range fld {
		val := int64(math.Round((v*scaleD - rScaled) * scaleE))
		if val < 0 {
			val = 0
		}
		ifld[j] = val
	}
	return ifld, refQuantized
}

// spatialDifferenceEncode applies first- or second-order spatial
// differencing in place (order 0 is a no-op), returning the two leading
// reference values (v2 unused for order 1), the differenced region's
// minimum, and the octet-rounded bit width needed to hold all three in
// sign-magnitude form.
func spatialDifferenceEncode(ifld []int64, order uint8) (v1, v2, msd int64, nbitsd uint8) {
	n := len(ifld)
	switch order {
	case 1:
		for j := n - 1; j >= 1; j-- {
			ifld[j] -= ifld[j-1]
		}
		if n > 0 {
			v1 = ifld[0]
			ifld[0] = 0
		}
	case 2:
		for j := n - 1; j >= 2; j-- {
			ifld[j] = ifld[j] - 2*ifld[j-1] + ifld[j-2]
		}
		if n > 0 {
			v1 = ifld[0]
			ifld[0] = 0
		}
		if n > 1 {
			v2 = ifld[1]
			ifld[1] = 0
		}
	default:
		return 0, 0, 0, 0
	}

	start := int(order)
	if start > n {
		start = n
	}
	if start < n {
		msd = ifld[start]
		for _, v := range ifld[start:] {
			if v < msd {
				msd = v
			}
		}
		for j := start; j < n; j++ {
			ifld[j] -= msd
		}
	}

	maxAbs := absInt64(v1)
	if a := absInt64(v2); a > maxAbs {
		maxAbs = a
	}
	if a := absInt64(msd); a > maxAbs {
		maxAbs = a
	}
	bits := internal.Ilog2Ceil(uint32(maxAbs)) + 1 // +1 for the sign bit
	nbitsd = uint8(((bits + 7) / 8) * 8)
	return v1, v2, msd, nbitsd
}

// spatialDifferenceDecode inverts spatialDifferenceEncode in place.
func spatialDifferenceDecode(ifld []int64, v1, v2, msd int64, order uint8) {
	n := len(ifld)
	if order != 1 && order != 2 {
		return
	}
	start := int(order)
	if start > n {
		start = n
	}
	for j := start; j < n; j++ {
		ifld[j] += msd
	}
	if n > 0 {
		ifld[0] = v1
	}
	if order == 1 {
		for j := 1; j < n; j++ {
			ifld[j] += ifld[j-1]
		}
		return
	}
	if n > 1 {
		ifld[1] = v2
	}
	for j := 2; j < n; j++ {
		ifld[j] = ifld[j] + 2*ifld[j-1] - ifld[j-2]
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// groupDescriptor is a group's reduced representation: a reference, the
// bit width of every residual in the group, and the sample count.
type groupDescriptor struct {
	ref    int64
	width  uint8
	length uint32
}

// buildGroups reduces each contiguous run named by lengths to a
// (ref, width, length) triple, per §4.4 step 5.
func buildGroups(x []int64, lengths []int) []groupDescriptor {
	groups := make([]groupDescriptor, len(lengths))
	pos := 0
	for i, l := range lengths {
		seg := x[pos : pos+l]
		gmin, gmax := seg[0], seg[0]
		for _, v := range seg[1:] {
			if v < gmin {
				gmin = v
			}
			if v > gmax {
				gmax = v
			}
		}
		groups[i] = groupDescriptor{
			ref:    gmin,
			width:  uint8(internal.Ilog2Ceil(uint32(gmax - gmin))),
			length: uint32(l),
		}
		pos += l
	}
	return groups
}

// reduceGroupWidths computes width_ref (the smallest group width) and
// nbits_width (the bits needed for each width minus width_ref), per §3 item 3.
func reduceGroupWidths(groups []groupDescriptor) (ref uint8, nbits uint8) {
	if len(groups) == 0 {
		return 0, 0
	}
	ref = groups[0].width
	maxWidth := groups[0].width
	for _, g := range groups[1:] {
		if g.width < ref {
			ref = g.width
		}
		if g.width > maxWidth {
			maxWidth = g.width
		}
	}
	nbits = uint8(internal.Ilog2Ceil(uint32(maxWidth - ref)))
	return ref, nbits
}

// reduceGroupLengths computes length_ref, the increment (always 1, per
// §3), nbits_len, and the true length of the last group.
func reduceGroupLengths(groups []groupDescriptor) (ref uint32, increment uint8, nbits uint8, lastLength uint32) {
	n := len(groups)
	if n == 0 {
		return 0, 0, 0, 0
	}
	lastLength = groups[n-1].length
	if n == 1 {
		return groups[0].length, 1, 0, lastLength
	}
	ref = groups[0].length
	maxLen := groups[0].length
	for _, g := range groups[:n-1] {
		if g.length < ref {
			ref = g.length
		}
		if g.length > maxLen {
			maxLen = g.length
		}
	}
	increment = 1
	nbits = uint8(internal.Ilog2Ceil(maxLen - ref))
	return ref, increment, nbits, lastLength
}

// packGroupedPayload assembles the metadata and residual sections of the
// payload (§3 items 2-6), given the already-reduced group descriptors and
// the zero-referenced residual stream.
func packGroupedPayload(bw *internal.BitWriter, groups []groupDescriptor, residuals []int64, nbitsRef uint8, widthRef uint8, nbitsWidth uint8, lengthRef uint32, lengthIncrement uint8, nbitsLen uint8) error {
	for _, g := range groups {
		if err := bw.WriteBits(uint64(g.ref), int(nbitsRef)); err != nil {
			return errors.Wrap(err, "group reference")
		}
	}
	bw.Align()

	if nbitsWidth > 0 {
		for _, g := range groups {
			if err := bw.WriteBits(uint64(g.width-widthRef), int(nbitsWidth)); err != nil {
				return errors.Wrap(err, "group width")
			}
		}
	}
	bw.Align()

	if nbitsLen > 0 {
		for i, g := range groups {
			if i == len(groups)-1 {
				continue
			}
			scaled := (g.length - lengthRef) / uint32(lengthIncrement)
			if err := bw.WriteBits(uint64(scaled), int(nbitsLen)); err != nil {
				return errors.Wrap(err, "group length")
			}
		}
	}
	bw.Align()

	pos := 0
	for _, g := range groups {
		for j := uint32(0); j < g.length; j++ {
			if g.width > 0 {
				if err := bw.WriteBits(uint64(residuals[pos]-g.ref), int(g.width)); err != nil {
					return errors.Wrap(err, "residual")
				}
			}
			pos++
		}
	}
	return nil
}

// unpackGroupedPayload is the inverse of packGroupedPayload, reading
// ngroups reference/width/length triples and then the residual stream,
// returning the zero-referenced residual values (group reference already
// added back in).
func unpackGroupedPayload(br *internal.BitReader, ngroups uint32, nbitsRef uint8, widthRef uint8, nbitsWidth uint8, lengthRef uint32, lengthIncrement uint8, nbitsLen uint8, lastLength uint32, ndata int) ([]int64, []groupDescriptor, error) {
	refs := make([]int64, ngroups)
	if nbitsRef > 0 {
		for i := range refs {
			v, err := br.ReadBits(int(nbitsRef))
			if err != nil {
				return nil, nil, errors.Wrap(err, "group reference")
			}
			refs[i] = int64(v)
		}
	}
	br.Align()

	widths := make([]uint8, ngroups)
	if nbitsWidth > 0 {
		for i := range widths {
			v, err := br.ReadBits(int(nbitsWidth))
			if err != nil {
				return nil, nil, errors.Wrap(err, "group width")
			}
			widths[i] = uint8(v) + widthRef
		}
	} else {
		for i := range widths {
			widths[i] = widthRef
		}
	}
	br.Align()

	lengths := make([]uint32, ngroups)
	if nbitsLen > 0 {
		// The last group's length is not in the stream; lastLength carries it.
		for i := 0; i+1 < len(lengths); i++ {
			v, err := br.ReadBits(int(nbitsLen))
			if err != nil {
				return nil, nil, errors.Wrap(err, "group length")
			}
			lengths[i] = lengthRef + uint32(v)*uint32(lengthIncrement)
		}
	} else {
		for i := range lengths {
			lengths[i] = lengthRef
		}
	}
	br.Align()
	if ngroups > 0 {
		lengths[ngroups-1] = lastLength
	}

	groups := make([]groupDescriptor, ngroups)
	total := uint32(0)
	for i := range groups {
		groups[i] = groupDescriptor{ref: refs[i], width: widths[i], length: lengths[i]}
		total += lengths[i]
	}
	if int(total) != ndata {
		return nil, nil, errors.Wrapf(ErrInvalidTemplate, "group lengths sum to %d, expected %d", total, ndata)
	}

	out := make([]int64, ndata)
	pos := 0
	for _, g := range groups {
		for j := uint32(0); j < g.length; j++ {
			if g.width == 0 {
				out[pos] = g.ref
			} else {
				v, err := br.ReadBits(int(g.width))
				if err != nil {
					return nil, nil, errors.Wrap(err, "residual")
				}
				out[pos] = g.ref + int64(v)
			}
			pos++
		}
	}
	return out, groups, nil
}

// EncodeComplexField implements the shared encode path for DRT 5.2
// (spatialOrder == 0) and DRT 5.3 (spatialOrder == 1 or 2), with or
// without missing-value sentinels (missMgmt 0, 1 or 2 per Table 5.5).
func EncodeComplexField(fld []float64, e int16, d int16, missMgmt uint8, primaryMissing, secondaryMissing float32, spatialOrder uint8, minpk int) ([]byte, ComplexTemplate, error) {
	if missMgmt > 2 {
		return nil, ComplexTemplate{}, ErrInvalidMissMgmt
	}

	tmpl := ComplexTemplate{
		DecimalScaleFactor:    d,
		BinaryScaleFactor:     e,
		OriginalFieldType:     0,
		SplittingMethod:       1,
		MissingValueMgmt:      missMgmt,
		PrimaryMissingValue:   primaryMissing,
		SecondaryMissingValue: secondaryMissing,
		SpatialDiffOrder:      spatialOrder,
		GroupLengthIncrement:  1,
	}

	ndata := len(fld)
	kind := make([]uint8, ndata)
	var present []float64
	if missMgmt > 0 {
		for i, v := range fld {
			switch {
			case missMgmt >= 1 && float32(v) == primaryMissing:
				kind[i] = 1
			case missMgmt == 2 && float32(v) == secondaryMissing:
				kind[i] = 2
			default:
				present = append(present, v)
			}
		}
	} else {
		present = fld
	}

	presentOrMissing := present
	if len(presentOrMissing) == 0 && missMgmt > 0 {
		// §4.5 step 1: rmin falls back to rmissp when every sample in the
		// field is missing, since there are no present values to take a
		// minimum over.
		presentOrMissing = []float64{float64(primaryMissing)}
	}
	jfld, refQuantized := quantizeField(presentOrMissing, e, d)
	if len(present) == 0 {
		jfld = nil
	}
	tmpl.Reference = refQuantized

	var v1, v2, msd int64
	var nbitsd uint8
	if spatialOrder == 1 || spatialOrder == 2 {
		v1, v2, msd, nbitsd = spatialDifferenceEncode(jfld, spatialOrder)
	}
	tmpl.NBitsdOctets = uint8((int(nbitsd) + 7) / 8)

	// Re-expand: interleave the (possibly differenced) present-value stream
	// back into the full ndata-length sequence. Missing positions get a
	// placeholder of 0; buildMixedGroups (below) overwrites them with each
	// group's actual sentinel residual once group widths are known, and
	// the partitioner ignores them entirely when estimating group width.
	ifld := make([]int64, ndata)
	jpos := 0
	for i := range ifld {
		if kind[i] == 0 {
			ifld[i] = jfld[jpos]
			jpos++
		}
	}

	var lengths []int
	switch {
	case ndata < 2:
		lengths = nil
		if ndata == 1 {
			lengths = []int{1}
		}
	case missMgmt > 0:
		lengths = PartitionGroups(ifld, minpk, kind)
	default:
		lengths = PartitionGroups(ifld, minpk, nil)
	}
	if missMgmt == 0 && spatialOrder == 0 && ndata > 1 {
		// A constant DRT 5.2 field is carried by the reference alone: no
		// groups and an empty payload.
		constant := true
		for _, v := range ifld {
			if v != 0 {
				constant = false
				break
			}
		}
		if constant {
			lengths = nil
		}
	}

	var groups []groupDescriptor
	var groupKindMarker []int8
	if missMgmt > 0 {
		groups, groupKindMarker = buildMixedGroups(ifld, kind, lengths, missMgmt)
	} else {
		groups = buildGroups(ifld, lengths)
		groupKindMarker = make([]int8, len(groups))
	}

	maxRealRef := int64(0)
	anyReal := false
	for i, g := range groups {
		if groupKindMarker[i] == 0 {
			if !anyReal || g.ref > maxRealRef {
				maxRealRef = g.ref
				anyReal = true
			}
		}
	}

	var nbitsRef uint8
	if missMgmt > 0 {
		nbitsRef = uint8(internal.Ilog2Ceil(uint32(maxRealRef) + uint32(missMgmt)))
		topCode := int64(1)<<nbitsRef - 1
		for i := range groups {
			switch groupKindMarker[i] {
			case 1:
				groups[i].ref = topCode
			case 2:
				groups[i].ref = topCode - 1
			}
		}
	} else {
		nbitsRef = uint8(internal.Ilog2Ceil(uint32(maxRealRef)))
	}
	tmpl.NumBitsRef = nbitsRef
	tmpl.NumberOfGroups = uint32(len(groups))

	widthRef, nbitsWidth := reduceGroupWidths(groups)
	lengthRef, lengthIncrement, nbitsLen, lastLength := reduceGroupLengths(groups)
	tmpl.ReferenceGroupWidth = widthRef
	tmpl.NumBitsGroupWidth = nbitsWidth
	tmpl.ReferenceGroupLength = lengthRef
	tmpl.NumBitsGroupLength = nbitsLen
	tmpl.LastGroupLength = lastLength

	bw := internal.NewBitWriter()
	if spatialOrder == 1 || spatialOrder == 2 {
		if err := bw.WriteSignedBits(v1, int(nbitsd)); err != nil {
			return nil, tmpl, errors.Wrap(err, "v1")
		}
		if spatialOrder == 2 {
			if err := bw.WriteSignedBits(v2, int(nbitsd)); err != nil {
				return nil, tmpl, errors.Wrap(err, "v2")
			}
		}
		if err := bw.WriteSignedBits(msd, int(nbitsd)); err != nil {
			return nil, tmpl, errors.Wrap(err, "m_sd")
		}
		bw.Align()
	}

	if err := packGroupedPayload(bw, groups, ifld, nbitsRef, widthRef, nbitsWidth, lengthRef, lengthIncrement, nbitsLen); err != nil {
		return nil, tmpl, err
	}

	return bw.Bytes(), tmpl, nil
}

// DecodeComplexField implements the shared decode path, the inverse of
// EncodeComplexField.
func DecodeComplexField(payload []byte, tmpl ComplexTemplate, ndata int) ([]float64, error) {
	if tmpl.MissingValueMgmt > 2 {
		return nil, ErrInvalidMissMgmt
	}
	if len(payload) == 0 {
		if ndata == 0 {
			return nil, nil
		}
		values := make([]float64, ndata)
		ref := tmpl.dequantize(0)
		for i := range values {
			values[i] = ref
		}
		return values, nil
	}

	br := internal.NewBitReader(payload)

	var v1, v2, msd int64
	nbitsd := int(tmpl.NBitsdOctets) * 8
	order := tmpl.SpatialDiffOrder
	if order == 1 || order == 2 {
		raw, err := br.ReadBits(nbitsd)
		if err != nil {
			return nil, errors.Wrap(err, "v1")
		}
		v1 = unpackSignMagnitude(raw, nbitsd)
		if order == 2 {
			raw, err = br.ReadBits(nbitsd)
			if err != nil {
				return nil, errors.Wrap(err, "v2")
			}
			v2 = unpackSignMagnitude(raw, nbitsd)
		}
		raw, err = br.ReadBits(nbitsd)
		if err != nil {
			return nil, errors.Wrap(err, "m_sd")
		}
		msd = unpackSignMagnitude(raw, nbitsd)
		br.Align()
	}

	ifld, groups, err := unpackGroupedPayload(br, tmpl.NumberOfGroups, tmpl.NumBitsRef, tmpl.ReferenceGroupWidth,
		tmpl.NumBitsGroupWidth, tmpl.ReferenceGroupLength, tmpl.GroupLengthIncrement, tmpl.NumBitsGroupLength,
		tmpl.LastGroupLength, ndata)
	if err != nil {
		return nil, err
	}

	// Identify missing-only groups by their sentinel codepoint before
	// spatial-difference reversal touches the numeric stream.
	isMissing := make([]bool, ndata)
	missKind := make([]uint8, ndata)
	if tmpl.MissingValueMgmt > 0 {
		topCodeRef := int64(1)<<tmpl.NumBitsRef - 1
		pos := 0
		for _, g := range groups {
			if g.width == 0 {
				k := uint8(0)
				if g.ref == topCodeRef {
					k = 1
				} else if tmpl.MissingValueMgmt == 2 && g.ref == topCodeRef-1 {
					k = 2
				}
				if k != 0 {
					for j := uint32(0); j < g.length; j++ {
						isMissing[pos] = true
						missKind[pos] = k
						pos++
					}
					continue
				}
				pos += int(g.length)
				continue
			}

			// A nonzero-width group may mix real data with missing
			// sentinels: the top 1 (primary) or 2 (primary and secondary)
			// codepoints of its own range are reserved for them, per the
			// group-raising convention applied at encode time.
			localTop := int64(1)<<g.width - 1
			for j := uint32(0); j < g.length; j++ {
				raw := ifld[pos] - g.ref
				switch {
				case raw == localTop:
					isMissing[pos] = true
					missKind[pos] = 1
				case tmpl.MissingValueMgmt == 2 && raw == localTop-1:
					isMissing[pos] = true
					missKind[pos] = 2
				}
				pos++
			}
		}
	}

	// Compact the present-value stream for spatial-difference reversal
	// and dequantization, mirroring the encoder's compaction step.
	present := make([]int64, 0, ndata)
	for i, v := range ifld {
		if !isMissing[i] {
			present = append(present, v)
		}
	}

	if order == 1 || order == 2 {
		spatialDifferenceDecode(present, v1, v2, msd, order)
	}

	values := make([]float64, ndata)
	pos := 0
	for i := range values {
		if isMissing[i] {
			if missKind[i] == 1 {
				values[i] = float64(tmpl.PrimaryMissingValue)
			} else {
				values[i] = float64(tmpl.SecondaryMissingValue)
			}
			continue
		}
		values[i] = tmpl.dequantize(present[pos])
		pos++
	}
	return values, nil
}

// parseComplexTemplate reads the common DRT 5.2/5.3 descriptor fields
// (§3's template descriptor items 1-16) from the template-specific bytes
// of Section 5; hasSpatialDiff also reads items 17-18 (DRT 5.3 only).
func parseComplexTemplate(data []byte, hasSpatialDiff bool) (ComplexTemplate, error) {
	minLen := 36
	if hasSpatialDiff {
		minLen = 38
	}
	if len(data) < minLen {
		return ComplexTemplate{}, errors.Errorf("data: complex packing template requires at least %d bytes, got %d", minLen, len(data))
	}

	r := internal.NewReader(data)
	var t ComplexTemplate
	t.Reference, _ = r.Float32()
	t.BinaryScaleFactor, _ = r.Int16()
	t.DecimalScaleFactor, _ = r.Int16()
	numBitsRef, _ := r.Uint8()
	t.NumBitsRef = numBitsRef
	t.OriginalFieldType, _ = r.Uint8()
	t.SplittingMethod, _ = r.Uint8()
	t.MissingValueMgmt, _ = r.Uint8()
	t.PrimaryMissingValue, _ = r.Float32()
	t.SecondaryMissingValue, _ = r.Float32()
	t.NumberOfGroups, _ = r.Uint32()
	t.ReferenceGroupWidth, _ = r.Uint8()
	t.NumBitsGroupWidth, _ = r.Uint8()
	t.ReferenceGroupLength, _ = r.Uint32()
	t.GroupLengthIncrement, _ = r.Uint8()
	t.LastGroupLength, _ = r.Uint32()
	t.NumBitsGroupLength, _ = r.Uint8()
	if hasSpatialDiff {
		t.SpatialDiffOrder, _ = r.Uint8()
		t.NBitsdOctets, _ = r.Uint8()
	}
	return t, nil
}

// bytes serializes the descriptor back to the Section 5 template-specific
// byte layout, the inverse of parseComplexTemplate.
func (t ComplexTemplate) bytes(hasSpatialDiff bool) []byte {
	size := 36
	if hasSpatialDiff {
		size = 38
	}
	buf := make([]byte, size)
	putUint32(buf[0:4], math.Float32bits(t.Reference))
	putInt16(buf[4:6], t.BinaryScaleFactor)
	putInt16(buf[6:8], t.DecimalScaleFactor)
	buf[8] = t.NumBitsRef
	buf[9] = t.OriginalFieldType
	buf[10] = t.SplittingMethod
	buf[11] = t.MissingValueMgmt
	putUint32(buf[12:16], math.Float32bits(t.PrimaryMissingValue))
	putUint32(buf[16:20], math.Float32bits(t.SecondaryMissingValue))
	putUint32(buf[20:24], t.NumberOfGroups)
	buf[24] = t.ReferenceGroupWidth
	buf[25] = t.NumBitsGroupWidth
	putUint32(buf[26:30], t.ReferenceGroupLength)
	buf[30] = t.GroupLengthIncrement
	putUint32(buf[31:35], t.LastGroupLength)
	buf[35] = t.NumBitsGroupLength
	if hasSpatialDiff {
		buf[36] = t.SpatialDiffOrder
		buf[37] = t.NBitsdOctets
	}
	return buf
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func putInt16(b []byte, v int16) {
	// GRIB2 uses sign-magnitude for signed octet pairs, matching Reader.Int16.
	var u uint16
	if v < 0 {
		u = 0x8000 | uint16(-v)
	} else {
		u = uint16(v)
	}
	b[0] = byte(u >> 8)
	b[1] = byte(u)
}

func unpackSignMagnitude(code uint64, nbits int) int64 {
	if nbits == 0 {
		return 0
	}
	signBit := uint64(1) << uint(nbits-1)
	if code&signBit != 0 {
		return -int64(code &^ signBit)
	}
	return int64(code)
}
