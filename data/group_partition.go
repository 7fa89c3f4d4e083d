package data

import (
	"github.com/mmp/gribpack/internal"
)

// DefaultMinPackLength is minpk from the complex packing templates: the
// adaptive partitioner tries not to emit groups shorter than this, the same
// default NCEP's reference encoders use.
const DefaultMinPackLength = 10

// PartitionGroups implements Glahn's group-definition algorithm: a
// forward-scan greedy partitioner that splits x into contiguous groups,
// extending the current group while the marginal bits spent widening it to
// cover the next sample are cheaper than starting a fresh group, and
// otherwise closing it. minpk asks the partitioner to prefer groups of at
// least that length where the data allows it.
//
// kind, when non-nil, flags each position's missing-value kind (0 = present,
// 1 = primary missing, 2 = secondary missing). A maximal run of a single
// missing kind at least minpk long becomes its own dedicated width-0 group;
// shorter runs are left embedded in the surrounding numeric partitioning, so
// that a group can legitimately mix present samples with scattered missing
// ones (buildMixedGroups gives such a group the extra width it needs). This
// matches how missing samples actually occur in real fields: isolated, not
// clustered.
//
// The returned lengths sum to len(x).
func PartitionGroups(x []int64, minpk int, kind []uint8) []int {
	n := len(x)
	if n == 0 {
		return nil
	}
	if minpk <= 0 {
		minpk = DefaultMinPackLength
	}
	overhead := estimateGroupHeaderOverheadBits(x, kind, minpk)

	if kind == nil {
		return partitionRun(x, nil, minpk, overhead, 0)
	}

	missMgmt := uint8(0)
	for _, k := range kind {
		if k > missMgmt {
			missMgmt = k
		}
	}

	var lengths []int
	i := 0
	for i < n {
		if kind[i] != 0 {
			j := i + 1
			for j < n && kind[j] == kind[i] {
				j++
			}
			if j-i >= minpk {
				lengths = append(lengths, j-i)
				i = j
				continue
			}
		}

		// Accumulate a region to numerically partition: everything up to
		// (but not including) the next long homogeneous missing run.
		runEnd := i
		for runEnd < n {
			if kind[runEnd] != 0 {
				k := runEnd + 1
				for k < n && kind[k] == kind[runEnd] {
					k++
				}
				if k-runEnd >= minpk {
					break
				}
				runEnd = k
				continue
			}
			runEnd++
		}
		sub := partitionRun(x[i:runEnd], kind[i:runEnd], minpk, overhead, missMgmt)
		lengths = append(lengths, sub...)
		i = runEnd
	}
	return lengths
}

// partitionRun partitions a run of values, returning group lengths that sum
// to len(x). kind, when non-nil, marks some positions as missing samples
// that don't contribute to the running numeric span; missMgmt is added as
// flat headroom to every present-containing group's width estimate so the
// cost comparison approximates the width buildMixedGroups will assign.
// PartitionGroups passes the largest missing kind present in the field,
// which can be smaller than the template's missMgmt used by buildMixedGroups.
func partitionRun(x []int64, kind []uint8, minpk int, overhead int64, missMgmt uint8) []int {
	n := len(x)
	if n == 0 {
		return nil
	}

	isPresent := func(i int) bool { return kind == nil || kind[i] == 0 }

	var lengths []int
	i := 0
	for i < n {
		hasPresent := isPresent(i)
		var gmin, gmax int64
		if hasPresent {
			gmin, gmax = x[i], x[i]
		}
		width := widthWithHeadroom(hasPresent, 0, missMgmt)

		j := i + 1
		for j < n {
			newMin, newMax, newHasPresent := gmin, gmax, hasPresent
			if isPresent(j) {
				if !newHasPresent || x[j] < newMin {
					newMin = x[j]
				}
				if !newHasPresent || x[j] > newMax {
					newMax = x[j]
				}
				newHasPresent = true
			}
			newWidth := widthWithHeadroom(newHasPresent, uint32(newMax-newMin), missMgmt)

			curLen := j - i
			if curLen < minpk {
				// Still below the preferred minimum group length: keep
				// extending regardless of marginal bit cost.
				gmin, gmax, hasPresent, width = newMin, newMax, newHasPresent, newWidth
				j++
				continue
			}

			// Marginal cost, in bits, of folding x[j] into the current
			// group versus the header overhead of starting a new one.
			costExtend := int64(newWidth) * int64(curLen+1)
			costCurrent := int64(width) * int64(curLen)
			costNewGroup := costCurrent + overhead

			if costExtend <= costNewGroup {
				gmin, gmax, hasPresent, width = newMin, newMax, newHasPresent, newWidth
				j++
				continue
			}
			break
		}
		lengths = append(lengths, j-i)
		i = j
	}
	return lengths
}

func widthWithHeadroom(hasPresent bool, span uint32, missMgmt uint8) uint32 {
	if !hasPresent {
		return 0
	}
	if missMgmt > 0 {
		return internal.Ilog2Ceil(span + uint32(missMgmt))
	}
	return internal.Ilog2Ceil(span)
}

// buildMixedGroups is buildGroups extended for missing-value-aware
// encoding: present samples (kind == 0) alone define a group's reference
// and numeric span. When missMgmt > 0, every group with at least one
// present sample gets its width raised by missMgmt so the top 1 (primary only) or 2 (primary
// and secondary) codepoints of its own range are never reachable by a real
// residual — those codepoints are then free to mark missing samples (§4.5
// steps 5-7). A group with no present samples at all keeps width 0 and a
// placeholder reference (-1 primary, -2 secondary) for the caller to
// rewrite once nbits_ref is known, exactly like a plain all-missing group.
//
// Missing samples inside a present-containing group are rewritten in x to
// the group's reserved sentinel residual, so the ordinary grouped-payload
// packer needs no special case for them. The second return value flags,
// per group, which all-missing groups need the nbits_ref-scale rewrite (1
// = primary, 2 = secondary, 0 = not all-missing).
func buildMixedGroups(x []int64, kind []uint8, lengths []int, missMgmt uint8) ([]groupDescriptor, []int8) {
	groups := make([]groupDescriptor, len(lengths))
	marker := make([]int8, len(lengths))
	pos := 0
	for i, l := range lengths {
		hasPresent := false
		var gmin, gmax int64
		for k := pos; k < pos+l; k++ {
			if kind[k] == 0 {
				if !hasPresent || x[k] < gmin {
					gmin = x[k]
				}
				if !hasPresent || x[k] > gmax {
					gmax = x[k]
				}
				hasPresent = true
			}
		}

		if !hasPresent {
			ref := int64(-1)
			if kind[pos] == 2 {
				ref = -2
			}
			groups[i] = groupDescriptor{ref: ref, width: 0, length: uint32(l)}
			marker[i] = int8(kind[pos])
			pos += l
			continue
		}

		width := internal.Ilog2Ceil(uint32(gmax - gmin))
		if missMgmt > 0 {
			width = internal.Ilog2Ceil(uint32(gmax-gmin) + uint32(missMgmt))
		}
		groups[i] = groupDescriptor{ref: gmin, width: uint8(width), length: uint32(l)}

		if missMgmt > 0 {
			topCode := int64(1)<<width - 1
			for k := pos; k < pos+l; k++ {
				switch kind[k] {
				case 1:
					x[k] = gmin + topCode
				case 2:
					x[k] = gmin + topCode - 1
				}
			}
		}
		pos += l
	}
	return groups, marker
}

// estimateGroupHeaderOverheadBits makes one coarse pass over x, chunking it
// into minpk-sized candidate groups, to estimate the number of bits the
// three per-group header fields (reference, width, length) will need once
// the real partition is known. The adaptive partitioner uses this estimate,
// computed from the data instead of a fixed magic number, as the amortized
// cost of starting a new group.
func estimateGroupHeaderOverheadBits(x []int64, kind []uint8, minpk int) int64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	if minpk <= 0 {
		minpk = DefaultMinPackLength
	}

	var maxRef, maxWidth, maxLen uint32
	for i := 0; i < n; i += minpk {
		end := i + minpk
		if end > n {
			end = n
		}
		hasPresent := false
		var gmin, gmax int64
		for k := i; k < end; k++ {
			if kind == nil || kind[k] == 0 {
				if !hasPresent || x[k] < gmin {
					gmin = x[k]
				}
				if !hasPresent || x[k] > gmax {
					gmax = x[k]
				}
				hasPresent = true
			}
		}
		if !hasPresent {
			continue
		}
		if w := internal.Ilog2Ceil(uint32(gmax - gmin)); w > maxWidth {
			maxWidth = w
		}
		ref := uint32(0)
		if gmin > 0 {
			ref = uint32(gmin)
		}
		if w := internal.Ilog2Ceil(ref); w > maxRef {
			maxRef = w
		}
		if l := internal.Ilog2Ceil(uint32(end - i)); l > maxLen {
			maxLen = l
		}
	}

	return int64(maxRef + maxWidth + maxLen)
}

// buildGroups, reduceGroupWidths and reduceGroupLengths (the missing-value-
// agnostic group reduction, used when MissingValueMgmt == 0) live in
// complexpack.go alongside the rest of the grouped-payload codec.
