package data

import "testing"

func sumLengths(lengths []int) int {
	total := 0
	for _, l := range lengths {
		total += l
	}
	return total
}

func TestPartitionGroupsSumsToInputLength(t *testing.T) {
	tests := []struct {
		name string
		x    []int64
	}{
		{"constant", []int64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}},
		{"ramp", makeRampI64(1000)},
		{"single value", []int64{42}},
		{"empty", nil},
		{"two values", []int64{1, 2}},
		{"noisy", []int64{1, 100, 2, 99, 3, 98, 4, 97, 5, 96, 6, 95}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lengths := PartitionGroups(tt.x, DefaultMinPackLength, nil)
			if got := sumLengths(lengths); got != len(tt.x) {
				t.Errorf("group lengths sum to %d, want %d", got, len(tt.x))
			}
			for _, l := range lengths {
				if l <= 0 {
					t.Errorf("got non-positive group length %d", l)
				}
			}
		})
	}
}

func makeRampI64(n int) []int64 {
	x := make([]int64, n)
	for i := range x {
		x[i] = int64(i)
	}
	return x
}

func TestPartitionGroupsSingleGroupForConstantInput(t *testing.T) {
	x := make([]int64, 100)
	for i := range x {
		x[i] = 7
	}
	lengths := PartitionGroups(x, DefaultMinPackLength, nil)
	if len(lengths) != 1 {
		t.Fatalf("expected a single group for constant input, got %d groups", len(lengths))
	}
	if lengths[0] != 100 {
		t.Errorf("expected group length 100, got %d", lengths[0])
	}
}

func TestPartitionGroupsCarvesLongMissingRunsOnly(t *testing.T) {
	// Positions 3-5 are a 3-long run of primary-missing samples, shorter than
	// minpk: too short to justify a dedicated width-0 group, so it stays
	// embedded in the surrounding numeric partitioning (buildMixedGroups
	// gives that group the extra width it needs for the sentinel).
	x := []int64{1, 2, 3, 999, 999, 999, 4, 5, 6}
	kind := []uint8{0, 0, 0, 1, 1, 1, 0, 0, 0}

	lengths := PartitionGroups(x, DefaultMinPackLength, kind)
	if got := sumLengths(lengths); got != len(x) {
		t.Fatalf("group lengths sum to %d, want %d", got, len(x))
	}
	if len(lengths) != 1 {
		t.Errorf("short missing run below minpk should stay embedded in one group, got %d groups: %v", len(lengths), lengths)
	}
}

func TestPartitionGroupsCarvesDedicatedGroupForLongMissingRun(t *testing.T) {
	// A missing run at least minpk long gets its own dedicated group,
	// distinct from the numeric data on either side.
	n := 40
	x := make([]int64, n)
	kind := make([]uint8, n)
	for i := range x {
		x[i] = int64(i)
	}
	for i := 15; i < 15+DefaultMinPackLength; i++ {
		kind[i] = 1
	}

	lengths := PartitionGroups(x, DefaultMinPackLength, kind)
	if got := sumLengths(lengths); got != n {
		t.Fatalf("group lengths sum to %d, want %d", got, n)
	}

	pos := 0
	foundDedicated := false
	for _, l := range lengths {
		if pos == 15 && l == DefaultMinPackLength {
			foundDedicated = true
		}
		pos += l
	}
	if !foundDedicated {
		t.Errorf("expected a dedicated group of length %d starting at position 15, got lengths %v", DefaultMinPackLength, lengths)
	}
}

func TestPartitionGroupsMinpkPreference(t *testing.T) {
	// A short run shorter than minpk should not be forced to split early.
	x := []int64{1, 2, 3, 4, 5}
	lengths := PartitionGroups(x, 10, nil)
	if len(lengths) != 1 {
		t.Errorf("expected one group below minpk threshold, got %d: %v", len(lengths), lengths)
	}
}
