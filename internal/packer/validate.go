package packer

import (
	"fmt"
	"math"
	"math/bits"
)

// DefaultMaxGridCells is the default budget for GridCells admitted by the
// outer surfaces.
const DefaultMaxGridCells = int64(2_000_000_000)

// HasIntersectingItems checks every unordered pair of the solution and reports
// whether any two overlap. Sentinels are ignored.
func HasIntersectingItems(solution []Placement) bool {
	for i := range solution {
		for j := i + 1; j < len(solution); j++ {
			if Overlaps(solution[i], solution[j]) {
				return true
			}
		}
	}
	return false
}

// Contained reports whether every real placement lies within box.
func Contained(box Box, solution []Placement) bool {
	for _, p := range solution {
		if !p.Within(box) {
			return false
		}
	}
	return true
}

// ValidateBox checks the box extents and weight.
func ValidateBox(box Box) error {
	if box.Width <= 0 || box.Height <= 0 || box.Weight < 0 {
		return fmt.Errorf("%w: got %dx%d weight %d", ErrInvalidBox, box.Width, box.Height, box.Weight)
	}
	return nil
}

// ValidateItems checks each item and reports the first offending index.
func ValidateItems(items []Item) error {
	for i, item := range items {
		if item.Width <= 0 || item.Height <= 0 || item.Weight < 0 {
			return fmt.Errorf("%w: item %d is %dx%d weight %d", ErrInvalidItem, i, item.Width, item.Height, item.Weight)
		}
	}
	return nil
}

// GridCells estimates the overlap tests a run may perform: the number of
// candidate origins times the item count squared. The product saturates at
// math.MaxInt64 instead of wrapping; non-positive extents count as zero.
func GridCells(box Box, items []Item) int64 {
	if box.Width <= 0 || box.Height <= 0 {
		return 0
	}
	n := uint64(len(items))
	cells := uint64(1)
	for _, f := range []uint64{uint64(box.Width), uint64(box.Height), n, n} {
		hi, lo := bits.Mul64(cells, f)
		if hi != 0 || lo > math.MaxInt64 {
			return math.MaxInt64
		}
		cells = lo
	}
	return int64(cells)
}
