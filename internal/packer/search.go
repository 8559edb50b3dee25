package packer

import (
	"fmt"
	"sort"
)

// PositionFinder chooses an origin for item inside box given the placements
// accepted so far in the current run. It must not modify accepted.
type PositionFinder interface {
	FindPosition(item Item, box Box, accepted []Placement) (x, y int, ok bool)
}

// FirstFit scans integer origins with x as the outer loop and y as the inner
// loop and returns the first one whose rectangle overlaps no accepted
// placement. Among equally small x the smallest y wins.
//
// A single search costs O(W*H*k) overlap tests for k accepted placements, so
// a run over n items is bounded by O(n^2*W*H). The grid grows with the box
// extents, not with the item count.
type FirstFit struct{}

// FindPosition implements PositionFinder.
func (FirstFit) FindPosition(item Item, box Box, accepted []Placement) (int, int, bool) {
	if item.Width > box.Width || item.Height > box.Height {
		return 0, 0, false
	}
	for x := 0; x <= box.Width-item.Width; x++ {
		for y := 0; y <= box.Height-item.Height; y++ {
			if !overlapsAny(x, y, item.Width, item.Height, accepted) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// FirstFitRows is FirstFit with the loops swapped: y is the outer loop, so
// positions along the top edge fill before the next row is tried. Its cost
// bound is the same as FirstFit.
type FirstFitRows struct{}

// FindPosition implements PositionFinder.
func (FirstFitRows) FindPosition(item Item, box Box, accepted []Placement) (int, int, bool) {
	if item.Width > box.Width || item.Height > box.Height {
		return 0, 0, false
	}
	for y := 0; y <= box.Height-item.Height; y++ {
		for x := 0; x <= box.Width-item.Width; x++ {
			if !overlapsAny(x, y, item.Width, item.Height, accepted) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

const (
	// StrategyFirstFit names FirstFit.
	StrategyFirstFit = "first-fit"
	// StrategyFirstFitRows names FirstFitRows.
	StrategyFirstFitRows = "first-fit-rows"
)

var finders = map[string]PositionFinder{
	StrategyFirstFit:     FirstFit{},
	StrategyFirstFitRows: FirstFitRows{},
}

// FinderByName resolves a registered strategy name. The empty name selects
// FirstFit.
func FinderByName(name string) (PositionFinder, error) {
	if name == "" {
		return FirstFit{}, nil
	}
	f, ok := finders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return f, nil
}

// Strategies lists the registered strategy names in sorted order.
func Strategies() []string {
	names := make([]string, 0, len(finders))
	for name := range finders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
