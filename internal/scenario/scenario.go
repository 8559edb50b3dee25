package scenario

import (
	"fmt"

	"github.com/eugenenazirov/boxpack/internal/packer"
)

// Scenario is a box together with the ordered items to place in it.
type Scenario struct {
	Box   packer.Box    `json:"box" yaml:"box"`
	Items []packer.Item `json:"items" yaml:"items"`
}

// Default returns the sample load: a 1400x300 box and fifteen items.
func Default() Scenario {
	return Scenario{
		Box: packer.Box{Width: 1400, Height: 300, Weight: 200},
		Items: expand([]itemSpec{
			{Width: 300, Height: 300, Weight: 20},
			{Width: 100, Height: 200, Weight: 10},
			{Width: 200, Height: 100, Weight: 10},
			{Width: 50, Height: 50, Weight: 20},
			{Width: 200, Height: 100, Weight: 10, Count: 2},
			{Width: 100, Height: 100, Weight: 10, Count: 6},
			{Width: 150, Height: 150, Weight: 10, Count: 2},
			{Width: 100, Height: 50, Weight: 10},
		}),
	}
}

// Validate checks the box and every item.
func (s Scenario) Validate() error {
	if err := packer.ValidateBox(s.Box); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := packer.ValidateItems(s.Items); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

// Clone returns a deep copy so callers can hand out scenarios without sharing
// the item slice.
func (s Scenario) Clone() Scenario {
	out := Scenario{Box: s.Box}
	if s.Items != nil {
		out.Items = make([]packer.Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// itemSpec is the on-disk form of an item; Count repeats it.
type itemSpec struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Weight int `yaml:"weight"`
	Count  int `yaml:"count,omitempty"`
}

func expand(specs []itemSpec) []packer.Item {
	items := make([]packer.Item, 0, len(specs))
	for _, spec := range specs {
		n := spec.Count
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			items = append(items, packer.Item{Width: spec.Width, Height: spec.Height, Weight: spec.Weight})
		}
	}
	return items
}
