package packer

// Option configures a Solver.
type Option func(*Solver)

// WithFinder replaces the default FirstFit search.
func WithFinder(f PositionFinder) Option {
	return func(s *Solver) {
		if f != nil {
			s.finder = f
		}
	}
}

// Solver places items one at a time in input order. It never backtracks:
// an item with no feasible position is skipped for good, and a run that skips
// anything discards every placement it accepted.
type Solver struct {
	finder PositionFinder
}

// New creates a Solver using FirstFit unless overridden.
func New(opts ...Option) *Solver {
	s := &Solver{finder: FirstFit{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pack implements Packer.
func (s *Solver) Pack(box Box, items []Item) Result {
	return s.Solve(box, items)
}

// Solve runs one placement pass. The returned placements reference elements
// of items, which must not be modified while the result is in use.
// The outcome is a pure function of box and the item order.
func (s *Solver) Solve(box Box, items []Item) Result {
	accepted := make([]Placement, 0, len(items))
	for i := range items {
		item := &items[i]
		x, y, ok := s.finder.FindPosition(*item, box, accepted)
		if !ok {
			continue
		}
		accepted = append(accepted, Placement{Item: item, X: x, Y: y})
	}

	res := Result{
		Succeeded: len(accepted) == len(items),
		Requested: len(items),
	}
	if !res.Succeeded || len(accepted) == 0 {
		return res
	}

	res.Placements = accepted
	res.Fitness = Fitness(box, accepted)
	res.TotalWeight = TotalWeight(accepted)
	return res
}

// Fitness returns the share of the box area covered by the real placements.
// A box with no area yields 0.
func Fitness(box Box, placements []Placement) float64 {
	area := box.Area()
	if area <= 0 {
		return 0
	}
	used := 0.0
	for _, p := range placements {
		if p.IsSentinel() {
			continue
		}
		used += p.Item.Area()
	}
	return used / area
}

// TotalWeight sums the weight of the real placements.
func TotalWeight(placements []Placement) int {
	total := 0
	for _, p := range placements {
		if p.IsSentinel() {
			continue
		}
		total += p.Item.Weight
	}
	return total
}
