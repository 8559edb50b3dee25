package packer

// Box is the fixed-size container items are placed into.
// Weight is carried through results but never restricts placement.
type Box struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	Weight int `json:"weight" yaml:"weight"`
}

// Area returns the interior area of the box. It is computed in float64 so
// extents near the int limit cannot wrap.
func (b Box) Area() float64 {
	return float64(b.Width) * float64(b.Height)
}

// Item is a rectangle to be placed. Items are never rotated.
type Item struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	Weight int `json:"weight" yaml:"weight"`
}

// Area returns width*height as a float64.
func (i Item) Area() float64 {
	return float64(i.Width) * float64(i.Height)
}

// Placement binds an item to a top-left origin. The item is referenced, not
// owned. A placement without an item is the sentinel.
type Placement struct {
	Item *Item
	X    int
	Y    int
}

// Sentinel returns the placeholder placement used when a solution holds no
// real content.
func Sentinel() Placement {
	return Placement{}
}

// IsSentinel reports whether p carries no item.
func (p Placement) IsSentinel() bool {
	return p.Item == nil
}

// Result is the outcome of one solver run.
type Result struct {
	// Succeeded is false when at least one item could not be placed.
	Succeeded bool
	// Requested is the number of items handed to the solver.
	Requested int
	// Placements holds the accepted placements in input order. It is empty
	// when the run failed or no items were requested.
	Placements []Placement
	// Fitness is the fraction of the box area covered by Placements.
	Fitness     float64
	TotalWeight int
}

// Empty reports whether the result contains no real placements.
func (r Result) Empty() bool {
	return len(r.Placements) == 0
}

// Solution returns the placements as a never-empty sequence: when there is no
// real content it holds a single sentinel that consumers must skip.
func (r Result) Solution() []Placement {
	if r.Empty() {
		return []Placement{Sentinel()}
	}
	out := make([]Placement, len(r.Placements))
	copy(out, r.Placements)
	return out
}

// Packer describes the behaviour required from a placement solver.
type Packer interface {
	Pack(box Box, items []Item) Result
}
