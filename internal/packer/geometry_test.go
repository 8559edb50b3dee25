package packer

import (
	"image"
	"testing"
)

func TestOverlaps(t *testing.T) {
	t.Parallel()

	square := &Item{Width: 10, Height: 10}
	tall := &Item{Width: 5, Height: 30}

	tests := []struct {
		name string
		a, b Placement
		want bool
	}{
		{name: "SamePosition", a: Placement{Item: square}, b: Placement{Item: square}, want: true},
		{name: "PartialOverlap", a: Placement{Item: square}, b: Placement{Item: square, X: 5, Y: 5}, want: true},
		{name: "Contained", a: Placement{Item: tall, X: 2, Y: -10}, b: Placement{Item: square}, want: true},
		{name: "TouchingRightEdge", a: Placement{Item: square}, b: Placement{Item: square, X: 10}, want: false},
		{name: "TouchingBottomEdge", a: Placement{Item: square}, b: Placement{Item: square, Y: 10}, want: false},
		{name: "TouchingCorner", a: Placement{Item: square}, b: Placement{Item: square, X: 10, Y: 10}, want: false},
		{name: "Disjoint", a: Placement{Item: square}, b: Placement{Item: tall, X: 40, Y: 40}, want: false},
		{name: "SentinelLeft", a: Sentinel(), b: Placement{Item: square}, want: false},
		{name: "SentinelBoth", a: Sentinel(), b: Sentinel(), want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("Overlaps(a, b) = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Fatalf("Overlaps(b, a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTranslateReturnsNewPlacement(t *testing.T) {
	t.Parallel()

	item := &Item{Width: 4, Height: 2, Weight: 1}
	p := Placement{Item: item, X: 3, Y: 7}

	moved := p.Translate(2, -5)
	if moved.X != 5 || moved.Y != 2 {
		t.Fatalf("expected (5,2), got (%d,%d)", moved.X, moved.Y)
	}
	if moved.Item != item {
		t.Fatalf("expected translated placement to reference the same item")
	}
	if p.X != 3 || p.Y != 7 {
		t.Fatalf("original placement mutated: (%d,%d)", p.X, p.Y)
	}
}

func TestRectAndWithin(t *testing.T) {
	t.Parallel()

	box := Box{Width: 20, Height: 10}
	item := &Item{Width: 5, Height: 5}

	p := Placement{Item: item, X: 15, Y: 5}
	if got, want := p.Rect(), image.Rect(15, 5, 20, 10); got != want {
		t.Fatalf("expected rect %v, got %v", want, got)
	}
	if !p.Within(box) {
		t.Fatalf("expected placement flush with the corner to be within the box")
	}
	if p.Translate(1, 0).Within(box) {
		t.Fatalf("expected placement past the right edge to be outside")
	}
	if p.Translate(-16, 0).Within(box) {
		t.Fatalf("expected placement with negative x to be outside")
	}
	if !Sentinel().Rect().Empty() {
		t.Fatalf("expected sentinel rect to be empty")
	}
}
