package packer

import "image"

// Rect returns the half-open rectangle covered by p. The sentinel covers
// an empty rectangle at the origin.
func (p Placement) Rect() image.Rectangle {
	if p.IsSentinel() {
		return image.Rectangle{}
	}
	return image.Rect(p.X, p.Y, p.X+p.Item.Width, p.Y+p.Item.Height)
}

// Translate returns a placement of the same item shifted by (dx, dy).
func (p Placement) Translate(dx, dy int) Placement {
	return Placement{Item: p.Item, X: p.X + dx, Y: p.Y + dy}
}

// Within reports whether p lies inside [0,box.Width) x [0,box.Height).
func (p Placement) Within(box Box) bool {
	if p.IsSentinel() {
		return true
	}
	return p.X >= 0 && p.Y >= 0 &&
		p.X+p.Item.Width <= box.Width &&
		p.Y+p.Item.Height <= box.Height
}

// Overlaps reports whether a and b share positive area. Rectangles touching
// only along an edge or at a corner do not overlap, and a sentinel overlaps
// nothing.
func Overlaps(a, b Placement) bool {
	if a.IsSentinel() || b.IsSentinel() {
		return false
	}
	return overlapsAt(a.X, a.Y, a.Item.Width, a.Item.Height, b)
}

func overlapsAt(x, y, w, h int, b Placement) bool {
	return x < b.X+b.Item.Width && b.X < x+w &&
		y < b.Y+b.Item.Height && b.Y < y+h
}

func overlapsAny(x, y, w, h int, accepted []Placement) bool {
	for _, p := range accepted {
		if p.IsSentinel() {
			continue
		}
		if overlapsAt(x, y, w, h, p) {
			return true
		}
	}
	return false
}
