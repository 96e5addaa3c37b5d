// Package box provides center-format bounding boxes, overlap metrics and
// detection post-processing.
package box

// Box is an axis-aligned box given by its center and size.
// Coordinates are normalized to [0, 1] unless stated otherwise.
type Box struct {
	X, Y float32 // center
	W, H float32
}

// FromSlice reads a box from the first four values of f as x, y, w, h.
func FromSlice(f []float32) Box {
	return Box{X: f[0], Y: f[1], W: f[2], H: f[3]}
}

// Area returns the area of the box.
func (b Box) Area() float32 {
	return b.W * b.H
}

// overlap returns the length of the overlap of two 1-D segments given by
// center and length. Negative when they are disjoint.
func overlap(x1, w1, x2, w2 float32) float32 {
	left := max(x1-w1/2, x2-w2/2)
	right := min(x1+w1/2, x2+w2/2)
	return right - left
}

// Intersection returns the area shared by a and b.
func (b Box) Intersection(o Box) float32 {
	w := overlap(b.X, b.W, o.X, o.W)
	h := overlap(b.Y, b.H, o.Y, o.H)
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

// Union returns the area covered by a or b.
func (b Box) Union(o Box) float32 {
	return b.Area() + o.Area() - b.Intersection(o)
}

// IoU returns the Intersection over Union of two boxes, or 0 when the
// union is empty.
func (b Box) IoU(o Box) float32 {
	u := b.Union(o)
	if u <= 0 {
		return 0
	}
	return b.Intersection(o) / u
}
