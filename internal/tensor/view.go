package tensor

import "fmt"

// View addresses a detection-head buffer laid out as
// [batch, anchor, entry, row, col]: batch outermost, then anchor, then the
// entry (channel) planes of that anchor, with the spatial grid innermost.
// Consecutive entries of the same anchor are Width*Height apart.
type View struct {
	Batch   int
	Anchors int
	Entries int
	Height  int
	Width   int

	strides []int
}

// NewView creates a View over a 5-D [batch, anchors, entries, height, width] shape.
func NewView(shape Shape) (View, error) {
	if len(shape) != 5 {
		return View{}, fmt.Errorf("view: expected 5D shape [batch, anchors, entries, h, w], got %dD", len(shape))
	}
	if err := shape.Validate(); err != nil {
		return View{}, fmt.Errorf("view: %w", err)
	}
	return View{
		Batch:   shape[0],
		Anchors: shape[1],
		Entries: shape[2],
		Height:  shape[3],
		Width:   shape[4],
		strides: shape.ComputeStrides(),
	}, nil
}

// Spatial returns the number of grid cells (Width*Height).
func (v View) Spatial() int {
	return v.Width * v.Height
}

// PerBatch returns the number of elements of one batch item.
func (v View) PerBatch() int {
	return v.strides[0]
}

// Offset returns the linear offset of (batch, anchor, entry, row, col).
func (v View) Offset(batch, anchor, entry, row, col int) int {
	return batch*v.strides[0] + anchor*v.strides[1] + entry*v.strides[2] + row*v.strides[3] + col*v.strides[4]
}

// Index returns the linear offset for a flattened location
// (anchor*Width*Height + row*Width + col) and an entry within that anchor.
func (v View) Index(batch, location, entry int) int {
	spatial := v.Spatial()
	anchor := location / spatial
	loc := location % spatial
	return batch*v.strides[0] + anchor*v.strides[1] + entry*v.strides[2] + loc
}
