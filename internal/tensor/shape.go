package tensor

import (
	"fmt"
	"slices"
)

// Shape lists tensor dimensions, outermost first.
type Shape []int

// NumElements is the product of the dimensions; an empty shape holds one
// element.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Validate rejects shapes with a zero or negative dimension.
func (s Shape) Validate() error {
	if i := slices.IndexFunc(s, func(d int) bool { return d <= 0 }); i >= 0 {
		return fmt.Errorf("dimension %d is %d, want > 0", i, s[i])
	}
	return nil
}

// Clone returns an independent copy of s.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

// ComputeStrides returns row-major strides: the last dimension is
// contiguous.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	step := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = step
		step *= s[i]
	}
	return strides
}
