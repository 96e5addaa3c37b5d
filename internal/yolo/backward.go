package yolo

import "fmt"

// Backward adds the layer gradient into upstream, the gradient buffer of
// the layer feeding this one. upstream is accumulated into, not replaced.
func (l *Layer) Backward(upstream []float32) error {
	delta := l.delta.Data()
	if len(upstream) != len(delta) {
		return fmt.Errorf("%w: upstream gradient has %d values, want %d", ErrInputSize, len(upstream), len(delta))
	}
	if err := l.backend.Axpy(1, delta, upstream); err != nil {
		return fmt.Errorf("yolo: backward on %s: %w", l.backend.Name(), err)
	}
	return nil
}
