package tensor

import "fmt"

// RawTensor is a contiguous float32 buffer with a row-major shape.
//
// The detection head owns its output and gradient buffers as RawTensors and
// addresses them through a View; nothing here is reference counted, a
// RawTensor belongs to exactly one layer.
type RawTensor struct {
	data   []float32
	shape  Shape
	stride []int
	device Device
}

// NewRaw creates a zero-filled RawTensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]float32, shape.NumElements()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		device: device,
	}, nil
}

// FromSlice creates a RawTensor that copies data.
func FromSlice(data []float32, shape Shape, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	r, err := NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	copy(r.data, data)
	return r, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Device returns the device the tensor is processed on.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return len(r.data)
}

// Data returns the underlying buffer. Writes are visible to the owner.
func (r *RawTensor) Data() []float32 {
	return r.data
}

// Zero sets every element to 0.
func (r *RawTensor) Zero() {
	clear(r.data)
}

// Realloc changes the tensor's shape. The backing array is reused when it is
// large enough; contents are not preserved in any meaningful layout and the
// caller must rewrite them.
func (r *RawTensor) Realloc(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}

	n := shape.NumElements()
	if cap(r.data) >= n {
		r.data = r.data[:n]
	} else {
		r.data = make([]float32, n)
	}
	r.shape = shape.Clone()
	r.stride = shape.ComputeStrides()
	return nil
}

// Clone returns a deep copy.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]float32, len(r.data))
	copy(data, r.data)
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		device: r.device,
	}
}

// String returns a short description of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor(shape=%v, device=%s)", r.shape, r.device)
}
