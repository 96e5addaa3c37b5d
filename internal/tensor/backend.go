package tensor

// Span is a contiguous range [Offset, Offset+Len) of a flat buffer.
type Span struct {
	Offset int
	Len    int
}

// Backend executes the buffer-level kernels of the detection head.
//
// Implementations:
//   - backend/cpu: pure Go, always available
//   - backend/webgpu: WebGPU compute shaders (windows)
//
// Kernels operate on host slices. An accelerated backend uploads, runs and
// reads back synchronously, so the caller always observes the result in the
// slice it passed in.
type Backend interface {
	// Logistic applies 1/(1+exp(-x)) in place to every span of data.
	Logistic(data []float32, spans []Span) error

	// Axpy computes y += alpha*x. len(x) must equal len(y).
	Axpy(alpha float32, x, y []float32) error

	// Dot returns the inner product of x and y.
	Dot(x, y []float32) float32

	// Metadata
	Name() string
	Device() Device
}
