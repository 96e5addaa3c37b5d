// Package tensor provides the flat float32 buffers, layout views and the
// compute backend contract used by the detection head.
package tensor

// Device represents the compute device a buffer is processed on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}
