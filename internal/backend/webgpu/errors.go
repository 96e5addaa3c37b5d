package webgpu

import "errors"

// ErrNotAvailable is returned by New when no WebGPU adapter can be used.
var ErrNotAvailable = errors.New("webgpu: not available")
