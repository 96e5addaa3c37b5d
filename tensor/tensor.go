// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/born-yolo/internal/tensor"

// Backend runs the dense kernels of a detection head.
//
// Implementations:
//   - backend/cpu: Pure Go with gonum BLAS
//   - backend/webgpu: WGSL compute shaders (windows)
type Backend = tensor.Backend

// Span is a contiguous range of a buffer.
type Span = tensor.Span

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// Device identifies where a backend computes.
type Device = tensor.Device

// Supported devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// RawTensor is a contiguous float32 buffer with a row-major shape.
type RawTensor = tensor.RawTensor

// View addresses a [batch][anchor][entry][row][col] buffer.
type View = tensor.View

// NewRaw creates a zero-filled RawTensor.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}

// FromSlice creates a RawTensor holding a copy of data.
func FromSlice(data []float32, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromSlice(data, shape, device)
}

// NewView creates a View over a 5-D shape.
func NewView(shape Shape) (View, error) {
	return tensor.NewView(shape)
}
