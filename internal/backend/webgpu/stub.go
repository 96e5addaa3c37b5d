//go:build !windows

// Package webgpu implements the WebGPU backend for the detection head kernels.
//
// The go-webgpu bindings are only wired up on windows; elsewhere New reports
// ErrNotAvailable and callers fall back to the CPU backend.
package webgpu

import "github.com/born-ml/born-yolo/internal/tensor"

// Backend is the WebGPU backend. On this platform it can never be constructed.
type Backend struct{}

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New always fails with ErrNotAvailable on this platform.
func New() (*Backend, error) {
	return nil, ErrNotAvailable
}

// IsAvailable reports false on this platform.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string { return "WebGPU" }

// Device returns the compute device.
func (b *Backend) Device() tensor.Device { return tensor.WebGPU }

// Logistic reports ErrNotAvailable.
func (b *Backend) Logistic([]float32, []tensor.Span) error { return ErrNotAvailable }

// Axpy reports ErrNotAvailable.
func (b *Backend) Axpy(float32, []float32, []float32) error { return ErrNotAvailable }

// Dot returns 0; the backend cannot be constructed here.
func (b *Backend) Dot([]float32, []float32) float32 { return 0 }
