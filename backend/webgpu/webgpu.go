// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for the detection head.
//
// The kernels are implemented on windows; on other platforms New reports
// an error and IsAvailable is false.
//
// Example:
//
//	import (
//	    "github.com/born-ml/born-yolo/backend/cpu"
//	    "github.com/born-ml/born-yolo/backend/webgpu"
//	    "github.com/born-ml/born-yolo/tensor"
//	)
//
//	func main() {
//	    var backend tensor.Backend = cpu.New()
//	    if webgpu.IsAvailable() {
//	        gpu, err := webgpu.New()
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        defer gpu.Release()
//	        backend = gpu
//	    }
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/born-yolo/internal/backend/webgpu"
	"github.com/born-ml/born-yolo/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// ErrNotAvailable is returned by New when no WebGPU device can be used.
var ErrNotAvailable = internalwebgpu.ErrNotAvailable

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
