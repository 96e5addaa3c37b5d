// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/born-yolo/internal/backend/cpu"
	"github.com/born-ml/born-yolo/internal/parallel"
	"github.com/born-ml/born-yolo/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a single-threaded CPU backend.
func New() *Backend {
	return internalcpu.New()
}

// NewParallel creates a CPU backend that splits kernels across up to
// workers goroutines. workers <= 0 uses one per CPU.
func NewParallel(workers int) *Backend {
	cfg := parallel.DefaultConfig()
	if workers > 0 {
		cfg.NumWorkers = workers
		cfg.Enabled = workers > 1
	}
	return internalcpu.NewParallel(cfg)
}
