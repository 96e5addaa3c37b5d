// Package cpu implements the host backend for the detection head kernels.
package cpu

import (
	"github.com/born-ml/born-yolo/internal/parallel"
	"github.com/born-ml/born-yolo/internal/tensor"
)

// CPUBackend runs the detection head kernels on the host.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend that runs every kernel on the calling goroutine.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.Sequential(),
	}
}

// NewParallel creates a CPU backend that spreads independent spans across
// goroutines according to cfg.
func NewParallel(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
