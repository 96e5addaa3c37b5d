package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

// Axpy computes y += alpha*x.
func (cpu *CPUBackend) Axpy(alpha float32, x, y []float32) error {
	if len(x) != len(y) {
		return fmt.Errorf("axpy: length mismatch %d vs %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil
	}
	blas32.Axpy(alpha, vector(x), vector(y))
	return nil
}

// Dot returns the inner product of x and y.
// Panics if the lengths differ.
func (cpu *CPUBackend) Dot(x, y []float32) float32 {
	if len(x) != len(y) {
		panic(fmt.Sprintf("dot: length mismatch %d vs %d", len(x), len(y)))
	}
	if len(x) == 0 {
		return 0
	}
	return blas32.Dot(vector(x), vector(y))
}

func vector(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}
